package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/swingsim/pkg/id"
)

// SQLiteStore keeps the ledger in a SQLite database. Records are listed in
// insertion order (the seq column), never by period label.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLite(path string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, log: log.With().Str("ledger", path).Logger()}, nil
}

func (s *SQLiteStore) Append(ctx context.Context, rec TradeRecord) (TradeRecord, error) {
	if err := rec.Validate(); err != nil {
		return TradeRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = id.New()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
		(id, period, instrument, entry_price, exit_price, shares)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Period, rec.Instrument, rec.EntryPrice, rec.ExitPrice, rec.Shares,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return TradeRecord{}, ErrDuplicateID
		}
		return TradeRecord{}, err
	}
	s.log.Debug().Str("id", rec.ID).Str("period", rec.Period).Msg("appended record")
	return rec, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, recID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, recID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	s.log.Debug().Str("id", recID).Msg("removed record")
	return nil
}

// Get returns a single record by id.
func (s *SQLiteStore) Get(ctx context.Context, recID string) (TradeRecord, error) {
	var rec TradeRecord

	row := s.db.QueryRowContext(ctx, `
		SELECT id, period, instrument, entry_price, exit_price, shares
		FROM trades
		WHERE id = ?`, recID)

	err := row.Scan(
		&rec.ID,
		&rec.Period,
		&rec.Instrument,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.Shares,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return TradeRecord{}, ErrNotFound
		}
		return TradeRecord{}, err
	}
	return rec, nil
}

// List returns every record in insertion order.
func (s *SQLiteStore) List(ctx context.Context) ([]TradeRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, period, instrument, entry_price, exit_price, shares
		FROM trades
		ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TradeRecord{}
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Period,
			&rec.Instrument,
			&rec.EntryPrice,
			&rec.ExitPrice,
			&rec.Shares,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
