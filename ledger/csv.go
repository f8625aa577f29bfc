package ledger

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rustyeddy/swingsim/pkg/id"
)

// CSVHeader is the column layout written by CSVStore.
var CSVHeader = []string{"id", "period", "instrument", "entry_price", "exit_price", "shares"}

// Accepted spellings for each column, including the headers of the
// legacy spreadsheet the ledger was kept in.
var columnAliases = map[string][]string{
	"id":          {"id", "trade_id"},
	"period":      {"period", "month", "交易月份"},
	"instrument":  {"instrument", "symbol", "ticker", "股票代號", "股票"},
	"entry_price": {"entry_price", "entry", "buy_price", "買進價格"},
	"exit_price":  {"exit_price", "exit", "sell_price", "賣出價格"},
	"shares":      {"shares", "units", "quantity", "股數"},
}

// CSVStore keeps the ledger in a flat CSV file. The whole file is loaded on
// open and rewritten on every mutation; it assumes a single writer.
type CSVStore struct {
	mu   sync.RWMutex
	path string
	recs []TradeRecord
	log  zerolog.Logger
}

var _ Store = (*CSVStore)(nil)

// NewCSV opens the ledger at path, creating an empty one if the file does
// not exist.
func NewCSV(path string, log zerolog.Logger) (*CSVStore, error) {
	s := &CSVStore{path: path, log: log.With().Str("ledger", path).Logger()}

	f, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.flush(); err != nil {
			return nil, err
		}
		s.log.Debug().Msg("created empty ledger")
		return s, nil
	case err != nil:
		return nil, err
	}
	defer f.Close()

	recs, generated, err := readCSV(f, "")
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s.recs = recs
	if generated > 0 {
		// Persist ids minted for rows imported without one.
		if err := s.flush(); err != nil {
			return nil, err
		}
		s.log.Info().Int("generated", generated).Msg("assigned ids to ledger rows")
	}
	s.log.Debug().Int("records", len(recs)).Msg("loaded ledger")
	return s, nil
}

func (s *CSVStore) Append(_ context.Context, rec TradeRecord) (TradeRecord, error) {
	if err := rec.Validate(); err != nil {
		return TradeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = id.New()
	} else if indexOf(s.recs, rec.ID) >= 0 {
		return TradeRecord{}, ErrDuplicateID
	}

	prev := s.recs
	s.recs = append(append([]TradeRecord(nil), s.recs...), rec)
	if err := s.flush(); err != nil {
		s.recs = prev
		return TradeRecord{}, err
	}
	s.log.Debug().Str("id", rec.ID).Str("period", rec.Period).Msg("appended record")
	return rec, nil
}

func (s *CSVStore) Remove(_ context.Context, recID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.recs, recID)
	if i < 0 {
		return ErrNotFound
	}

	prev := s.recs
	next := make([]TradeRecord, 0, len(s.recs)-1)
	next = append(next, s.recs[:i]...)
	s.recs = append(next, s.recs[i+1:]...)
	if err := s.flush(); err != nil {
		s.recs = prev
		return err
	}
	s.log.Debug().Str("id", recID).Msg("removed record")
	return nil
}

func (s *CSVStore) Get(_ context.Context, recID string) (TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.recs, recID)
	if i < 0 {
		return TradeRecord{}, ErrNotFound
	}
	return s.recs[i], nil
}

func (s *CSVStore) List(_ context.Context) ([]TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TradeRecord, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

// Close is a no-op; every mutation is already on disk.
func (s *CSVStore) Close() error { return nil }

// flush replaces the file through a temp file in the same directory.
func (s *CSVStore) flush() error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := WriteCSV(tmp, s.recs); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// WriteCSV writes recs with CSVHeader.
func WriteCSV(w io.Writer, recs []TradeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range recs {
		err := cw.Write([]string{
			r.ID,
			r.Period,
			r.Instrument,
			f(r.EntryPrice),
			f(r.ExitPrice),
			strconv.FormatInt(r.Shares, 10),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a ledger file. The header may use any of the column
// aliases, in any order; the id column is optional and missing ids are
// generated. Every row is validated.
func ReadCSV(r io.Reader) ([]TradeRecord, error) {
	recs, _, err := readCSV(r, "")
	return recs, err
}

// ImportCSV is ReadCSV for single-instrument spreadsheets. When the header
// has no instrument column every row is assigned instrument; the legacy
// four-column sheet (交易月份, 買進價格, 賣出價格, 股數) is read this way.
// An empty instrument makes the column required again.
func ImportCSV(r io.Reader, instrument string) ([]TradeRecord, error) {
	recs, _, err := readCSV(r, strings.TrimSpace(instrument))
	return recs, err
}

func readCSV(r io.Reader, instrument string) (out []TradeRecord, generated int, err error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	cols, err := mapColumns(header, instrument != "")
	if err != nil {
		return nil, 0, err
	}

	seen := make(map[string]struct{})
	line := 1
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}

		rec, err := parseRow(row, cols, instrument)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}
		if rec.ID == "" {
			rec.ID = id.New()
			generated++
		}
		if _, dup := seen[rec.ID]; dup {
			return nil, 0, fmt.Errorf("line %d: %w: %s", line, ErrDuplicateID, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out, generated, nil
}

func mapColumns(header []string, instrumentOptional bool) (map[string]int, error) {
	cols := make(map[string]int)
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for name, aliases := range columnAliases {
			for _, a := range aliases {
				if h == a {
					cols[name] = i
				}
			}
		}
	}
	for name := range columnAliases {
		if name == "id" || (name == "instrument" && instrumentOptional) {
			continue
		}
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int, instrument string) (TradeRecord, error) {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	entry, err := strconv.ParseFloat(get("entry_price"), 64)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("entry_price: %w", err)
	}
	exit, err := strconv.ParseFloat(get("exit_price"), 64)
	if err != nil {
		return TradeRecord{}, fmt.Errorf("exit_price: %w", err)
	}
	shares, err := parseShares(get("shares"))
	if err != nil {
		return TradeRecord{}, fmt.Errorf("shares: %w", err)
	}

	if _, ok := cols["instrument"]; ok {
		instrument = get("instrument")
	}

	rec := TradeRecord{
		ID:         get("id"),
		Period:     get("period"),
		Instrument: instrument,
		EntryPrice: entry,
		ExitPrice:  exit,
		Shares:     shares,
	}
	return rec, rec.Validate()
}

// parseShares accepts "1000" as well as spreadsheet exports like "1000.0".
func parseShares(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if x != float64(int64(x)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(x), nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
