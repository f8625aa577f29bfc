// Package ledger holds the user's record of executed trades and the stores
// that persist it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidRecord is returned by Append when a record fails Validate.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrDuplicateID is returned when appending a record whose id is taken.
	ErrDuplicateID = errors.New("duplicate record id")

	// ErrUnknownType is returned by Open for an unsupported store kind.
	ErrUnknownType = errors.New("unknown ledger type")
)

// TradeRecord is one executed trade. Period is an opaque label such as
// "2024-01"; records are simulated in stored order, not sorted by it.
type TradeRecord struct {
	ID         string  `json:"id"`
	Period     string  `json:"period"`
	Instrument string  `json:"instrument"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Shares     int64   `json:"shares"`
}

// RawReturn is (exit - entry) / entry. Callers must check EntryPrice > 0.
func (t TradeRecord) RawReturn() float64 {
	return (t.ExitPrice - t.EntryPrice) / t.EntryPrice
}

// RawProfit is (exit - entry) * shares.
func (t TradeRecord) RawProfit() float64 {
	return (t.ExitPrice - t.EntryPrice) * float64(t.Shares)
}

func (t TradeRecord) Cost() float64 {
	return t.EntryPrice * float64(t.Shares)
}

func (t TradeRecord) Proceeds() float64 {
	return t.ExitPrice * float64(t.Shares)
}

// Validate checks the fields a store requires before accepting a record.
func (t TradeRecord) Validate() error {
	switch {
	case strings.TrimSpace(t.Period) == "":
		return fmt.Errorf("%w: period is required", ErrInvalidRecord)
	case strings.TrimSpace(t.Instrument) == "":
		return fmt.Errorf("%w: instrument is required", ErrInvalidRecord)
	case !finite(t.EntryPrice) || t.EntryPrice <= 0:
		return fmt.Errorf("%w: entry_price %v must be positive", ErrInvalidRecord, t.EntryPrice)
	case !finite(t.ExitPrice) || t.ExitPrice < 0:
		return fmt.Errorf("%w: exit_price %v must not be negative", ErrInvalidRecord, t.ExitPrice)
	case t.Shares < 1:
		return fmt.Errorf("%w: shares %d must be at least 1", ErrInvalidRecord, t.Shares)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Store is an ordered, append-only collection of trades with removal by id.
// List returns a snapshot the caller may keep; later mutations do not
// affect it.
type Store interface {
	Append(ctx context.Context, rec TradeRecord) (TradeRecord, error)
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (TradeRecord, error)
	List(ctx context.Context) ([]TradeRecord, error)
	Close() error
}
