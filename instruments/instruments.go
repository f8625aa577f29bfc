// Package instruments reduces a trade ledger to realized performance per
// instrument. It reads raw entry and exit prices; the risk envelope used by
// the simulator plays no part here.
package instruments

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/swingsim/ledger"
)

// ErrDivisionUndefined is returned when a ratio has a zero denominator.
var ErrDivisionUndefined = errors.New("division undefined")

// InstrumentSummary aggregates every record of one instrument. Money totals
// are exact decimals; the two ratios are floats for display.
type InstrumentSummary struct {
	Instrument  string
	Trades      int
	Shares      int64
	Cost        decimal.Decimal
	Proceeds    decimal.Decimal
	Profit      decimal.Decimal
	AverageCost float64
	Return      float64
}

// Aggregate groups records by instrument in order of first appearance.
func Aggregate(records []ledger.TradeRecord) ([]InstrumentSummary, error) {
	index := make(map[string]int)
	var out []InstrumentSummary

	for _, r := range records {
		i, ok := index[r.Instrument]
		if !ok {
			i = len(out)
			index[r.Instrument] = i
			out = append(out, InstrumentSummary{
				Instrument: r.Instrument,
				Cost:       decimal.Zero,
				Proceeds:   decimal.Zero,
			})
		}

		shares := decimal.NewFromInt(r.Shares)
		s := &out[i]
		s.Trades++
		s.Shares += r.Shares
		s.Cost = s.Cost.Add(decimal.NewFromFloat(r.EntryPrice).Mul(shares))
		s.Proceeds = s.Proceeds.Add(decimal.NewFromFloat(r.ExitPrice).Mul(shares))
	}

	for i := range out {
		s := &out[i]
		s.Profit = s.Proceeds.Sub(s.Cost)

		if s.Shares == 0 {
			return nil, fmt.Errorf("%w: %s has zero total shares", ErrDivisionUndefined, s.Instrument)
		}
		if s.Cost.IsZero() {
			return nil, fmt.Errorf("%w: %s has zero total cost", ErrDivisionUndefined, s.Instrument)
		}
		s.AverageCost = s.Cost.Div(decimal.NewFromInt(s.Shares)).InexactFloat64()
		s.Return = s.Profit.Div(s.Cost).InexactFloat64()
	}
	return out, nil
}

// Totals is the ledger-wide sum of every summary row. It must reconcile
// with the raw ledger.
type Totals struct {
	Trades   int
	Shares   int64
	Cost     decimal.Decimal
	Proceeds decimal.Decimal
	Profit   decimal.Decimal
}

func Sum(summaries []InstrumentSummary) Totals {
	t := Totals{Cost: decimal.Zero, Proceeds: decimal.Zero, Profit: decimal.Zero}
	for _, s := range summaries {
		t.Trades += s.Trades
		t.Shares += s.Shares
		t.Cost = t.Cost.Add(s.Cost)
		t.Proceeds = t.Proceeds.Add(s.Proceeds)
		t.Profit = t.Profit.Add(s.Profit)
	}
	return t
}
