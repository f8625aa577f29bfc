package simulator

import (
	"math"

	"github.com/rustyeddy/swingsim/ledger"
)

// Accumulator carries the running state of a simulation between records.
// Run is a left fold of Step over the ledger.
type Accumulator struct {
	cfg Config

	Capital           float64
	MissStreak        int
	LongestMissStreak int
	Hits              int
	Periods           int
}

func NewAccumulator(cfg Config) *Accumulator {
	return &Accumulator{cfg: cfg, Capital: cfg.StartingCapital}
}

// Step applies one record. On error the accumulator is left unchanged.
func (a *Accumulator) Step(rec ledger.TradeRecord) (PeriodResult, error) {
	if math.IsNaN(rec.EntryPrice) || math.IsInf(rec.EntryPrice, 0) || rec.EntryPrice <= 0 {
		return PeriodResult{}, a.recordError(rec, "entry price must be positive")
	}
	raw := rec.RawReturn()
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return PeriodResult{}, a.recordError(rec, "return is undefined")
	}

	clamped, clamp := a.cfg.Envelope.Clamp(raw)

	before := a.Capital
	profit := before * clamped
	a.Capital = before + profit

	hit := profit >= a.cfg.MonthlyTarget
	if hit {
		a.Hits++
		a.MissStreak = 0
	} else {
		a.MissStreak++
		if a.MissStreak > a.LongestMissStreak {
			a.LongestMissStreak = a.MissStreak
		}
	}
	a.Periods++

	return PeriodResult{
		Period:        rec.Period,
		Instrument:    rec.Instrument,
		RawReturn:     raw,
		ClampedReturn: clamped,
		Profit:        profit,
		CapitalBefore: before,
		CapitalAfter:  a.Capital,
		Clamp:         clamp,
		Hit:           hit,
	}, nil
}

func (a *Accumulator) Summary() RunSummary {
	return RunSummary{
		Hits:              a.Hits,
		Total:             a.Periods,
		LongestMissStreak: a.LongestMissStreak,
		StartingCapital:   a.cfg.StartingCapital,
		EndingCapital:     a.Capital,
	}
}

func (a *Accumulator) recordError(rec ledger.TradeRecord, reason string) error {
	return &RecordError{
		Index:      a.Periods,
		ID:         rec.ID,
		Period:     rec.Period,
		Instrument: rec.Instrument,
		Reason:     reason,
	}
}
