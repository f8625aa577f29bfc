// Package simulator replays a trade ledger through a capped-risk capital
// model: every return is clamped into a risk envelope, capital compounds
// period over period, and each period is scored against a fixed monthly
// profit target.
//
// The package is pure. It performs no I/O and keeps no state between calls;
// the same ledger and Config always produce the same Result.
package simulator

import (
	"errors"
	"fmt"
	"math"

	"github.com/rustyeddy/swingsim/ledger"
	"github.com/rustyeddy/swingsim/risk"
)

var (
	// ErrInvalidRecord is wrapped by RecordError when a record has no
	// defined return (entry price not positive).
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidConfig is returned when a Config breaks its invariants.
	ErrInvalidConfig = errors.New("invalid simulation config")
)

// RecordError identifies the ledger row that aborted a run.
type RecordError struct {
	Index      int
	ID         string
	Period     string
	Instrument string
	Reason     string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: row %d (id=%s period=%s instrument=%s): %s",
		ErrInvalidRecord, e.Index, e.ID, e.Period, e.Instrument, e.Reason)
}

func (e *RecordError) Unwrap() error { return ErrInvalidRecord }

// Config is fixed for the duration of one run.
type Config struct {
	StartingCapital float64
	// MonthlyTarget is an absolute profit amount and may be zero or negative.
	MonthlyTarget float64
	Envelope      risk.Envelope
}

// DefaultConfig returns the strategy sheet defaults: 100,000 starting
// capital, 10,000 a month, -5% stop-loss, +10% take-profit.
func DefaultConfig() Config {
	return Config{
		StartingCapital: 100000,
		MonthlyTarget:   10000,
		Envelope:        risk.DefaultEnvelope(),
	}
}

func (c Config) Validate() error {
	if math.IsNaN(c.StartingCapital) || math.IsInf(c.StartingCapital, 0) || c.StartingCapital <= 0 {
		return fmt.Errorf("%w: starting capital %v must be positive", ErrInvalidConfig, c.StartingCapital)
	}
	if math.IsNaN(c.MonthlyTarget) || math.IsInf(c.MonthlyTarget, 0) {
		return fmt.Errorf("%w: monthly target must be a finite number", ErrInvalidConfig)
	}
	if err := c.Envelope.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// PeriodResult is the outcome of one ledger row.
type PeriodResult struct {
	Period        string
	Instrument    string
	RawReturn     float64
	ClampedReturn float64
	Profit        float64
	CapitalBefore float64
	CapitalAfter  float64
	Clamp         risk.Clamp
	Hit           bool
}

// RunSummary holds the scalar statistics of a run.
type RunSummary struct {
	Hits              int
	Total             int
	LongestMissStreak int
	StartingCapital   float64
	EndingCapital     float64
}

// AchievementRate returns Hits/Total. With no periods the rate is
// undefined: it returns NaN and false, which is not the same as a 0% rate.
func (s RunSummary) AchievementRate() (float64, bool) {
	if s.Total == 0 {
		return math.NaN(), false
	}
	return float64(s.Hits) / float64(s.Total), true
}

// Result is everything a run produces.
type Result struct {
	Periods []PeriodResult
	Summary RunSummary
}

// Run simulates records in the order given. The first invalid record aborts
// the run and no partial result is returned. An empty ledger is not an
// error.
func Run(records []ledger.TradeRecord, cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	acc := NewAccumulator(cfg)
	periods := make([]PeriodResult, 0, len(records))
	for _, rec := range records {
		pr, err := acc.Step(rec)
		if err != nil {
			return Result{}, err
		}
		periods = append(periods, pr)
	}

	return Result{Periods: periods, Summary: acc.Summary()}, nil
}
