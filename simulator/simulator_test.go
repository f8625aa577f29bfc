package simulator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swingsim/ledger"
	"github.com/rustyeddy/swingsim/risk"
)

// withReturn builds a record whose raw return is r on a 100.00 entry.
func withReturn(period string, r float64) ledger.TradeRecord {
	return ledger.TradeRecord{
		ID:         "id-" + period,
		Period:     period,
		Instrument: "2603",
		EntryPrice: 100,
		ExitPrice:  100 * (1 + r),
		Shares:     1000,
	}
}

func TestRunScenarioTakeProfit(t *testing.T) {
	t.Parallel()

	res, err := Run([]ledger.TradeRecord{withReturn("2024-01", 0.20)}, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Periods, 1)

	p := res.Periods[0]
	assert.InDelta(t, 0.20, p.RawReturn, 1e-9)
	assert.InDelta(t, 0.10, p.ClampedReturn, 1e-12)
	assert.InDelta(t, 10000.0, p.Profit, 1e-6)
	assert.InDelta(t, 110000.0, p.CapitalAfter, 1e-6)
	assert.Equal(t, 100000.0, p.CapitalBefore)
	assert.Equal(t, risk.ClampTakeProfit, p.Clamp)
	assert.True(t, p.Hit)

	assert.Equal(t, 1, res.Summary.Hits)
	assert.Equal(t, 0, res.Summary.LongestMissStreak)
}

func TestRunScenarioStopLoss(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	acc := NewAccumulator(cfg)
	p, err := acc.Step(withReturn("2024-01", -0.20))
	require.NoError(t, err)

	assert.InDelta(t, -0.05, p.ClampedReturn, 1e-12)
	assert.InDelta(t, -5000.0, p.Profit, 1e-6)
	assert.InDelta(t, 95000.0, p.CapitalAfter, 1e-6)
	assert.Equal(t, risk.ClampStopLoss, p.Clamp)
	assert.False(t, p.Hit)
	assert.Equal(t, 1, acc.MissStreak)
	assert.Equal(t, 1, acc.LongestMissStreak)
}

func TestRunScenarioThreeMisses(t *testing.T) {
	t.Parallel()

	recs := []ledger.TradeRecord{
		withReturn("2024-01", 0.01),
		withReturn("2024-02", -0.02),
		withReturn("2024-03", 0.03),
	}
	res, err := Run(recs, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Summary.Hits)
	assert.Equal(t, 3, res.Summary.LongestMissStreak)
	assert.Equal(t, AdvisoryReview, Advise(res.Summary, DefaultReviewStreak))
	assert.Equal(t, "review recommended", Advise(res.Summary, DefaultReviewStreak).String())
}

func TestRunScenarioEmptyLedger(t *testing.T) {
	t.Parallel()

	res, err := Run(nil, DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, res.Periods)
	assert.Equal(t, 0, res.Summary.Total)
	assert.Equal(t, 0, res.Summary.LongestMissStreak)
	assert.Equal(t, 100000.0, res.Summary.EndingCapital)

	rate, ok := res.Summary.AchievementRate()
	assert.False(t, ok)
	assert.True(t, math.IsNaN(rate))

	assert.Equal(t, AdvisoryStable, Advise(res.Summary, DefaultReviewStreak))
	assert.Equal(t, "stable", AdvisoryStable.String())
}

func TestRunPreservesOrderAndLength(t *testing.T) {
	t.Parallel()

	returns := []float64{0.05, -0.30, 0.12, 0.0, -0.01, 0.099, 0.5, -0.049}
	recs := make([]ledger.TradeRecord, len(returns))
	for i, r := range returns {
		recs[i] = withReturn(string(rune('a'+i)), r)
	}

	res, err := Run(recs, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, res.Periods, len(recs))

	env := DefaultConfig().Envelope
	prevCapital := DefaultConfig().StartingCapital
	prevLongest := 0
	acc := NewAccumulator(DefaultConfig())

	for i, p := range res.Periods {
		assert.Equal(t, recs[i].Period, p.Period)

		assert.GreaterOrEqual(t, p.ClampedReturn, env.StopLoss)
		assert.LessOrEqual(t, p.ClampedReturn, env.TakeProfit)
		if p.RawReturn > env.StopLoss && p.RawReturn < env.TakeProfit {
			assert.Equal(t, p.RawReturn, p.ClampedReturn)
			assert.Equal(t, risk.ClampNone, p.Clamp)
		}

		assert.Equal(t, prevCapital, p.CapitalBefore)
		assert.InDelta(t, prevCapital+prevCapital*p.ClampedReturn, p.CapitalAfter, 1e-6)
		prevCapital = p.CapitalAfter

		_, err := acc.Step(recs[i])
		require.NoError(t, err)
		assert.GreaterOrEqual(t, acc.LongestMissStreak, prevLongest)
		prevLongest = acc.LongestMissStreak
		if p.Hit {
			assert.Equal(t, 0, acc.MissStreak)
		}
	}

	assert.Equal(t, prevCapital, res.Summary.EndingCapital)
	assert.Equal(t, acc.Summary(), res.Summary)
}

func TestRunStreakResetsOnHit(t *testing.T) {
	t.Parallel()

	// miss, miss, hit, miss, miss, miss, miss, hit
	returns := []float64{-0.1, 0.01, 0.2, 0.0, -0.5, 0.02, 0.03, 0.2}
	recs := make([]ledger.TradeRecord, len(returns))
	for i, r := range returns {
		recs[i] = withReturn(string(rune('a'+i)), r)
	}

	cfg := DefaultConfig()
	cfg.MonthlyTarget = 5000
	res, err := Run(recs, cfg)
	require.NoError(t, err)

	hits := 0
	for _, p := range res.Periods {
		if p.Hit {
			hits++
		}
	}
	assert.Equal(t, 2, hits)
	assert.Equal(t, hits, res.Summary.Hits)
	assert.Equal(t, 8, res.Summary.Total)
	assert.Equal(t, 4, res.Summary.LongestMissStreak)

	rate, ok := res.Summary.AchievementRate()
	assert.True(t, ok)
	assert.InDelta(t, 0.25, rate, 1e-12)
}

func TestRunCompoundsOnCurrentCapital(t *testing.T) {
	t.Parallel()

	recs := []ledger.TradeRecord{withReturn("2024-01", 0.10), withReturn("2024-02", 0.10)}
	res, err := Run(recs, DefaultConfig())
	require.NoError(t, err)

	assert.InDelta(t, 11000.0, res.Periods[1].Profit, 1e-6)
	assert.InDelta(t, 121000.0, res.Summary.EndingCapital, 1e-6)
}

func TestRunScoresClampedProfit(t *testing.T) {
	t.Parallel()

	// Raw +50% would clear the target on the raw figure; the clamp limits it
	// to 10% of 50,000 which falls short.
	cfg := DefaultConfig()
	cfg.StartingCapital = 50000
	res, err := Run([]ledger.TradeRecord{withReturn("2024-01", 0.50)}, cfg)
	require.NoError(t, err)

	p := res.Periods[0]
	assert.InDelta(t, 5000.0, p.Profit, 1e-6)
	assert.False(t, p.Hit)
}

func TestRunTargetIsAbsolute(t *testing.T) {
	t.Parallel()

	// Same 6% return misses on 100,000 but hits on 200,000.
	small := DefaultConfig()
	big := DefaultConfig()
	big.StartingCapital = 200000

	recs := []ledger.TradeRecord{withReturn("2024-01", 0.06)}
	r1, err := Run(recs, small)
	require.NoError(t, err)
	r2, err := Run(recs, big)
	require.NoError(t, err)

	assert.False(t, r1.Periods[0].Hit)
	assert.True(t, r2.Periods[0].Hit)
}

func TestRunNonPositiveTarget(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.MonthlyTarget = 0
	res, err := Run([]ledger.TradeRecord{withReturn("2024-01", 0)}, cfg)
	require.NoError(t, err)
	assert.True(t, res.Periods[0].Hit)

	cfg.MonthlyTarget = -6000
	res, err = Run([]ledger.TradeRecord{withReturn("2024-01", -0.5)}, cfg)
	require.NoError(t, err)
	assert.True(t, res.Periods[0].Hit)
}

func TestRunInvalidRecordAborts(t *testing.T) {
	t.Parallel()

	bad := ledger.TradeRecord{ID: "bad", Period: "2024-02", Instrument: "2609", EntryPrice: 0, ExitPrice: 10, Shares: 1}
	recs := []ledger.TradeRecord{withReturn("2024-01", 0.2), bad, withReturn("2024-03", 0.2)}

	res, err := Run(recs, DefaultConfig())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRecord))
	assert.Empty(t, res.Periods)

	var re *RecordError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, "bad", re.ID)
	assert.Equal(t, "2024-02", re.Period)
	assert.Contains(t, err.Error(), "period=2024-02")
}

func TestStepErrorLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	acc := NewAccumulator(DefaultConfig())
	_, err := acc.Step(withReturn("a", -0.2))
	require.NoError(t, err)
	before := *acc

	_, err = acc.Step(ledger.TradeRecord{Period: "b", EntryPrice: -1, ExitPrice: 1, Shares: 1})
	require.Error(t, err)
	assert.Equal(t, before, *acc)
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"zero capital", func(c *Config) { c.StartingCapital = 0 }, true},
		{"inf capital", func(c *Config) { c.StartingCapital = math.Inf(1) }, true},
		{"nan target", func(c *Config) { c.MonthlyTarget = math.NaN() }, true},
		{"inf target", func(c *Config) { c.MonthlyTarget = math.Inf(-1) }, true},
		{"negative target ok", func(c *Config) { c.MonthlyTarget = -1 }, false},
		{"inverted envelope", func(c *Config) { c.Envelope = risk.Envelope{StopLoss: 0.1, TakeProfit: -0.05} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				_, runErr := Run(nil, cfg)
				assert.ErrorIs(t, runErr, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAdvise(t *testing.T) {
	t.Parallel()

	assert.Equal(t, AdvisoryStable, Advise(RunSummary{LongestMissStreak: 2}, 3))
	assert.Equal(t, AdvisoryReview, Advise(RunSummary{LongestMissStreak: 3}, 3))
	assert.Equal(t, AdvisoryReview, Advise(RunSummary{LongestMissStreak: 2}, 2))
	assert.Equal(t, AdvisoryReview, Advise(RunSummary{LongestMissStreak: 3}, 0))
}
