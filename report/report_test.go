package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/ledger"
	"github.com/rustyeddy/swingsim/risk"
	"github.com/rustyeddy/swingsim/simulator"
)

func sampleLedger() []ledger.TradeRecord {
	return []ledger.TradeRecord{
		{ID: "a", Period: "2024-01", Instrument: "2603", EntryPrice: 100, ExitPrice: 120, Shares: 1000},
		{ID: "b", Period: "2024-02", Instrument: "2603", EntryPrice: 120, ExitPrice: 96, Shares: 1000},
		{ID: "c", Period: "2024-03", Instrument: "2609", EntryPrice: 50, ExitPrice: 51, Shares: 2000},
	}
}

func sampleRun(t *testing.T) simulator.Result {
	t.Helper()
	res, err := simulator.Run(sampleLedger(), simulator.DefaultConfig())
	require.NoError(t, err)
	return res
}

func TestMoney(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "10000.00", Money(10000))
	assert.Equal(t, "-5000.00", Money(-5000))
	assert.Equal(t, "1.24", Money(1.235))
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "+Inf", Money(math.Inf(1)))
	assert.Equal(t, "-Inf", Money(math.Inf(-1)))
	assert.Equal(t, "NaN", Money(math.NaN()))
}

func TestWritersSurviveOverflowedCapital(t *testing.T) {
	t.Parallel()

	cfg := simulator.DefaultConfig()
	cfg.StartingCapital = math.MaxFloat64
	res, err := simulator.Run([]ledger.TradeRecord{
		{Period: "2024-01", Instrument: "2603", EntryPrice: 100, ExitPrice: 200, Shares: 1},
	}, cfg)
	require.NoError(t, err)
	require.True(t, math.IsInf(res.Summary.EndingCapital, 1))

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, res.Periods))
	assert.Contains(t, buf.String(), "+Inf")

	buf.Reset()
	require.NoError(t, WriteCurveCSV(&buf, CapitalCurve(res.Periods, cfg)))
	assert.Contains(t, buf.String(), "2024-01,+Inf,")
}

func TestRate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "n/a", Rate(simulator.RunSummary{}))
	assert.Equal(t, "0%", Rate(simulator.RunSummary{Total: 4}))
	assert.Equal(t, "25%", Rate(simulator.RunSummary{Hits: 1, Total: 4}))
}

func TestNote(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "take-profit | hit", Note(simulator.PeriodResult{Clamp: risk.ClampTakeProfit, Hit: true}))
	assert.Equal(t, "stop-loss | miss", Note(simulator.PeriodResult{Clamp: risk.ClampStopLoss}))
	assert.Equal(t, "miss", Note(simulator.PeriodResult{}))
}

func TestWriteResults(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, sampleRun(t).Periods))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "PERIOD")
	assert.Contains(t, lines[1], "2024-01")
	assert.Contains(t, lines[1], "20.00%")
	assert.Contains(t, lines[1], "10.00%")
	assert.Contains(t, lines[1], "110000.00")
	assert.Contains(t, lines[1], "take-profit | hit")
	assert.Contains(t, lines[2], "-5500.00")
	assert.Contains(t, lines[2], "104500.00")
	assert.Contains(t, lines[2], "stop-loss | miss")
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	res := sampleRun(t)
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, res.Summary, simulator.Advise(res.Summary, 3)))

	out := buf.String()
	assert.Contains(t, out, "Target hit:        1 / 3")
	assert.Contains(t, out, "Achievement rate:  33%")
	assert.Contains(t, out, "Longest miss run:  2")
	assert.Contains(t, out, "Advisory:          stable")

	buf.Reset()
	require.NoError(t, WriteSummary(&buf, simulator.RunSummary{StartingCapital: 100000, EndingCapital: 100000}, simulator.AdvisoryStable))
	assert.Contains(t, buf.String(), "Achievement rate:  n/a")
}

func TestWriteInstruments(t *testing.T) {
	t.Parallel()

	rows, err := instruments.Aggregate(sampleLedger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInstruments(&buf, rows))
	out := buf.String()

	assert.Contains(t, out, "INSTRUMENT")
	assert.Contains(t, out, "220000.00")
	assert.Contains(t, out, "216000.00")
	assert.Contains(t, out, "-4000.00")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "-1.82%")

	buf.Reset()
	require.NoError(t, WriteInstruments(&buf, nil))
	assert.NotContains(t, buf.String(), "TOTAL")
}

func TestCapitalCurve(t *testing.T) {
	t.Parallel()

	res := sampleRun(t)
	pts := CapitalCurve(res.Periods, simulator.DefaultConfig())
	require.Len(t, pts, 3)
	for i, p := range pts {
		assert.Equal(t, res.Periods[i].Period, p.Period)
		assert.Equal(t, res.Periods[i].CapitalAfter, p.Capital)
		assert.Equal(t, 110000.0, p.Reference)
	}
	assert.Empty(t, CapitalCurve(nil, simulator.DefaultConfig()))
}

func TestWriteResultsCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteResultsCSV(&buf, sampleRun(t).Periods))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, resultsHeader, rows[0])
	assert.Equal(t, []string{"2024-01", "2603", "0.200000", "0.100000", "10000.00", "110000.00", "take-profit", "true"}, rows[1])
	assert.Equal(t, "stop-loss", rows[2][6])
	assert.Equal(t, "", rows[3][6])
}

func TestWriteCurveCSV(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	pts := []CurvePoint{{Period: "2024-01", Capital: 110000, Reference: 110000}}
	require.NoError(t, WriteCurveCSV(&buf, pts))
	assert.Equal(t, "period,capital,reference\n2024-01,110000.00,110000.00\n", buf.String())
}

func TestWriteInstrumentsCSV(t *testing.T) {
	t.Parallel()

	rows, err := instruments.Aggregate([]ledger.TradeRecord{
		{Period: "p", Instrument: "X", EntryPrice: 100, ExitPrice: 110, Shares: 10},
		{Period: "p", Instrument: "X", EntryPrice: 200, ExitPrice: 190, Shares: 5},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteInstrumentsCSV(&buf, rows))
	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, []string{"X", "2", "15", "2000", "2050", "50", "133.333333", "0.025000"}, recs[1])
}

func TestRunOrg(t *testing.T) {
	t.Parallel()

	rows, err := instruments.Aggregate(sampleLedger())
	require.NoError(t, err)
	res := sampleRun(t)

	run := &Run{
		RunID:       "01HQZX3V4J6R8Y0ABCDEFGHJKM",
		Created:     time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC),
		Ledger:      "trades.csv",
		Config:      simulator.DefaultConfig(),
		Result:      res,
		Instruments: rows,
		Advisory:    simulator.Advise(res.Summary, 3),
		Notes:       []string{"target drifts as capital compounds"},
	}

	out, err := run.Org()
	require.NoError(t, err)

	assert.Contains(t, out, "* SIMULATION: trades.csv")
	assert.Contains(t, out, ":RUN_ID:      01HQZX3V4J6R8Y0ABCDEFGHJKM")
	assert.Contains(t, out, ":START_CAP:   100000.00")
	assert.Contains(t, out, ":STOP_LOSS:   -5.00%")
	assert.Contains(t, out, ":RATE:        33%")
	assert.Contains(t, out, ":ADVISORY:    stable")
	assert.Contains(t, out, ":CREATED:     [2024-04-01 Mon 09:30]")
	assert.Contains(t, out, "| 2024-01 | 2603 | 20.00% | 10.00% | 10000.00 | 110000.00 | take-profit | hit |")
	assert.Contains(t, out, "** Instruments")
	assert.Contains(t, out, "| 2609 | 1 | 2000 | 100000.00 | 102000.00 | 2000.00 | 50.00 | 2.00% |")
	assert.Contains(t, out, "- target drifts as capital compounds")

	path := filepath.Join(t.TempDir(), "run.org")
	require.NoError(t, run.WriteOrg(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out, string(data))
}

func TestRunOrgEmpty(t *testing.T) {
	t.Parallel()

	res, err := simulator.Run(nil, simulator.DefaultConfig())
	require.NoError(t, err)

	run := &Run{Config: simulator.DefaultConfig(), Result: res}
	out, err := run.Org()
	require.NoError(t, err)
	assert.Contains(t, out, "(ledger?)")
	assert.Contains(t, out, ":RATE:        n/a")
	assert.NotContains(t, out, "** Instruments")
	assert.NotContains(t, out, "** Observations")
}
