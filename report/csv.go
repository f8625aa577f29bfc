package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/simulator"
)

var (
	resultsHeader     = []string{"period", "instrument", "raw_return", "clamped_return", "profit", "capital", "clamp", "hit"}
	curveHeader       = []string{"period", "capital", "reference"}
	instrumentsHeader = []string{"instrument", "trades", "shares", "cost", "proceeds", "profit", "average_cost", "return"}
)

// WriteResultsCSV exports period rows with full precision returns and
// money rounded to cents.
func WriteResultsCSV(w io.Writer, periods []simulator.PeriodResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, p := range periods {
		err := cw.Write([]string{
			p.Period,
			p.Instrument,
			f(p.RawReturn),
			f(p.ClampedReturn),
			Money(p.Profit),
			Money(p.CapitalAfter),
			p.Clamp.String(),
			strconv.FormatBool(p.Hit),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCurveCSV exports the capital curve for plotting elsewhere.
func WriteCurveCSV(w io.Writer, points []CurvePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(curveHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.Period, Money(p.Capital), Money(p.Reference)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteInstrumentsCSV(w io.Writer, rows []instruments.InstrumentSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(instrumentsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		err := cw.Write([]string{
			r.Instrument,
			strconv.Itoa(r.Trades),
			strconv.FormatInt(r.Shares, 10),
			r.Cost.String(),
			r.Proceeds.String(),
			r.Profit.String(),
			f(r.AverageCost),
			f(r.Return),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
