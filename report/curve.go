package report

import (
	"github.com/rustyeddy/swingsim/simulator"
)

// CurvePoint is one sample of the capital-over-time chart. Reference is the
// flat goal line at starting capital plus one monthly target.
type CurvePoint struct {
	Period    string
	Capital   float64
	Reference float64
}

// CapitalCurve returns the capital at the end of each period.
func CapitalCurve(periods []simulator.PeriodResult, cfg simulator.Config) []CurvePoint {
	ref := cfg.StartingCapital + cfg.MonthlyTarget
	out := make([]CurvePoint, len(periods))
	for i, p := range periods {
		out[i] = CurvePoint{Period: p.Period, Capital: p.CapitalAfter, Reference: ref}
	}
	return out
}
