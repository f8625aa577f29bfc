// Package report renders simulation results for people and spreadsheets.
package report

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/swingsim/simulator"
)

// Money rounds half away from zero to cents. Non-finite values print as
// "+Inf", "-Inf" or "NaN".
func Money(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return strconv.FormatFloat(x, 'f', 2, 64)
	}
	return decimal.NewFromFloat(x).StringFixed(2)
}

// Pct formats a fraction as a percentage with two decimals.
func Pct(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

// Rate formats an achievement rate, printing "n/a" when it is undefined.
func Rate(s simulator.RunSummary) string {
	r, ok := s.AchievementRate()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.0f%%", r*100)
}

// Note combines the clamp annotation with the hit flag, e.g.
// "stop-loss | miss" or "hit".
func Note(p simulator.PeriodResult) string {
	outcome := "miss"
	if p.Hit {
		outcome = "hit"
	}
	if c := p.Clamp.String(); c != "" {
		return c + " | " + outcome
	}
	return outcome
}
