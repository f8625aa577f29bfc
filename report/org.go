package report

import (
	"bytes"
	"os"
	"text/template"
	"time"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/simulator"
)

// Run bundles everything one simulation produced, for the Org report.
type Run struct {
	RunID   string
	Created time.Time
	Ledger  string

	Config      simulator.Config
	Result      simulator.Result
	Instruments []instruments.InstrumentSummary
	Advisory    simulator.Advisory

	Notes []string
}

var orgFuncs = template.FuncMap{
	"money": Money,
	"pct":   Pct,
	"note":  Note,
	"rate":  Rate,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("run").Funcs(orgFuncs).Parse(OrgTemplate))

// Org renders the run as an Org-mode entry.
func (r *Run) Org() (string, error) {
	buf := new(bytes.Buffer)
	if err := orgTemplate.Execute(buf, r); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteOrg writes the Org entry to path.
func (r *Run) WriteOrg(path string) error {
	s, err := r.Org()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0644)
}

const OrgTemplate = `* SIMULATION: {{if .Ledger}}{{.Ledger}}{{else}}(ledger?){{end}}
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:START_CAP:   {{money .Config.StartingCapital}}
:END_CAP:     {{money .Result.Summary.EndingCapital}}
:TARGET:      {{money .Config.MonthlyTarget}}
:STOP_LOSS:   {{pct .Config.Envelope.StopLoss}}
:TAKE_PROFIT: {{pct .Config.Envelope.TakeProfit}}
:PERIODS:     {{.Result.Summary.Total}}
:HITS:        {{.Result.Summary.Hits}}
:RATE:        {{rate .Result.Summary}}
:MISS_RUN:    {{.Result.Summary.LongestMissStreak}}
:ADVISORY:    {{.Advisory}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Periods
| Period | Instrument | Raw | Clamped | Profit | Capital | Note |
|--------+------------+-----+---------+--------+---------+------|
{{- range .Result.Periods }}
| {{.Period}} | {{.Instrument}} | {{pct .RawReturn}} | {{pct .ClampedReturn}} | {{money .Profit}} | {{money .CapitalAfter}} | {{note .}} |
{{- end }}

** Summary
- Target hit:       *{{.Result.Summary.Hits}} / {{.Result.Summary.Total}}*
- Achievement rate: *{{rate .Result.Summary}}*
- Longest miss run: *{{.Result.Summary.LongestMissStreak}}*
- Advisory:         *{{.Advisory}}*

{{- if .Instruments }}

** Instruments
| Instrument | Trades | Shares | Cost | Proceeds | Profit | Avg Cost | Return |
|------------+--------+--------+------+----------+--------+----------+--------|
{{- range .Instruments }}
| {{.Instrument}} | {{.Trades}} | {{.Shares}} | {{.Cost.StringFixed 2}} | {{.Proceeds.StringFixed 2}} | {{.Profit.StringFixed 2}} | {{money .AverageCost}} | {{pct .Return}} |
{{- end }}
{{- end }}

{{- if .Notes }}

** Observations
{{- range .Notes }}
- {{.}}
{{- end }}
{{- end }}
`
