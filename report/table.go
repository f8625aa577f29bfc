package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/simulator"
)

// WriteResults prints one row per period.
func WriteResults(w io.Writer, periods []simulator.PeriodResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "PERIOD\tINSTRUMENT\tRAW\tCLAMPED\tPROFIT\tCAPITAL\tNOTE\t")
	for _, p := range periods {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Period,
			p.Instrument,
			Pct(p.RawReturn),
			Pct(p.ClampedReturn),
			Money(p.Profit),
			Money(p.CapitalAfter),
			Note(p),
		)
	}
	return tw.Flush()
}

// WriteSummary prints the run statistics and the advisory.
func WriteSummary(w io.Writer, s simulator.RunSummary, adv simulator.Advisory) error {
	lines := []string{
		"==================================================",
		" Summary",
		"==================================================",
		fmt.Sprintf("Target hit:        %d / %d", s.Hits, s.Total),
		fmt.Sprintf("Achievement rate:  %s", Rate(s)),
		fmt.Sprintf("Longest miss run:  %d", s.LongestMissStreak),
		fmt.Sprintf("Start capital:     %s", Money(s.StartingCapital)),
		fmt.Sprintf("End capital:       %s", Money(s.EndingCapital)),
		fmt.Sprintf("Advisory:          %s", adv),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// WriteInstruments prints the per-instrument aggregate table with a total
// row.
func WriteInstruments(w io.Writer, rows []instruments.InstrumentSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "INSTRUMENT\tTRADES\tSHARES\tCOST\tPROCEEDS\tPROFIT\tAVG COST\tRETURN\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Instrument,
			r.Trades,
			r.Shares,
			r.Cost.StringFixed(2),
			r.Proceeds.StringFixed(2),
			r.Profit.StringFixed(2),
			Money(r.AverageCost),
			Pct(r.Return),
		)
	}
	if len(rows) > 0 {
		t := instruments.Sum(rows)
		fmt.Fprintf(tw, "TOTAL\t%d\t%d\t%s\t%s\t%s\t\t\t\n",
			t.Trades,
			t.Shares,
			t.Cost.StringFixed(2),
			t.Proceeds.StringFixed(2),
			t.Profit.StringFixed(2),
		)
	}
	return tw.Flush()
}
