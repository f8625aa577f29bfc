package ledger

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/swingsim/pkg/id"
)

// FormatRecordOrg renders a TradeRecord as an Org-mode block suitable for
// pasting into a trading journal. Facts live in the PROPERTIES drawer; the
// Thesis/Review headings are left for notes. Records with a ULID id also get
// a CREATED timestamp.
func FormatRecordOrg(t TradeRecord) string {
	heading := fmt.Sprintf("** Trade: %s %s (%s)", t.Period, t.Instrument, shortID(t.ID))

	var b strings.Builder
	b.WriteString(heading)
	b.WriteString("\n")
	b.WriteString(":PROPERTIES:\n")
	b.WriteString(fmt.Sprintf(":ID: %s\n", t.ID))
	if ts, err := id.Time(t.ID); err == nil {
		b.WriteString(fmt.Sprintf(":CREATED: [%s]\n", ts.UTC().Format("2006-01-02 Mon 15:04")))
	}
	b.WriteString(fmt.Sprintf(":PERIOD: %s\n", t.Period))
	b.WriteString(fmt.Sprintf(":INSTRUMENT: %s\n", t.Instrument))
	b.WriteString(fmt.Sprintf(":SHARES: %d\n", t.Shares))
	b.WriteString(fmt.Sprintf(":ENTRY_PRICE: %.2f\n", t.EntryPrice))
	b.WriteString(fmt.Sprintf(":EXIT_PRICE: %.2f\n", t.ExitPrice))
	if t.EntryPrice > 0 {
		b.WriteString(fmt.Sprintf(":RETURN: %.2f%%\n", t.RawReturn()*100))
	}
	b.WriteString(fmt.Sprintf(":PROFIT: %.2f\n", t.RawProfit()))
	b.WriteString(":END:\n")
	b.WriteString("\n")
	b.WriteString("*** Thesis\n- \n\n")
	b.WriteString("*** Review\n- \n")

	return b.String()
}

// FormatRecordsOrg renders multiple records separated by blank lines.
func FormatRecordsOrg(recs []TradeRecord) string {
	var b strings.Builder
	for i, t := range recs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(FormatRecordOrg(t))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
