package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingsim/ledger"
	"github.com/rustyeddy/swingsim/report"
)

func newLedgerCmd(rc *RootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Maintain the trade ledger",
		Long: `Add, remove and inspect trade records.

Subcommands:
  add     - Append one record
  rm      - Remove a record by id
  list    - Print every record in ledger order
  show    - Print one record as an Org entry
  import  - Append records from a CSV file
  export  - Write the ledger as CSV

Examples:
  swingsim ledger add --period 2024-01 --instrument 2603 --entry 100 --exit 112 --shares 1000
  swingsim ledger rm 01HQZX3V4J6R8Y0ABCDEFGHJKM
  swingsim ledger import old-trades.csv`,
	}

	cmd.AddCommand(
		newLedgerAddCmd(rc),
		newLedgerRmCmd(rc),
		newLedgerListCmd(rc),
		newLedgerShowCmd(rc),
		newLedgerImportCmd(rc),
		newLedgerExportCmd(rc),
	)
	return cmd
}

func newLedgerAddCmd(rc *RootConfig) *cobra.Command {
	var rec ledger.TradeRecord

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a trade record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			added, err := s.Append(cmd.Context(), rec)
			if err != nil {
				return fmt.Errorf("add record: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s: %s %s (%s)\n",
				added.ID, added.Period, added.Instrument, report.Pct(added.RawReturn()))
			return nil
		},
	}

	cmd.Flags().StringVar(&rec.Period, "period", "", "trading period label, e.g. 2024-01 (required)")
	cmd.Flags().StringVar(&rec.Instrument, "instrument", "", "instrument code (required)")
	cmd.Flags().Float64Var(&rec.EntryPrice, "entry", 0, "entry price per share (required)")
	cmd.Flags().Float64Var(&rec.ExitPrice, "exit", 0, "exit price per share (required)")
	cmd.Flags().Int64Var(&rec.Shares, "shares", 0, "number of shares (required)")
	for _, name := range []string{"period", "instrument", "entry", "exit", "shares"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newLedgerRmCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Remove(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %s\n", args[0])
			return nil
		},
	}
}

func newLedgerListCmd(rc *RootConfig) *cobra.Command {
	var org bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List trade records in ledger order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}
			if org {
				fmt.Fprintln(cmd.OutOrStdout(), ledger.FormatRecordsOrg(recs))
				return nil
			}
			return writeRecords(cmd.OutOrStdout(), recs)
		},
	}

	cmd.Flags().BoolVar(&org, "org", false, "print records as Org entries")
	return cmd
}

func newLedgerShowCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one trade record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			rec, err := s.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("get %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), ledger.FormatRecordOrg(rec))
			return nil
		},
	}
}

func newLedgerImportCmd(rc *RootConfig) *cobra.Command {
	var instrument string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Append records from a CSV file",
		Long: `Append every row of a CSV file to the ledger.

The header may use the ledger's own column names, common English aliases,
or the legacy spreadsheet columns (交易月份, 買進價格, 賣出價格, 股數).
A file without an instrument column is imported under --instrument, or
under the file's base name when the flag is not set.
Rows whose id is already in the ledger are skipped.

Examples:
  swingsim ledger import --instrument 2603 trades.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			if instrument == "" {
				instrument = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			recs, err := ledger.ImportCSV(f, instrument)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var added, skipped int
			for _, r := range recs {
				if _, err := s.Append(cmd.Context(), r); err != nil {
					if errors.Is(err, ledger.ErrDuplicateID) {
						rc.Log.Warn().Str("id", r.ID).Msg("already in ledger, skipped")
						skipped++
						continue
					}
					return fmt.Errorf("import %s %s: %w", r.Period, r.Instrument, err)
				}
				added++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d records from %s (%d skipped)\n", added, args[0], skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&instrument, "instrument", "", "instrument for files without an instrument column (default: file base name)")
	return cmd
}

func newLedgerExportCmd(rc *RootConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the ledger as CSV to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rc.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			recs, err := s.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list records: %w", err)
			}
			return ledger.WriteCSV(cmd.OutOrStdout(), recs)
		},
	}
}

func writeRecords(w io.Writer, recs []ledger.TradeRecord) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPERIOD\tINSTRUMENT\tENTRY\tEXIT\tSHARES\tRETURN")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID,
			r.Period,
			r.Instrument,
			report.Money(r.EntryPrice),
			report.Money(r.ExitPrice),
			r.Shares,
			report.Pct(r.RawReturn()),
		)
	}
	return tw.Flush()
}
