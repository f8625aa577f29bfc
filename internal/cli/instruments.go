package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/report"
)

func newInstrumentsCmd(rc *RootConfig) *cobra.Command {
	var csvPath string

	cmd := &cobra.Command{
		Use:   "instruments",
		Short: "Summarize realized performance per instrument",
		Long: `Group the ledger by instrument and print trades, shares, cost,
proceeds, profit, average cost and return for each, using raw entry and
exit prices.`,
		Args: cobra.NoArgs,
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

			rows, err := instruments.Aggregate(recs)
			if err != nil {
				return fmt.Errorf("aggregate: %w", err)
			}

			if err := report.WriteInstruments(cmd.OutOrStdout(), rows); err != nil {
				return err
			}

			if csvPath != "" {
				err := writeFile(csvPath, func(w io.Writer) error {
					return report.WriteInstrumentsCSV(w, rows)
				})
				if err != nil {
					return err
				}
				rc.Log.Info().Str("path", csvPath).Msg("instrument summary written")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "also write the summary as CSV")
	return cmd
}
