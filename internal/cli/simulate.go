package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingsim/instruments"
	"github.com/rustyeddy/swingsim/pkg/id"
	"github.com/rustyeddy/swingsim/report"
	"github.com/rustyeddy/swingsim/simulator"
)

func newSimulateCmd(rc *RootConfig) *cobra.Command {
	var (
		csvPath   string
		curvePath string
		orgPath   string
		notes     []string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Replay the ledger through the risk envelope",
		Long: `Run the period simulation over every ledger record in order.

Each period's raw return is clamped to the stop-loss / take-profit
envelope, applied to current capital, and compared with the monthly
target. The table, summary and review advisory go to stdout.

Example:
  swingsim simulate --csv results.csv --curve curve.csv --org run.org`,
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

			engine := rc.Config.Simulation.Engine()
			res, err := simulator.Run(recs, engine)
			if err != nil {
				return fmt.Errorf("simulate: %w", err)
			}
			adv := simulator.Advise(res.Summary, rc.Config.Advisory.ReviewStreak)

			rc.Log.Info().
				Int("periods", res.Summary.Total).
				Int("hits", res.Summary.Hits).
				Float64("ending_capital", res.Summary.EndingCapital).
				Msg("simulation complete")

			out := cmd.OutOrStdout()
			if err := report.WriteResults(out, res.Periods); err != nil {
				return err
			}
			fmt.Fprintln(out)
			if err := report.WriteSummary(out, res.Summary, adv); err != nil {
				return err
			}

			if csvPath != "" {
				err := writeFile(csvPath, func(w io.Writer) error {
					return report.WriteResultsCSV(w, res.Periods)
				})
				if err != nil {
					return err
				}
				rc.Log.Info().Str("path", csvPath).Msg("results written")
			}

			if curvePath != "" {
				points := report.CapitalCurve(res.Periods, engine)
				err := writeFile(curvePath, func(w io.Writer) error {
					return report.WriteCurveCSV(w, points)
				})
				if err != nil {
					return err
				}
				rc.Log.Info().Str("path", curvePath).Msg("capital curve written")
			}

			if orgPath != "" {
				run := &report.Run{
					RunID:    id.New(),
					Created:  time.Now(),
					Ledger:   rc.Config.Ledger.Path,
					Config:   engine,
					Result:   res,
					Advisory: adv,
					Notes:    notes,
				}
				rows, err := instruments.Aggregate(recs)
				if err != nil {
					rc.Log.Warn().Err(err).Msg("instrument table omitted")
				} else {
					run.Instruments = rows
				}
				if err := run.WriteOrg(orgPath); err != nil {
					return fmt.Errorf("write org: %w", err)
				}
				rc.Log.Info().Str("path", orgPath).Str("run_id", run.RunID).Msg("org report written")
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "write period results as CSV")
	cmd.Flags().StringVar(&curvePath, "curve", "", "write the capital curve as CSV")
	cmd.Flags().StringVar(&orgPath, "org", "", "write an Org-mode report")
	cmd.Flags().StringArrayVar(&notes, "note", nil, "observation to include in the Org report (repeatable)")
	return cmd
}

func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
