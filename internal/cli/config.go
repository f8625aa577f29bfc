package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingsim/config"
	"github.com/rustyeddy/swingsim/report"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Generate or validate configuration files",
		Long: `Manage configuration files.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  swingsim config init -o swingsim.yaml
  swingsim config validate -f swingsim.yaml`,
		// The file being generated or checked may not load yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	}

	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if err := cfg.SaveToFile(output); err != nil {
				return fmt.Errorf("save config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Created default configuration: %s\n", output)
			fmt.Fprintln(out, "\nEdit the file and run with:")
			fmt.Fprintf(out, "  swingsim --config %s simulate\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "swingsim.yaml", "output config file path")
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(path)
			if err != nil {
				return fmt.Errorf("validation failed: %w", err)
			}

			s := cfg.Simulation
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration valid: %s\n", path)
			fmt.Fprintf(out, "  Capital: %s (target %s per month)\n", report.Money(s.StartingCapital), report.Money(s.MonthlyTarget))
			fmt.Fprintf(out, "  Envelope: %s / %s\n", report.Pct(s.StopLoss), report.Pct(s.TakeProfit))
			fmt.Fprintf(out, "  Ledger: %s (%s)\n", cfg.Ledger.Path, cfg.Ledger.Type)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "path to config file (required)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
