package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		// Version needs neither config nor ledger.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "swingsim version %s\n", version)
			fmt.Fprintln(out, "Capped-risk monthly strategy simulator")
			fmt.Fprintln(out, "https://github.com/rustyeddy/swingsim")
		},
	}
}
