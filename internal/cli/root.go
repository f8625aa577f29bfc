package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/swingsim/config"
	"github.com/rustyeddy/swingsim/internal/logging"
	"github.com/rustyeddy/swingsim/ledger"
)

// RootConfig carries the global flags and what PersistentPreRunE builds
// from them.
type RootConfig struct {
	ConfigPath string
	LedgerType string
	LedgerPath string
	LogLevel   string
	LogFormat  string

	Config *config.Config
	Log    zerolog.Logger
}

// apply lays non-empty flag values over the loaded configuration.
func (rc *RootConfig) apply(cfg *config.Config) {
	if rc.LedgerType != "" {
		cfg.Ledger.Type = rc.LedgerType
	}
	if rc.LedgerPath != "" {
		cfg.Ledger.Path = rc.LedgerPath
	}
	if rc.LogLevel != "" {
		cfg.Log.Level = rc.LogLevel
	}
	if rc.LogFormat != "" {
		cfg.Log.Format = rc.LogFormat
	}
}

// openStore opens the configured ledger. Callers close it.
func (rc *RootConfig) openStore() (ledger.Store, error) {
	s, err := ledger.Open(rc.Config.Ledger.Type, rc.Config.Ledger.Path, rc.Log)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	rc.Log.Debug().
		Str("type", rc.Config.Ledger.Type).
		Str("path", rc.Config.Ledger.Path).
		Msg("ledger opened")
	return s, nil
}

func NewRootCmd() *cobra.Command {
	rc := &RootConfig{}

	cmd := &cobra.Command{
		Use:   "swingsim",
		Short: "swingsim - capped-risk monthly strategy simulator",
		Long: `swingsim replays a ledger of monthly stock trades through a fixed
stop-loss / take-profit envelope, compounds capital, and scores each
month against an absolute profit target.

It also keeps the ledger itself (CSV or SQLite) and summarizes realized
performance per instrument.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&rc.ConfigPath, "config", "", "Path to config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&rc.LedgerType, "ledger-type", "", "Ledger backend: csv|sqlite (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LedgerPath, "ledger", "", "Ledger file (overrides config)")
	cmd.PersistentFlags().StringVar(&rc.LogLevel, "log-level", "", "Log level: debug|info|warn|error")
	cmd.PersistentFlags().StringVar(&rc.LogFormat, "log-format", "", "Log format: console|json")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rc.ConfigPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		rc.apply(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err := logging.New(cfg.Log, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		log.Logger = logger

		rc.Config = cfg
		rc.Log = logger
		rc.Log.Debug().Str("config", rc.ConfigPath).Msg("configuration loaded")
		return nil
	}

	cmd.AddCommand(
		newConfigCmd(),
		newLedgerCmd(rc),
		newSimulateCmd(rc),
		newInstrumentsCmd(rc),
		newVersionCmd(),
	)

	return cmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
