package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/swingsim/internal/logging"
	"github.com/rustyeddy/swingsim/risk"
	"github.com/rustyeddy/swingsim/simulator"
)

// Config represents the complete swingsim configuration
type Config struct {
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Advisory   AdvisoryConfig   `json:"advisory" yaml:"advisory"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
	Log        logging.Config   `json:"log" yaml:"log"`
}

// SimulationConfig holds the capital model
type SimulationConfig struct {
	StartingCapital float64 `json:"starting_capital" yaml:"starting_capital"`
	MonthlyTarget   float64 `json:"monthly_target" yaml:"monthly_target"`
	StopLoss        float64 `json:"stop_loss" yaml:"stop_loss"`     // e.g. -0.05
	TakeProfit      float64 `json:"take_profit" yaml:"take_profit"` // e.g. 0.10
}

// Engine converts to the simulator's own config.
func (s SimulationConfig) Engine() simulator.Config {
	return simulator.Config{
		StartingCapital: s.StartingCapital,
		MonthlyTarget:   s.MonthlyTarget,
		Envelope:        risk.Envelope{StopLoss: s.StopLoss, TakeProfit: s.TakeProfit},
	}
}

// AdvisoryConfig controls the review flag
type AdvisoryConfig struct {
	ReviewStreak int `json:"review_streak" yaml:"review_streak"`
}

// LedgerConfig selects where trades are stored
type LedgerConfig struct {
	Type string `json:"type" yaml:"type"` // "csv" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load returns the file at path (or Default when path is empty) with
// environment overrides applied. A .env file in the working directory is
// read first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadFromFile(path)
		if err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvStartingCapital = "SWINGSIM_STARTING_CAPITAL"
	EnvMonthlyTarget   = "SWINGSIM_MONTHLY_TARGET"
	EnvStopLoss        = "SWINGSIM_STOP_LOSS"
	EnvTakeProfit      = "SWINGSIM_TAKE_PROFIT"
	EnvReviewStreak    = "SWINGSIM_REVIEW_STREAK"
	EnvLedgerType      = "SWINGSIM_LEDGER_TYPE"
	EnvLedgerPath      = "SWINGSIM_LEDGER_PATH"
	EnvLogLevel        = "SWINGSIM_LOG_LEVEL"
	EnvLogFormat       = "SWINGSIM_LOG_FORMAT"
)

// ApplyEnv overrides fields from SWINGSIM_* environment variables. Unset
// variables leave the field alone; unparsable numbers are an error.
func (c *Config) ApplyEnv() error {
	floats := []struct {
		key string
		dst *float64
	}{
		{EnvStartingCapital, &c.Simulation.StartingCapital},
		{EnvMonthlyTarget, &c.Simulation.MonthlyTarget},
		{EnvStopLoss, &c.Simulation.StopLoss},
		{EnvTakeProfit, &c.Simulation.TakeProfit},
	}
	for _, f := range floats {
		if v, ok := os.LookupEnv(f.key); ok && v != "" {
			x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = x
		}
	}

	if v, ok := os.LookupEnv(EnvReviewStreak); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvReviewStreak, err)
		}
		c.Advisory.ReviewStreak = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvLedgerType, &c.Ledger.Type},
		{EnvLedgerPath, &c.Ledger.Path},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFormat, &c.Log.Format},
	}
	for _, s := range strs {
		if v, ok := os.LookupEnv(s.key); ok && v != "" {
			*s.dst = v
		}
	}
	return nil
}

// SaveToFile saves configuration to a file (YAML for .yaml/.yml, JSON otherwise)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Simulation.StartingCapital <= 0 {
		return fmt.Errorf("simulation.starting_capital must be positive")
	}
	if c.Simulation.StopLoss >= 0 {
		return fmt.Errorf("simulation.stop_loss must be negative")
	}
	if c.Simulation.TakeProfit <= 0 {
		return fmt.Errorf("simulation.take_profit must be positive")
	}
	if err := c.Simulation.Engine().Validate(); err != nil {
		return err
	}
	if c.Advisory.ReviewStreak < 1 {
		return fmt.Errorf("advisory.review_streak must be at least 1")
	}
	if c.Ledger.Type != "csv" && c.Ledger.Type != "sqlite" {
		return fmt.Errorf("ledger.type must be 'csv' or 'sqlite'")
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

// Default returns the strategy sheet defaults: 100,000 capital, a 10,000
// monthly target, -5% stop-loss and +10% take-profit.
func Default() *Config {
	def := simulator.DefaultConfig()
	return &Config{
		Simulation: SimulationConfig{
			StartingCapital: def.StartingCapital,
			MonthlyTarget:   def.MonthlyTarget,
			StopLoss:        def.Envelope.StopLoss,
			TakeProfit:      def.Envelope.TakeProfit,
		},
		Advisory: AdvisoryConfig{
			ReviewStreak: simulator.DefaultReviewStreak,
		},
		Ledger: LedgerConfig{
			Type: "csv",
			Path: "./trades.csv",
		},
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
	}
}
