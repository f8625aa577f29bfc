package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config selects the level and output format of the process logger.
type Config struct {
	Level  string `json:"level" yaml:"level"`   // trace, debug, info, warn, error
	Format string `json:"format" yaml:"format"` // console or json
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Format {
	case "", "console", "json":
		return nil
	}
	return fmt.Errorf("log.format must be 'console' or 'json'")
}

// New builds a logger writing to w. A nil w means stderr so stdout stays
// free for reports.
func New(cfg Config, w io.Writer) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
		}
		lvl = l
	}

	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}
