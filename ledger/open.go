package ledger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Open returns the store named by kind: "csv", "sqlite" or "memory".
// "memory" is for programmatic callers and tests; the configuration file
// only selects the persistent kinds, so the CLI never opens one.
func Open(kind, path string, log zerolog.Logger) (Store, error) {
	switch kind {
	case "csv":
		return NewCSV(path, log)
	case "sqlite":
		return NewSQLite(path, log)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, kind)
	}
}
