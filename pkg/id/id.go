package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string for a ledger record created now.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns a ULID whose timestamp component is t. IDs minted within
// the same millisecond stay lexicographically increasing, so sorting ledger
// ids sorts records by insertion.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), mono)
	if err != nil {
		// Only possible if entropy is exhausted within one millisecond.
		panic(err)
	}
	return id.String()
}

// Time returns the creation time encoded in a ULID.
func Time(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid id %q: %w", s, err)
	}
	return ulid.Time(u.Time()), nil
}
