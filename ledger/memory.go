package ledger

import (
	"context"
	"sync"

	"github.com/rustyeddy/swingsim/pkg/id"
)

// MemoryStore keeps the ledger in a slice. Used by tests and by callers
// that build a ledger programmatically.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []TradeRecord
}

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

// Append validates rec, assigns an id when it has none, and adds it last.
func (s *MemoryStore) Append(_ context.Context, rec TradeRecord) (TradeRecord, error) {
	if err := rec.Validate(); err != nil {
		return TradeRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = id.New()
	} else if indexOf(s.recs, rec.ID) >= 0 {
		return TradeRecord{}, ErrDuplicateID
	}
	s.recs = append(s.recs, rec)
	return rec, nil
}

func (s *MemoryStore) Remove(_ context.Context, recID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.recs, recID)
	if i < 0 {
		return ErrNotFound
	}
	s.recs = append(s.recs[:i], s.recs[i+1:]...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, recID string) (TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := indexOf(s.recs, recID)
	if i < 0 {
		return TradeRecord{}, ErrNotFound
	}
	return s.recs[i], nil
}

func (s *MemoryStore) List(_ context.Context) ([]TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]TradeRecord, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func indexOf(recs []TradeRecord, recID string) int {
	for i := range recs {
		if recs[i].ID == recID {
			return i
		}
	}
	return -1
}
