package session

import (
	"context"
	"sync"
)

// MemoryStore keeps conversation records in process memory. Sessions do not
// survive a restart and never expire, matching the single-instance bot.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[int64]*Record
}

// NewMemoryStore builds an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[int64]*Record)}
}

func (s *MemoryStore) Load(_ context.Context, telegramID int64) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records[telegramID].Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, telegramID int64, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[telegramID] = record.Clone()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, telegramID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, telegramID)
	return nil
}
