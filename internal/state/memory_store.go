package state

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu sync.RWMutex

	records map[string]Record
	closed  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
	}
}

func (s *MemoryStore) LoadAll(ctx context.Context) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	out := make(map[string]Record, len(s.records))
	for k, v := range s.records {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	rec.UpdatedAt = rec.UpdatedAt.UTC()
	s.records[rec.OfferID] = rec
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, offerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	delete(s.records, offerID)
	return nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}
