package cache

import (
	"context"
	"time"

	"github.com/erp/installments/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed event keys in process memory.
// It is only correct for a single server instance.
type InMemoryIdempotencyStore struct {
	m *ttlMap
}

// NewInMemoryIdempotencyStore creates a store that sweeps expired keys every
// five minutes
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{m: newTTLMap(5 * time.Minute)}
}

// MarkProcessed records eventID and reports whether it was not already present
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.m.setNX(eventID, nil, ttl), nil
}

// IsProcessed reports whether a live mark exists for eventID
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	_, ok := s.m.get(eventID)
	return ok, nil
}

// Release forgets eventID
func (s *InMemoryIdempotencyStore) Release(_ context.Context, eventID string) error {
	s.m.delete(eventID)
	return nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.m.close()
	return nil
}

// Size returns the number of stored keys, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	return s.m.len()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
