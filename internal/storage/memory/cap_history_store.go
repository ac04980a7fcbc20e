package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// CapHistoryStore is an in-memory implementation of storage.CapHistoryStore.
type CapHistoryStore struct {
	mu   sync.RWMutex
	data []*domain.CapObservation
}

// NewCapHistoryStore creates a new in-memory cap history store.
func NewCapHistoryStore() *CapHistoryStore {
	return &CapHistoryStore{}
}

// Insert appends one observation.
func (s *CapHistoryStore) Insert(_ context.Context, o *domain.CapObservation) error {
	if o == nil || o.MarketID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	obsCopy := *o
	s.data = append(s.data, &obsCopy)
	return nil
}

// GetByMarket retrieves all observations for a market, ordered by observed_at ASC.
func (s *CapHistoryStore) GetByMarket(_ context.Context, marketID string) ([]*domain.CapObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CapObservation
	for _, o := range s.data {
		if o.MarketID == marketID {
			obsCopy := *o
			result = append(result, &obsCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ObservedAt < result[j].ObservedAt
	})

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.CapHistoryStore = (*CapHistoryStore)(nil)
