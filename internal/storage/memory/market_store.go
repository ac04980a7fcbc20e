package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// MarketStore is an in-memory implementation of storage.MarketStore.
type MarketStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Market // keyed by market ID
}

// NewMarketStore creates a new in-memory market store.
func NewMarketStore() *MarketStore {
	return &MarketStore{
		data: make(map[string]*domain.Market),
	}
}

// Insert adds a new market. Returns ErrDuplicateKey if the market ID exists.
func (s *MarketStore) Insert(_ context.Context, m *domain.Market) error {
	if m == nil || m.ID == "" || m.TokenAddress == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[m.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	marketCopy := *m
	s.data[m.ID] = &marketCopy
	return nil
}

// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByID(_ context.Context, marketID string) (*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.data[marketID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	marketCopy := *m
	return &marketCopy, nil
}

// GetByToken retrieves the market for a token address. Returns ErrNotFound if
// not exists.
func (s *MarketStore) GetByToken(_ context.Context, tokenAddress string) (*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.data {
		if m.TokenAddress == tokenAddress {
			marketCopy := *m
			return &marketCopy, nil
		}
	}
	return nil, storage.ErrNotFound
}

// GetByStatus retrieves all markets in the given status, ordered by created_at ASC.
func (s *MarketStore) GetByStatus(_ context.Context, status domain.MarketStatus) ([]*domain.Market, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Market
	for _, m := range s.data {
		if m.Status == status {
			marketCopy := *m
			result = append(result, &marketCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// UpdateStatus transitions a market's status.
func (s *MarketStore) UpdateStatus(_ context.Context, marketID string, status domain.MarketStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.data[marketID]
	if !exists {
		return storage.ErrNotFound
	}
	m.Status = status
	return nil
}

// UpdateCap sets the mirrored cap for a market.
func (s *MarketStore) UpdateCap(_ context.Context, marketID string, capUsd decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.data[marketID]
	if !exists {
		return storage.ErrNotFound
	}
	m.CurrentCapUsd = capUsd
	return nil
}

// Verify interface compliance at compile time.
var _ storage.MarketStore = (*MarketStore)(nil)
