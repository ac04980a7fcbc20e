package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// DecisionStore is an in-memory implementation of storage.DecisionStore.
type DecisionStore struct {
	mu   sync.RWMutex
	data []*domain.AdmissionDecision
}

// NewDecisionStore creates a new in-memory decision store.
func NewDecisionStore() *DecisionStore {
	return &DecisionStore{}
}

// Insert appends a decision record.
func (s *DecisionStore) Insert(_ context.Context, d *domain.AdmissionDecision) error {
	if d == nil || d.Token.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	decisionCopy := *d
	s.data = append(s.data, &decisionCopy)
	return nil
}

// GetByToken retrieves all decisions for a token address, ordered by
// evaluated_at ASC.
func (s *DecisionStore) GetByToken(_ context.Context, tokenAddress string) ([]*domain.AdmissionDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AdmissionDecision
	for _, d := range s.data {
		if d.Token.Address == tokenAddress {
			decisionCopy := *d
			result = append(result, &decisionCopy)
		}
	}

	sortDecisions(result)
	return result, nil
}

// GetByOutcome retrieves all decisions with the given outcome, ordered by
// evaluated_at ASC.
func (s *DecisionStore) GetByOutcome(_ context.Context, outcome domain.Outcome) ([]*domain.AdmissionDecision, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.AdmissionDecision
	for _, d := range s.data {
		if d.Outcome == outcome {
			decisionCopy := *d
			result = append(result, &decisionCopy)
		}
	}

	sortDecisions(result)
	return result, nil
}

func sortDecisions(decisions []*domain.AdmissionDecision) {
	sort.Slice(decisions, func(i, j int) bool {
		return decisions[i].EvaluatedAt < decisions[j].EvaluatedAt
	})
}

// Verify interface compliance at compile time.
var _ storage.DecisionStore = (*DecisionStore)(nil)
