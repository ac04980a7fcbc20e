// Package discovery surfaces candidate tokens from external feeds.
package discovery

import (
	"context"
	"sync"

	"github.com/mr-tron/base58"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// Feed produces batches of newly discovered candidate tokens. Poll drains
// whatever arrived since the previous call; it never blocks waiting for new
// tokens.
type Feed interface {
	Poll(ctx context.Context) ([]domain.CandidateToken, error)
}

// ValidAddress reports whether s decodes to a 32-byte base58 key.
func ValidAddress(s string) bool {
	raw, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(raw) == 32
}

// StaticFeed delivers a fixed set of candidates once. Used for tests and
// manual runs.
type StaticFeed struct {
	mu     sync.Mutex
	queued []domain.CandidateToken
}

// NewStaticFeed creates a feed preloaded with the given candidates.
func NewStaticFeed(candidates ...domain.CandidateToken) *StaticFeed {
	f := &StaticFeed{}
	f.queued = append(f.queued, candidates...)
	return f
}

// Compile-time interface check.
var _ Feed = (*StaticFeed)(nil)

// Add queues more candidates for the next Poll.
func (f *StaticFeed) Add(candidates ...domain.CandidateToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, candidates...)
}

// Poll returns all queued candidates and empties the queue.
func (f *StaticFeed) Poll(_ context.Context) ([]domain.CandidateToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queued
	f.queued = nil
	return out, nil
}
