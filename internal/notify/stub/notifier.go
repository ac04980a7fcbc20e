// Package stub provides a recording Notifier for tests.
package stub

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/notify"
)

// ListedEvent records one MarketListed notification.
type ListedEvent struct {
	MarketID     string
	TokenAddress string
	Symbol       string
}

// CapEvent records one CapReduced notification.
type CapEvent struct {
	MarketID string
	Previous decimal.Decimal
	Current  decimal.Decimal
}

// FailureEvent records one SubmissionFailed notification.
type FailureEvent struct {
	MarketID string
	Err      error
}

// Notifier implements notify.Notifier and records every event.
type Notifier struct {
	mu       sync.Mutex
	listed   []ListedEvent
	caps     []CapEvent
	failures []FailureEvent
}

// New creates an empty recording notifier.
func New() *Notifier {
	return &Notifier{}
}

// Compile-time interface check.
var _ notify.Notifier = (*Notifier)(nil)

func (n *Notifier) MarketListed(marketID, tokenAddress, symbol string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listed = append(n.listed, ListedEvent{MarketID: marketID, TokenAddress: tokenAddress, Symbol: symbol})
}

func (n *Notifier) CapReduced(marketID string, previous, current decimal.Decimal) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.caps = append(n.caps, CapEvent{MarketID: marketID, Previous: previous, Current: current})
}

func (n *Notifier) SubmissionFailed(marketID string, err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, FailureEvent{MarketID: marketID, Err: err})
}

// Listed returns all recorded listing events.
func (n *Notifier) Listed() []ListedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]ListedEvent, len(n.listed))
	copy(out, n.listed)
	return out
}

// CapReductions returns all recorded cap reduction events.
func (n *Notifier) CapReductions() []CapEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]CapEvent, len(n.caps))
	copy(out, n.caps)
	return out
}

// Failures returns all recorded submission failures.
func (n *Notifier) Failures() []FailureEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]FailureEvent, len(n.failures))
	copy(out, n.failures)
	return out
}
