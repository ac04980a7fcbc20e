// Package notify delivers operational notifications for listing and risk
// events.
package notify

import (
	"log"

	"github.com/shopspring/decimal"
)

// Notifier receives notable engine events. Implementations must not block the
// caller beyond their own delivery timeout; failures are logged, never
// propagated into the pipelines.
type Notifier interface {
	// MarketListed fires when a new market is confirmed on the ledger.
	MarketListed(marketID, tokenAddress, symbol string)

	// CapReduced fires when a confirmed cap is sharply below the previous one.
	CapReduced(marketID string, previous, current decimal.Decimal)

	// SubmissionFailed fires when a ledger submission is rejected or times out.
	SubmissionFailed(marketID string, err error)
}

// LogNotifier writes notifications to the injected logger.
type LogNotifier struct {
	logger *log.Logger
}

// NewLogNotifier creates a notifier backed by the logger.
func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Compile-time interface check.
var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) MarketListed(marketID, tokenAddress, symbol string) {
	n.logger.Printf("notify: market listed id=%s token=%s symbol=%s", marketID, tokenAddress, symbol)
}

func (n *LogNotifier) CapReduced(marketID string, previous, current decimal.Decimal) {
	n.logger.Printf("notify: cap reduced market=%s previous=%s current=%s", marketID, previous, current)
}

func (n *LogNotifier) SubmissionFailed(marketID string, err error) {
	n.logger.Printf("notify: submission failed market=%s err=%v", marketID, err)
}
