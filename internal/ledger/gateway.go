// Package ledger submits market operations to the external ledger and tracks
// their confirmation.
package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Sentinel errors for submission failures.
var (
	// ErrSubmissionRejected indicates the ledger refused the operation.
	ErrSubmissionRejected = errors.New("submission rejected")

	// ErrSubmissionTimeout indicates the operation was sent but its outcome is
	// unknown. The ledger may or may not have applied it.
	ErrSubmissionTimeout = errors.New("submission timeout")
)

// Gateway submits market operations to the ledger.
type Gateway interface {
	// SubmitCreateMarket lists a new perpetual market for the token and waits
	// for confirmation. Returns the ledger-assigned market ID.
	SubmitCreateMarket(ctx context.Context, tokenAddress, symbol string) (string, error)

	// SubmitSetMaxOpenInterest sets the open interest cap for a market and
	// waits for confirmation. The USD amount is converted to ledger integer
	// units, rounding down.
	SubmitSetMaxOpenInterest(ctx context.Context, marketID string, capUsd decimal.Decimal) error
}
