package storage

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// MarketStore provides access to the market registry.
//
// Ownership is partitioned by component: the admission pipeline inserts new
// markets and promotes them to LISTED; the risk control loop is the only
// writer of the cap mirror.
type MarketStore interface {
	// Insert adds a new market. Returns ErrDuplicateKey if the market ID exists.
	Insert(ctx context.Context, m *domain.Market) error

	// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, marketID string) (*domain.Market, error)

	// GetByToken retrieves the market for a token address.
	// Returns ErrNotFound if not exists.
	GetByToken(ctx context.Context, tokenAddress string) (*domain.Market, error)

	// GetByStatus retrieves all markets in the given status, ordered by
	// created_at ASC.
	GetByStatus(ctx context.Context, status domain.MarketStatus) ([]*domain.Market, error)

	// UpdateStatus transitions a market's status. Returns ErrNotFound if the
	// market does not exist.
	UpdateStatus(ctx context.Context, marketID string, status domain.MarketStatus) error

	// UpdateCap sets the mirrored cap for a market. Returns ErrNotFound if the
	// market does not exist.
	UpdateCap(ctx context.Context, marketID string, capUsd decimal.Decimal) error
}

// DecisionStore is the append-only audit log of admission decisions.
type DecisionStore interface {
	// Insert appends a decision record.
	Insert(ctx context.Context, d *domain.AdmissionDecision) error

	// GetByToken retrieves all decisions for a token address, ordered by
	// evaluated_at ASC.
	GetByToken(ctx context.Context, tokenAddress string) ([]*domain.AdmissionDecision, error)

	// GetByOutcome retrieves all decisions with the given outcome, ordered by
	// evaluated_at ASC.
	GetByOutcome(ctx context.Context, outcome domain.Outcome) ([]*domain.AdmissionDecision, error)
}

// CapHistoryStore is the append-only timeseries of risk cycle observations.
type CapHistoryStore interface {
	// Insert appends one observation.
	Insert(ctx context.Context, o *domain.CapObservation) error

	// GetByMarket retrieves all observations for a market, ordered by
	// observed_at ASC.
	GetByMarket(ctx context.Context, marketID string) ([]*domain.CapObservation, error)
}
