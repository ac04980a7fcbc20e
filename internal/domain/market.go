package domain

import "github.com/shopspring/decimal"

// MarketStatus is the lifecycle state of a market.
type MarketStatus string

const (
	// MarketPending means the listing submission is in flight or failed;
	// the market is not yet tradable.
	MarketPending MarketStatus = "PENDING"
	// MarketListed means the ledger confirmed the listing transaction.
	MarketListed MarketStatus = "LISTED"
)

// Market is a perpetual market managed by the risk control loop.
//
// CurrentCapUsd is a best-effort mirror of the max open interest held by the
// ledger; it is mutated only by the risk control loop and only after a
// confirmed submission. The ledger is the source of truth.
type Market struct {
	ID            string // deterministic hash, see idhash.ComputeMarketID
	TokenAddress  string
	Symbol        string
	Status        MarketStatus
	CurrentCapUsd decimal.Decimal
	CreatedAt     int64 // Unix timestamp in milliseconds
}

// CapObservation records one risk cycle's view of a single market: the
// liquidity observed, the cap computed from it, and whether the ledger
// confirmed the submission.
type CapObservation struct {
	MarketID     string
	LiquidityUsd decimal.Decimal
	CapUsd       decimal.Decimal
	Applied      bool
	ObservedAt   int64 // Unix timestamp in milliseconds
}
