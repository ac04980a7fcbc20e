package domain

import "github.com/shopspring/decimal"

// LiquiditySnapshot is a point-in-time observation of spot liquidity for a
// token, in USD. Fetched fresh each admission evaluation and each risk cycle.
type LiquiditySnapshot struct {
	LiquidityUsd decimal.Decimal // >= 0
	ObservedAt   int64           // Unix timestamp in milliseconds
}
