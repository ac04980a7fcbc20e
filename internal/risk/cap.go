// Package risk keeps every listed market's open interest cap tied to its
// current liquidity.
package risk

import (
	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/ledger"
)

// CapCalculator derives the open interest cap from a liquidity reading.
type CapCalculator struct {
	ratio decimal.Decimal
}

// NewCapCalculator creates a calculator with the given liquidity ratio.
func NewCapCalculator(ratio decimal.Decimal) *CapCalculator {
	return &CapCalculator{ratio: ratio}
}

// Compute returns ratio × liquidity, rounded down to the ledger's unit
// precision so the mirrored cap always equals what lands on the ledger.
func (c *CapCalculator) Compute(liquidityUsd decimal.Decimal) decimal.Decimal {
	return liquidityUsd.Mul(c.ratio).RoundFloor(ledger.UnitDecimals)
}

// Ratio returns the configured liquidity ratio.
func (c *CapCalculator) Ratio() decimal.Decimal {
	return c.ratio
}
