// Package provider fetches security and liquidity data for tokens from an
// external market data API.
package provider

import (
	"context"
	"errors"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// Sentinel errors for provider failures.
var (
	// ErrProviderUnavailable indicates the provider could not be reached or
	// answered with a transient failure. Safe to retry.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderDataInvalid indicates the provider answered but the payload
	// could not be interpreted. Retrying returns the same garbage.
	ErrProviderDataInvalid = errors.New("provider data invalid")
)

// MarketDataProvider fetches per-token security and liquidity readings.
type MarketDataProvider interface {
	// GetSecurity returns the current security assessment for a token.
	GetSecurity(ctx context.Context, tokenAddress string) (*domain.SecurityAssessment, error)

	// GetLiquidity returns the current liquidity snapshot for a token.
	GetLiquidity(ctx context.Context, tokenAddress string) (*domain.LiquiditySnapshot, error)
}
