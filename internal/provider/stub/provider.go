// Package stub provides a scripted MarketDataProvider for tests.
package stub

import (
	"context"
	"sync"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/provider"
)

// SecurityResult is a scripted response for GetSecurity.
type SecurityResult struct {
	Assessment *domain.SecurityAssessment
	Err        error
}

// LiquidityResult is a scripted response for GetLiquidity.
type LiquidityResult struct {
	Snapshot *domain.LiquiditySnapshot
	Err      error
}

// Provider implements provider.MarketDataProvider with per-token scripted
// responses and call counting.
type Provider struct {
	mu sync.Mutex

	security  map[string]SecurityResult
	liquidity map[string]LiquidityResult

	securityCalls  map[string]int
	liquidityCalls map[string]int
}

// New creates an empty stub provider. Unscripted tokens return
// provider.ErrProviderDataInvalid.
func New() *Provider {
	return &Provider{
		security:       make(map[string]SecurityResult),
		liquidity:      make(map[string]LiquidityResult),
		securityCalls:  make(map[string]int),
		liquidityCalls: make(map[string]int),
	}
}

// Compile-time interface check.
var _ provider.MarketDataProvider = (*Provider)(nil)

// SetSecurity scripts the GetSecurity response for a token.
func (p *Provider) SetSecurity(tokenAddress string, score float64, at int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.security[tokenAddress] = SecurityResult{
		Assessment: &domain.SecurityAssessment{Score: score, EvaluatedAt: at},
	}
}

// SetSecurityErr scripts a GetSecurity failure for a token.
func (p *Provider) SetSecurityErr(tokenAddress string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.security[tokenAddress] = SecurityResult{Err: err}
}

// SetLiquidity scripts the GetLiquidity response for a token.
func (p *Provider) SetLiquidity(tokenAddress string, snapshot *domain.LiquiditySnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liquidity[tokenAddress] = LiquidityResult{Snapshot: snapshot}
}

// SetLiquidityErr scripts a GetLiquidity failure for a token.
func (p *Provider) SetLiquidityErr(tokenAddress string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liquidity[tokenAddress] = LiquidityResult{Err: err}
}

// GetSecurity returns the scripted security result.
func (p *Provider) GetSecurity(_ context.Context, tokenAddress string) (*domain.SecurityAssessment, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.securityCalls[tokenAddress]++

	res, ok := p.security[tokenAddress]
	if !ok {
		return nil, provider.ErrProviderDataInvalid
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Assessment, nil
}

// GetLiquidity returns the scripted liquidity result.
func (p *Provider) GetLiquidity(_ context.Context, tokenAddress string) (*domain.LiquiditySnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liquidityCalls[tokenAddress]++

	res, ok := p.liquidity[tokenAddress]
	if !ok {
		return nil, provider.ErrProviderDataInvalid
	}
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Snapshot, nil
}

// SecurityCalls returns how many times GetSecurity was called for a token.
func (p *Provider) SecurityCalls(tokenAddress string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.securityCalls[tokenAddress]
}

// LiquidityCalls returns how many times GetLiquidity was called for a token.
func (p *Provider) LiquidityCalls(tokenAddress string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liquidityCalls[tokenAddress]
}
