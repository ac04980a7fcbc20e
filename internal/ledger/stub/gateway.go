// Package stub provides a scripted ledger Gateway for tests.
package stub

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/idhash"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/ledger"
)

// CapSubmission records one SubmitSetMaxOpenInterest call.
type CapSubmission struct {
	MarketID string
	CapUsd   decimal.Decimal
}

// Gateway implements ledger.Gateway with scripted failures and call recording.
type Gateway struct {
	mu sync.Mutex

	createErr map[string]error // token address -> error
	capErr    map[string]error // market ID -> error

	created        []string
	capSubmissions []CapSubmission
}

// New creates a stub gateway that confirms everything.
func New() *Gateway {
	return &Gateway{
		createErr: make(map[string]error),
		capErr:    make(map[string]error),
	}
}

// Compile-time interface check.
var _ ledger.Gateway = (*Gateway)(nil)

// FailCreate scripts a SubmitCreateMarket failure for a token.
func (g *Gateway) FailCreate(tokenAddress string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createErr[tokenAddress] = err
}

// FailCap scripts a SubmitSetMaxOpenInterest failure for a market.
func (g *Gateway) FailCap(marketID string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.capErr[marketID] = err
}

// SubmitCreateMarket returns the deterministic market ID unless scripted to fail.
func (g *Gateway) SubmitCreateMarket(_ context.Context, tokenAddress, symbol string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.createErr[tokenAddress]; err != nil {
		return "", err
	}
	g.created = append(g.created, tokenAddress)
	return idhash.ComputeMarketID(tokenAddress, symbol), nil
}

// SubmitSetMaxOpenInterest records the submission unless scripted to fail.
func (g *Gateway) SubmitSetMaxOpenInterest(_ context.Context, marketID string, capUsd decimal.Decimal) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.capErr[marketID]; err != nil {
		return err
	}
	g.capSubmissions = append(g.capSubmissions, CapSubmission{MarketID: marketID, CapUsd: capUsd})
	return nil
}

// Created returns the token addresses for which markets were created.
func (g *Gateway) Created() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.created))
	copy(out, g.created)
	return out
}

// CapSubmissions returns all recorded cap submissions.
func (g *Gateway) CapSubmissions() []CapSubmission {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CapSubmission, len(g.capSubmissions))
	copy(out, g.capSubmissions)
	return out
}
