package admission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/discovery"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/idhash"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/ledger"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/notify"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/observability"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/provider"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// DefaultWorkers bounds concurrent candidate evaluations per sweep.
const DefaultWorkers = 8

// PipelineOptions configures the admission pipeline.
type PipelineOptions struct {
	Feed      discovery.Feed
	Provider  provider.MarketDataProvider
	Gateway   ledger.Gateway
	Markets   storage.MarketStore
	Decisions storage.DecisionStore
	Notifier  notify.Notifier
	Metrics   *observability.Metrics
	Logger    *log.Logger

	Thresholds domain.Thresholds
	Workers    int

	// Now overrides the timestamp source. Used in tests.
	Now func() int64
}

// Pipeline pulls candidates from the feed, gates them, and lists accepted
// tokens on the ledger. One candidate's failure never affects another's.
type Pipeline struct {
	feed      discovery.Feed
	provider  provider.MarketDataProvider
	gateway   ledger.Gateway
	markets   storage.MarketStore
	decisions storage.DecisionStore
	notifier  notify.Notifier
	metrics   *observability.Metrics
	logger    *log.Logger

	evaluator *Evaluator
	workers   int
	now       func() int64
}

// NewPipeline creates an admission pipeline.
func NewPipeline(opts PipelineOptions) *Pipeline {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	return &Pipeline{
		feed:      opts.Feed,
		provider:  opts.Provider,
		gateway:   opts.Gateway,
		markets:   opts.Markets,
		decisions: opts.Decisions,
		notifier:  opts.Notifier,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		evaluator: NewEvaluator(opts.Thresholds),
		workers:   workers,
		now:       now,
	}
}

// Run executes one sweep: poll the feed, evaluate every candidate.
// This is the scheduler entry point.
func (p *Pipeline) Run(ctx context.Context) error {
	candidates, err := p.feed.Poll(ctx)
	if err != nil {
		return fmt.Errorf("poll feed: %w", err)
	}

	p.RunSweep(ctx, candidates)
	return nil
}

// RunSweep evaluates a batch of candidates with bounded concurrency and
// returns the decision for each. Decisions are recorded in the decision
// store as they are made.
func (p *Pipeline) RunSweep(ctx context.Context, candidates []domain.CandidateToken) []*domain.AdmissionDecision {
	start := time.Now()
	if p.metrics != nil {
		p.metrics.SweepsTotal.Inc()
		defer func() {
			p.metrics.SweepDuration.Observe(time.Since(start).Seconds())
		}()
	}

	decisions := make([]*domain.AdmissionDecision, len(candidates))

	sem := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, candidate := range candidates {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, candidate domain.CandidateToken) {
			defer wg.Done()
			defer func() { <-sem }()

			decisions[i] = p.processCandidate(ctx, candidate)
		}(i, candidate)
	}

	wg.Wait()
	return decisions
}

// processCandidate runs the full admission flow for one token. Every exit
// path produces a decision; errors are folded into the decision rather than
// propagated.
func (p *Pipeline) processCandidate(ctx context.Context, candidate domain.CandidateToken) *domain.AdmissionDecision {
	decision := p.decide(ctx, candidate)

	if err := p.decisions.Insert(ctx, decision); err != nil {
		p.logger.Printf("admission: record decision for %s: %v", candidate.Address, err)
	}
	if p.metrics != nil {
		p.metrics.CandidatesEvaluated.WithLabelValues(string(decision.Outcome), decision.Reason).Inc()
	}

	p.logger.Printf("admission: token=%s symbol=%s outcome=%s reason=%s",
		candidate.Address, candidate.Symbol, decision.Outcome, decision.Reason)

	return decision
}

func (p *Pipeline) decide(ctx context.Context, candidate domain.CandidateToken) *domain.AdmissionDecision {
	reject := func(reason string) *domain.AdmissionDecision {
		return &domain.AdmissionDecision{
			Token:             candidate,
			Outcome:           domain.OutcomeRejected,
			Reason:            reason,
			ThresholdsApplied: p.evaluator.Thresholds(),
			EvaluatedAt:       p.now(),
		}
	}

	// A token that already has a listed market is done. A pending market
	// means an earlier submission failed; re-evaluate and try again.
	existing, err := p.markets.GetByToken(ctx, candidate.Address)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		p.logger.Printf("admission: lookup market for %s: %v", candidate.Address, err)
		return reject(domain.ReasonProviderError)
	}
	if existing != nil && existing.Status == domain.MarketListed {
		return reject(domain.ReasonAlreadyListed)
	}

	security, err := p.provider.GetSecurity(ctx, candidate.Address)
	if err != nil {
		p.countProviderError(err)
		p.logger.Printf("admission: security fetch for %s: %v", candidate.Address, err)
		return reject(domain.ReasonProviderError)
	}

	// The liquidity fetch is skipped entirely when the security gate fails.
	var liquidity *domain.LiquiditySnapshot
	if p.evaluator.NeedsLiquidity(security) {
		liquidity, err = p.provider.GetLiquidity(ctx, candidate.Address)
		if err != nil {
			p.countProviderError(err)
			p.logger.Printf("admission: liquidity fetch for %s: %v", candidate.Address, err)
			return reject(domain.ReasonProviderError)
		}
	}

	decision := p.evaluator.Evaluate(candidate, security, liquidity, p.now())
	if decision.Outcome != domain.OutcomeAccepted {
		return decision
	}

	if err := p.listMarket(ctx, candidate, existing); err != nil {
		p.logger.Printf("admission: list market for %s: %v", candidate.Address, err)
		decision.Outcome = domain.OutcomeRejected
		decision.Reason = domain.ReasonSubmissionError
		return decision
	}

	return decision
}

// listMarket creates the pending market record, submits the listing to the
// ledger, and marks the market listed once confirmed. The cap starts at zero;
// the risk loop assigns the first real cap.
func (p *Pipeline) listMarket(ctx context.Context, candidate domain.CandidateToken, existing *domain.Market) error {
	symbol := idhash.MarketSymbol(candidate.Symbol)
	marketID := idhash.ComputeMarketID(candidate.Address, symbol)

	if existing == nil {
		market := &domain.Market{
			ID:            marketID,
			TokenAddress:  candidate.Address,
			Symbol:        symbol,
			Status:        domain.MarketPending,
			CurrentCapUsd: decimal.Zero,
			CreatedAt:     p.now(),
		}
		if err := p.markets.Insert(ctx, market); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("insert market: %w", err)
		}
	}

	ledgerID, err := p.gateway.SubmitCreateMarket(ctx, candidate.Address, symbol)
	if err != nil {
		if p.notifier != nil {
			p.notifier.SubmissionFailed(marketID, err)
		}
		return fmt.Errorf("submit create market: %w", err)
	}
	if ledgerID != marketID {
		p.logger.Printf("admission: ledger assigned id %s for market %s", ledgerID, marketID)
	}

	if err := p.markets.UpdateStatus(ctx, marketID, domain.MarketListed); err != nil {
		return fmt.Errorf("mark market listed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.MarketsListed.Inc()
	}
	if p.notifier != nil {
		p.notifier.MarketListed(marketID, candidate.Address, symbol)
	}
	return nil
}

func (p *Pipeline) countProviderError(err error) {
	if p.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, provider.ErrProviderUnavailable):
		p.metrics.ProviderErrors.WithLabelValues("unavailable").Inc()
	case errors.Is(err, provider.ErrProviderDataInvalid):
		p.metrics.ProviderErrors.WithLabelValues("invalid").Inc()
	default:
		p.metrics.ProviderErrors.WithLabelValues("other").Inc()
	}
}
