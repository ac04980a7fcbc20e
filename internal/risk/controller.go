package risk

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/ledger"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/notify"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/observability"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/provider"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// DefaultWorkers bounds concurrent per-market updates per cycle.
const DefaultWorkers = 8

// ControllerOptions configures the risk controller.
type ControllerOptions struct {
	Provider   provider.MarketDataProvider
	Gateway    ledger.Gateway
	Markets    storage.MarketStore
	CapHistory storage.CapHistoryStore // optional
	Notifier   notify.Notifier
	Metrics    *observability.Metrics
	Logger     *log.Logger

	Ratio   decimal.Decimal
	Workers int

	// Now overrides the timestamp source. Used in tests.
	Now func() int64
}

// CapResult is the outcome of one market's cap update.
type CapResult struct {
	MarketID string
	CapUsd   decimal.Decimal
	Applied  bool
	Err      error
}

// Controller recomputes and submits the cap for every listed market. Caps are
// corrective: each cycle submits the freshly computed cap whether or not it
// changed. The stored cap is a mirror and moves only on confirmed
// submissions.
type Controller struct {
	provider   provider.MarketDataProvider
	gateway    ledger.Gateway
	markets    storage.MarketStore
	capHistory storage.CapHistoryStore
	notifier   notify.Notifier
	metrics    *observability.Metrics
	logger     *log.Logger

	calc    *CapCalculator
	workers int
	now     func() int64
}

// NewController creates a risk controller.
func NewController(opts ControllerOptions) *Controller {
	workers := opts.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	now := opts.Now
	if now == nil {
		now = func() int64 { return time.Now().UnixMilli() }
	}

	return &Controller{
		provider:   opts.Provider,
		gateway:    opts.Gateway,
		markets:    opts.Markets,
		capHistory: opts.CapHistory,
		notifier:   opts.Notifier,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		calc:       NewCapCalculator(opts.Ratio),
		workers:    workers,
		now:        now,
	}
}

// Run executes one cycle over all listed markets. This is the scheduler entry
// point.
func (c *Controller) Run(ctx context.Context) error {
	markets, err := c.markets.GetByStatus(ctx, domain.MarketListed)
	if err != nil {
		return fmt.Errorf("load listed markets: %w", err)
	}

	c.RunCycle(ctx, markets)
	return nil
}

// RunCycle updates a batch of markets with bounded concurrency and returns
// the per-market results. One market's failure never affects another's.
func (c *Controller) RunCycle(ctx context.Context, markets []*domain.Market) []CapResult {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.CyclesTotal.Inc()
		defer func() {
			c.metrics.CycleDuration.Observe(time.Since(start).Seconds())
		}()
	}

	results := make([]CapResult, len(markets))

	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i, market := range markets {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, market *domain.Market) {
			defer wg.Done()
			defer func() { <-sem }()

			results[i] = c.updateMarket(ctx, market)
		}(i, market)
	}

	wg.Wait()
	return results
}

// updateMarket fetches fresh liquidity, computes the cap, and submits it.
// A provider failure skips the market: a stale reading must never move the
// cap.
func (c *Controller) updateMarket(ctx context.Context, market *domain.Market) CapResult {
	result := CapResult{MarketID: market.ID}

	liquidity, err := c.provider.GetLiquidity(ctx, market.TokenAddress)
	if err != nil {
		c.logger.Printf("risk: liquidity fetch for market %s: %v", market.ID, err)
		if c.metrics != nil {
			c.metrics.MarketsSkipped.Inc()
		}
		result.Err = err
		return result
	}

	cap := c.calc.Compute(liquidity.LiquidityUsd)
	result.CapUsd = cap

	err = c.gateway.SubmitSetMaxOpenInterest(ctx, market.ID, cap)
	if err != nil {
		c.logger.Printf("risk: cap submission for market %s: %v", market.ID, err)
		c.countSubmission(err)
		c.recordObservation(ctx, market.ID, liquidity.LiquidityUsd, cap, false)
		if c.notifier != nil {
			c.notifier.SubmissionFailed(market.ID, err)
		}
		result.Err = err
		return result
	}

	// Confirmed on the ledger; now the mirror may move.
	if err := c.markets.UpdateCap(ctx, market.ID, cap); err != nil {
		c.logger.Printf("risk: mirror cap for market %s: %v", market.ID, err)
	}
	c.countSubmission(nil)
	c.recordObservation(ctx, market.ID, liquidity.LiquidityUsd, cap, true)

	previous := market.CurrentCapUsd
	if c.notifier != nil && previous.IsPositive() && cap.LessThan(previous.Div(decimal.NewFromInt(2))) {
		c.notifier.CapReduced(market.ID, previous, cap)
	}

	c.logger.Printf("risk: market=%s liquidity=%s cap=%s", market.ID, liquidity.LiquidityUsd, cap)
	result.Applied = true
	return result
}

// recordObservation appends to the cap history when a history store is wired.
func (c *Controller) recordObservation(ctx context.Context, marketID string, liquidityUsd, capUsd decimal.Decimal, applied bool) {
	if c.capHistory == nil {
		return
	}
	obs := &domain.CapObservation{
		MarketID:     marketID,
		LiquidityUsd: liquidityUsd,
		CapUsd:       capUsd,
		Applied:      applied,
		ObservedAt:   c.now(),
	}
	if err := c.capHistory.Insert(ctx, obs); err != nil {
		c.logger.Printf("risk: record cap observation for %s: %v", marketID, err)
	}
}

func (c *Controller) countSubmission(err error) {
	if c.metrics == nil {
		return
	}
	switch {
	case err == nil:
		c.metrics.CapSubmissions.WithLabelValues("confirmed").Inc()
	case errors.Is(err, ledger.ErrSubmissionTimeout):
		c.metrics.CapSubmissions.WithLabelValues("timeout").Inc()
	case errors.Is(err, ledger.ErrSubmissionRejected):
		c.metrics.CapSubmissions.WithLabelValues("rejected").Inc()
	default:
		c.metrics.CapSubmissions.WithLabelValues("error").Inc()
	}
}
