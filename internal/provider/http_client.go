package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// Default configuration values.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultMaxRetries = 1
	DefaultRetryDelay = 500 * time.Millisecond
)

// HTTPProvider implements MarketDataProvider over the provider's REST API.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	client     *http.Client
	maxRetries int
	retryDelay time.Duration
	now        func() int64
}

// Option configures HTTPProvider.
type Option func(*HTTPProvider)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *HTTPProvider) {
		p.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts for transient failures.
func WithMaxRetries(n int) Option {
	return func(p *HTTPProvider) {
		p.maxRetries = n
	}
}

// WithRetryDelay sets the delay before a retry.
func WithRetryDelay(d time.Duration) Option {
	return func(p *HTTPProvider) {
		p.retryDelay = d
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// WithClock overrides the timestamp source. Used in tests.
func WithClock(now func() int64) Option {
	return func(p *HTTPProvider) {
		p.now = now
	}
}

// NewHTTPProvider creates a new REST market data provider.
func NewHTTPProvider(baseURL, apiKey string, opts ...Option) *HTTPProvider {
	p := &HTTPProvider{
		baseURL:    baseURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: DefaultTimeout},
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile-time interface check.
var _ MarketDataProvider = (*HTTPProvider)(nil)

type securityResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Score *float64 `json:"score"`
	} `json:"data"`
}

type liquidityResponse struct {
	Success bool `json:"success"`
	Data    struct {
		LiquidityUsd *float64 `json:"liquidity_usd"`
	} `json:"data"`
}

// GetSecurity returns the current security assessment for a token.
func (p *HTTPProvider) GetSecurity(ctx context.Context, tokenAddress string) (*domain.SecurityAssessment, error) {
	body, err := p.get(ctx, "/v1/token/security", tokenAddress)
	if err != nil {
		return nil, err
	}

	var resp securityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal security response: %v", ErrProviderDataInvalid, err)
	}
	if !resp.Success || resp.Data.Score == nil {
		return nil, fmt.Errorf("%w: security response missing score", ErrProviderDataInvalid)
	}
	score := *resp.Data.Score
	if score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: security score %f out of range", ErrProviderDataInvalid, score)
	}

	return &domain.SecurityAssessment{
		Score:       score,
		EvaluatedAt: p.now(),
	}, nil
}

// GetLiquidity returns the current liquidity snapshot for a token.
func (p *HTTPProvider) GetLiquidity(ctx context.Context, tokenAddress string) (*domain.LiquiditySnapshot, error) {
	body, err := p.get(ctx, "/v1/token/liquidity", tokenAddress)
	if err != nil {
		return nil, err
	}

	var resp liquidityResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal liquidity response: %v", ErrProviderDataInvalid, err)
	}
	if !resp.Success || resp.Data.LiquidityUsd == nil {
		return nil, fmt.Errorf("%w: liquidity response missing liquidity_usd", ErrProviderDataInvalid)
	}
	liquidity := *resp.Data.LiquidityUsd
	if liquidity < 0 {
		return nil, fmt.Errorf("%w: negative liquidity %f", ErrProviderDataInvalid, liquidity)
	}

	return &domain.LiquiditySnapshot{
		LiquidityUsd: decimal.NewFromFloat(liquidity),
		ObservedAt:   p.now(),
	}, nil
}

// get performs a GET request with retries on transient failures.
// Network errors, 429 and 5xx responses count as transient; anything else
// fails immediately.
func (p *HTTPProvider) get(ctx context.Context, path, tokenAddress string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s%s?address=%s", p.baseURL, path, url.QueryEscape(tokenAddress))

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
			case <-time.After(p.retryDelay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if p.apiKey != "" {
			req.Header.Set("X-API-KEY", p.apiKey)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: unexpected status %d: %s", ErrProviderDataInvalid, resp.StatusCode, string(body))
		}

		return body, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, lastErr)
}
