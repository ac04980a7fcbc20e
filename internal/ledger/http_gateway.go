package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default configuration values.
const (
	DefaultSubmitTimeout  = 15 * time.Second
	DefaultConfirmTimeout = 30 * time.Second
	DefaultPollInterval   = 1 * time.Second
)

// Submission statuses reported by the ledger.
const (
	statusConfirmed = "confirmed"
	statusRejected  = "rejected"
	statusPending   = "pending"
)

// HTTPGateway implements Gateway over the ledger's JSON-RPC endpoint.
// Operations are submitted exactly once; only confirmation polling repeats.
type HTTPGateway struct {
	endpoint       string
	signer         *Signer
	client         *http.Client
	confirmTimeout time.Duration
	pollInterval   time.Duration
	logger         *log.Logger
}

// GatewayOption configures HTTPGateway.
type GatewayOption func(*HTTPGateway)

// WithSubmitTimeout sets the HTTP client timeout for a single call.
func WithSubmitTimeout(d time.Duration) GatewayOption {
	return func(g *HTTPGateway) {
		g.client.Timeout = d
	}
}

// WithConfirmTimeout bounds how long confirmation is polled.
func WithConfirmTimeout(d time.Duration) GatewayOption {
	return func(g *HTTPGateway) {
		g.confirmTimeout = d
	}
}

// WithPollInterval sets the confirmation polling interval.
func WithPollInterval(d time.Duration) GatewayOption {
	return func(g *HTTPGateway) {
		g.pollInterval = d
	}
}

// WithGatewayHTTPClient sets custom http.Client.
func WithGatewayHTTPClient(client *http.Client) GatewayOption {
	return func(g *HTTPGateway) {
		g.client = client
	}
}

// NewHTTPGateway creates a new ledger gateway.
func NewHTTPGateway(endpoint string, signer *Signer, logger *log.Logger, opts ...GatewayOption) *HTTPGateway {
	g := &HTTPGateway{
		endpoint:       endpoint,
		signer:         signer,
		client:         &http.Client{Timeout: DefaultSubmitTimeout},
		confirmTimeout: DefaultConfirmTimeout,
		pollInterval:   DefaultPollInterval,
		logger:         logger,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Compile-time interface check.
var _ Gateway = (*HTTPGateway)(nil)

// rpcRequest represents a JSON-RPC 2.0 request.
type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// rpcResponse represents a JSON-RPC 2.0 response.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

// rpcError represents a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

type createMarketParams struct {
	TokenAddress string `json:"token_address"`
	Symbol       string `json:"symbol"`
	Signer       string `json:"signer"`
	Signature    string `json:"signature"`
}

type createMarketResult struct {
	MarketID     string `json:"market_id"`
	SubmissionID string `json:"submission_id"`
}

type setMaxOpenInterestParams struct {
	MarketID  string `json:"market_id"`
	MaxUnits  int64  `json:"max_units"`
	Signer    string `json:"signer"`
	Signature string `json:"signature"`
}

type setMaxOpenInterestResult struct {
	SubmissionID string `json:"submission_id"`
}

type submissionStatusResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// SubmitCreateMarket lists a new perpetual market and waits for confirmation.
func (g *HTTPGateway) SubmitCreateMarket(ctx context.Context, tokenAddress, symbol string) (string, error) {
	payload := fmt.Sprintf("create_market|%s|%s", tokenAddress, symbol)
	params := createMarketParams{
		TokenAddress: tokenAddress,
		Symbol:       symbol,
		Signer:       g.signer.Address(),
		Signature:    fmt.Sprintf("%x", g.signer.Sign([]byte(payload))),
	}

	var result createMarketResult
	if err := g.call(ctx, "create_market", params, &result); err != nil {
		return "", err
	}
	if result.MarketID == "" || result.SubmissionID == "" {
		return "", fmt.Errorf("%w: create_market result missing ids", ErrSubmissionRejected)
	}

	if err := g.awaitConfirmation(ctx, result.SubmissionID); err != nil {
		return "", err
	}

	g.logger.Printf("create_market confirmed: market=%s token=%s", result.MarketID, tokenAddress)
	return result.MarketID, nil
}

// SubmitSetMaxOpenInterest sets the open interest cap and waits for confirmation.
func (g *HTTPGateway) SubmitSetMaxOpenInterest(ctx context.Context, marketID string, capUsd decimal.Decimal) error {
	units, err := ToUnits(capUsd)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionRejected, err)
	}

	payload := fmt.Sprintf("set_max_open_interest|%s|%d", marketID, units)
	params := setMaxOpenInterestParams{
		MarketID:  marketID,
		MaxUnits:  units,
		Signer:    g.signer.Address(),
		Signature: fmt.Sprintf("%x", g.signer.Sign([]byte(payload))),
	}

	var result setMaxOpenInterestResult
	if err := g.call(ctx, "set_max_open_interest", params, &result); err != nil {
		return err
	}
	if result.SubmissionID == "" {
		return fmt.Errorf("%w: set_max_open_interest result missing submission id", ErrSubmissionRejected)
	}

	if err := g.awaitConfirmation(ctx, result.SubmissionID); err != nil {
		return err
	}

	g.logger.Printf("set_max_open_interest confirmed: market=%s units=%d", marketID, units)
	return nil
}

// awaitConfirmation polls the submission status until confirmed, rejected, or
// the confirmation deadline passes.
func (g *HTTPGateway) awaitConfirmation(ctx context.Context, submissionID string) error {
	deadline := time.Now().Add(g.confirmTimeout)

	for {
		var status submissionStatusResult
		err := g.call(ctx, "get_submission_status", map[string]string{"submission_id": submissionID}, &status)
		if err == nil {
			switch status.Status {
			case statusConfirmed:
				return nil
			case statusRejected:
				return fmt.Errorf("%w: %s", ErrSubmissionRejected, status.Reason)
			case statusPending:
				// keep polling
			default:
				return fmt.Errorf("%w: unknown status %q", ErrSubmissionRejected, status.Status)
			}
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w: submission %s unconfirmed after %s", ErrSubmissionTimeout, submissionID, g.confirmTimeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrSubmissionTimeout, ctx.Err())
		case <-time.After(g.pollInterval):
		}
	}
}

// call performs a single JSON-RPC call. Submissions are never retried, so a
// transport failure surfaces as ErrSubmissionTimeout (outcome unknown).
func (g *HTTPGateway) call(ctx context.Context, method string, params, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionTimeout, err)
	}

	respBody, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrSubmissionTimeout, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d: %s", ErrSubmissionRejected, resp.StatusCode, string(respBody))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return fmt.Errorf("%w: unmarshal response: %v", ErrSubmissionRejected, err)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("%w: %v", ErrSubmissionRejected, rpcResp.Error)
	}

	if result != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("%w: unmarshal result: %v", ErrSubmissionRejected, err)
		}
	}

	return nil
}
