package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

type rpcCall struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestGateway(t *testing.T, url string) *HTTPGateway {
	t.Helper()
	signer, err := NewSigner(testSeed)
	if err != nil {
		t.Fatal(err)
	}
	return NewHTTPGateway(url, signer, testLogger(),
		WithConfirmTimeout(2*time.Second),
		WithPollInterval(10*time.Millisecond),
	)
}

func rpcResult(w http.ResponseWriter, id string, result interface{}) {
	raw, _ := json.Marshal(result)
	json.NewEncoder(w).Encode(rpcResponse{JSONRPC: "2.0", ID: id, Result: raw})
}

func TestHTTPGateway_SubmitCreateMarket(t *testing.T) {
	var statusPolls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		switch call.Method {
		case "create_market":
			var params createMarketParams
			json.Unmarshal(call.Params, &params)
			if params.TokenAddress != "addr1" || params.Symbol != "TKN-PERP" {
				t.Errorf("Unexpected params: %+v", params)
			}
			if params.Signer == "" || params.Signature == "" {
				t.Error("Missing signer or signature")
			}
			rpcResult(w, call.ID, createMarketResult{MarketID: "market-1", SubmissionID: "sub-1"})
		case "get_submission_status":
			// Pending on first poll, confirmed on second.
			if statusPolls.Add(1) == 1 {
				rpcResult(w, call.ID, submissionStatusResult{Status: "pending"})
			} else {
				rpcResult(w, call.ID, submissionStatusResult{Status: "confirmed"})
			}
		default:
			t.Errorf("Unexpected method: %s", call.Method)
		}
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)

	marketID, err := g.SubmitCreateMarket(context.Background(), "addr1", "TKN-PERP")
	if err != nil {
		t.Fatalf("SubmitCreateMarket failed: %v", err)
	}
	if marketID != "market-1" {
		t.Errorf("Expected market-1, got %s", marketID)
	}
	if statusPolls.Load() < 2 {
		t.Errorf("Expected at least 2 status polls, got %d", statusPolls.Load())
	}
}

func TestHTTPGateway_SubmitSetMaxOpenInterest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		json.NewDecoder(r.Body).Decode(&call)

		switch call.Method {
		case "set_max_open_interest":
			var params setMaxOpenInterestParams
			json.Unmarshal(call.Params, &params)
			// 20000.25 USD in 6-decimal units.
			if params.MaxUnits != 20000250000 {
				t.Errorf("Expected 20000250000 units, got %d", params.MaxUnits)
			}
			rpcResult(w, call.ID, setMaxOpenInterestResult{SubmissionID: "sub-2"})
		case "get_submission_status":
			rpcResult(w, call.ID, submissionStatusResult{Status: "confirmed"})
		default:
			t.Errorf("Unexpected method: %s", call.Method)
		}
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)

	err := g.SubmitSetMaxOpenInterest(context.Background(), "market-1", decimal.RequireFromString("20000.25"))
	if err != nil {
		t.Fatalf("SubmitSetMaxOpenInterest failed: %v", err)
	}
}

func TestHTTPGateway_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		json.NewDecoder(r.Body).Decode(&call)

		switch call.Method {
		case "create_market":
			rpcResult(w, call.ID, createMarketResult{MarketID: "market-1", SubmissionID: "sub-1"})
		case "get_submission_status":
			rpcResult(w, call.ID, submissionStatusResult{Status: "rejected", Reason: "symbol taken"})
		}
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)

	_, err := g.SubmitCreateMarket(context.Background(), "addr1", "TKN-PERP")
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("Expected ErrSubmissionRejected, got %v", err)
	}
}

func TestHTTPGateway_RPCErrorIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		json.NewDecoder(r.Body).Decode(&call)
		json.NewEncoder(w).Encode(rpcResponse{
			JSONRPC: "2.0",
			ID:      call.ID,
			Error:   &rpcError{Code: -32000, Message: "invalid symbol"},
		})
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)

	_, err := g.SubmitCreateMarket(context.Background(), "addr1", "")
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("Expected ErrSubmissionRejected, got %v", err)
	}
}

func TestHTTPGateway_ConfirmTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		json.NewDecoder(r.Body).Decode(&call)

		switch call.Method {
		case "set_max_open_interest":
			rpcResult(w, call.ID, setMaxOpenInterestResult{SubmissionID: "sub-1"})
		case "get_submission_status":
			rpcResult(w, call.ID, submissionStatusResult{Status: "pending"})
		}
	}))
	defer srv.Close()

	signer, err := NewSigner(testSeed)
	if err != nil {
		t.Fatal(err)
	}
	g := NewHTTPGateway(srv.URL, signer, testLogger(),
		WithConfirmTimeout(50*time.Millisecond),
		WithPollInterval(10*time.Millisecond),
	)

	err = g.SubmitSetMaxOpenInterest(context.Background(), "market-1", decimal.NewFromInt(100))
	if !errors.Is(err, ErrSubmissionTimeout) {
		t.Fatalf("Expected ErrSubmissionTimeout, got %v", err)
	}
}

func TestHTTPGateway_TransportFailureIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	g := newTestGateway(t, srv.URL)

	_, err := g.SubmitCreateMarket(context.Background(), "addr1", "TKN-PERP")
	if !errors.Is(err, ErrSubmissionTimeout) {
		t.Fatalf("Expected ErrSubmissionTimeout, got %v", err)
	}
}
