package stub

import (
	"context"
	"testing"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/idhash"
)

func TestGateway_AssignsDeterministicMarketID(t *testing.T) {
	g := New()
	symbol := idhash.MarketSymbol("tkn")

	id, err := g.SubmitCreateMarket(context.Background(), "addr1", symbol)
	if err != nil {
		t.Fatalf("SubmitCreateMarket failed: %v", err)
	}

	// The ledger-assigned ID must match the locally computed one, otherwise
	// every listing would take the ID-mismatch path.
	if want := idhash.ComputeMarketID("addr1", symbol); id != want {
		t.Errorf("Expected market ID %s, got %s", want, id)
	}
}
