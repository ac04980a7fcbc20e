package idhash

import (
	"strings"
	"testing"
)

func TestComputeMarketID_Deterministic(t *testing.T) {
	id1 := ComputeMarketID("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", "MOONX-PERP")
	id2 := ComputeMarketID("7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU", "MOONX-PERP")

	if id1 != id2 {
		t.Errorf("Expected deterministic ID, got %s and %s", id1, id2)
	}

	if len(id1) != 64 {
		t.Errorf("Expected 64-character hex hash, got %d characters", len(id1))
	}
}

func TestComputeMarketID_DistinctInputs(t *testing.T) {
	base := ComputeMarketID("addr1", "MOONX-PERP")

	if ComputeMarketID("addr2", "MOONX-PERP") == base {
		t.Error("Different addresses should produce different IDs")
	}
	if ComputeMarketID("addr1", "BONK-PERP") == base {
		t.Error("Different symbols should produce different IDs")
	}
}

func TestComputeMarketID_SymbolCaseInsensitive(t *testing.T) {
	// MarketSymbol normalizes to upper case, so token symbol case must not
	// change the identity of the market.
	if ComputeMarketID("addr1", MarketSymbol("moonx")) != ComputeMarketID("addr1", MarketSymbol("MOONX")) {
		t.Error("Token symbol case should not change the market ID")
	}
}

func TestMarketSymbol(t *testing.T) {
	got := MarketSymbol("pepe")
	if got != "PEPE-PERP" {
		t.Errorf("Expected PEPE-PERP, got %s", got)
	}

	if !strings.HasSuffix(MarketSymbol("BONK"), "-PERP") {
		t.Error("Market symbols should carry the -PERP suffix")
	}
}
