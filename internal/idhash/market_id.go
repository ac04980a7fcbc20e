package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComputeMarketID computes a deterministic market ID using SHA256.
// Formula: SHA256(token_address|market_symbol), where market_symbol is the
// finished perpetual symbol from MarketSymbol.
// Returns hex-encoded hash (64 characters).
//
// The ID is stable across redeliveries of the same candidate, which makes
// listing submissions idempotent at the ledger layer.
func ComputeMarketID(tokenAddress, marketSymbol string) string {
	data := fmt.Sprintf("%s|%s", tokenAddress, marketSymbol)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// MarketSymbol derives the perpetual market symbol for a token symbol,
// e.g. "MOONX" -> "MOONX-PERP".
func MarketSymbol(tokenSymbol string) string {
	return strings.ToUpper(tokenSymbol) + "-PERP"
}
