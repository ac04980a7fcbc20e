package domain

// CandidateToken represents a token observed by the discovery feed.
// Candidates are transient: they are consumed once per admission sweep and the
// feed may redeliver the same token on a later sweep.
type CandidateToken struct {
	Address      string // token address (base58)
	Symbol       string // display symbol, e.g. "MOONX"
	DiscoveredAt int64  // Unix timestamp in milliseconds
}
