package domain

// SecurityAssessment is a point-in-time security score for a token.
// Always fetched fresh per evaluation; never cached across sweeps.
type SecurityAssessment struct {
	Score       float64 // 0-100
	EvaluatedAt int64   // Unix timestamp in milliseconds
}
