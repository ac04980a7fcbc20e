package domain

import "github.com/shopspring/decimal"

// Outcome is the result of an admission evaluation.
type Outcome string

const (
	OutcomeAccepted Outcome = "ACCEPTED"
	OutcomeRejected Outcome = "REJECTED"
)

// Rejection reasons recorded on AdmissionDecision.
const (
	ReasonLowSecurity     = "low_security"
	ReasonLowLiquidity    = "low_liquidity"
	ReasonAlreadyListed   = "already_listed"
	ReasonProviderError   = "provider_error"
	ReasonSubmissionError = "submission_error"
)

// Thresholds are the admission gates in force when a decision was made.
type Thresholds struct {
	MinSecurityScore float64
	MinLiquidityUsd  decimal.Decimal
}

// AdmissionDecision is an immutable record of one candidate evaluation.
// Decisions are appended to the audit log, never mutated.
type AdmissionDecision struct {
	Token             CandidateToken
	Outcome           Outcome
	Reason            string // empty when accepted
	ThresholdsApplied Thresholds
	EvaluatedAt       int64 // Unix timestamp in milliseconds
}
