// Package admission decides which discovered tokens get a perpetual market.
package admission

import (
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

// Evaluator applies the admission gates to a candidate token. It is pure:
// the same inputs always produce the same decision.
type Evaluator struct {
	thresholds domain.Thresholds
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(thresholds domain.Thresholds) *Evaluator {
	return &Evaluator{thresholds: thresholds}
}

// Evaluate runs the gates in order: security first, liquidity second. A
// failed security gate never consults liquidity. Missing readings fail
// closed.
func (e *Evaluator) Evaluate(
	token domain.CandidateToken,
	security *domain.SecurityAssessment,
	liquidity *domain.LiquiditySnapshot,
	evaluatedAt int64,
) *domain.AdmissionDecision {
	decision := &domain.AdmissionDecision{
		Token:             token,
		ThresholdsApplied: e.thresholds,
		EvaluatedAt:       evaluatedAt,
	}

	if security == nil || security.Score < e.thresholds.MinSecurityScore {
		decision.Outcome = domain.OutcomeRejected
		decision.Reason = domain.ReasonLowSecurity
		return decision
	}

	if liquidity == nil || liquidity.LiquidityUsd.LessThan(e.thresholds.MinLiquidityUsd) {
		decision.Outcome = domain.OutcomeRejected
		decision.Reason = domain.ReasonLowLiquidity
		return decision
	}

	decision.Outcome = domain.OutcomeAccepted
	return decision
}

// NeedsLiquidity reports whether the liquidity gate will be consulted for the
// given security reading. Callers skip the liquidity fetch entirely when the
// security gate already failed.
func (e *Evaluator) NeedsLiquidity(security *domain.SecurityAssessment) bool {
	return security != nil && security.Score >= e.thresholds.MinSecurityScore
}

// Thresholds returns the thresholds the evaluator applies.
func (e *Evaluator) Thresholds() domain.Thresholds {
	return e.thresholds
}
