package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// DecisionStore implements storage.DecisionStore using PostgreSQL.
// The admission_decisions table is append-only.
type DecisionStore struct {
	pool *Pool
}

// NewDecisionStore creates a new DecisionStore.
func NewDecisionStore(pool *Pool) *DecisionStore {
	return &DecisionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.DecisionStore = (*DecisionStore)(nil)

// Insert appends a decision record.
func (s *DecisionStore) Insert(ctx context.Context, d *domain.AdmissionDecision) error {
	query := `
		INSERT INTO admission_decisions (
			token_address, symbol, discovered_at, outcome, reason,
			min_security_score, min_liquidity_usd, evaluated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		d.Token.Address,
		d.Token.Symbol,
		d.Token.DiscoveredAt,
		string(d.Outcome),
		d.Reason,
		d.ThresholdsApplied.MinSecurityScore,
		d.ThresholdsApplied.MinLiquidityUsd.String(),
		d.EvaluatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}
	return nil
}

// GetByToken retrieves all decisions for a token address, ordered by
// evaluated_at ASC.
func (s *DecisionStore) GetByToken(ctx context.Context, tokenAddress string) ([]*domain.AdmissionDecision, error) {
	query := `
		SELECT token_address, symbol, discovered_at, outcome, reason,
		       min_security_score, min_liquidity_usd::text, evaluated_at
		FROM admission_decisions
		WHERE token_address = $1
		ORDER BY evaluated_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("get decisions by token: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// GetByOutcome retrieves all decisions with the given outcome, ordered by
// evaluated_at ASC.
func (s *DecisionStore) GetByOutcome(ctx context.Context, outcome domain.Outcome) ([]*domain.AdmissionDecision, error) {
	query := `
		SELECT token_address, symbol, discovered_at, outcome, reason,
		       min_security_score, min_liquidity_usd::text, evaluated_at
		FROM admission_decisions
		WHERE outcome = $1
		ORDER BY evaluated_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(outcome))
	if err != nil {
		return nil, fmt.Errorf("get decisions by outcome: %w", err)
	}
	defer rows.Close()

	return scanDecisions(rows)
}

// scanDecisions scans multiple rows into a slice of AdmissionDecision.
func scanDecisions(rows pgx.Rows) ([]*domain.AdmissionDecision, error) {
	var decisions []*domain.AdmissionDecision

	for rows.Next() {
		var d domain.AdmissionDecision
		var outcomeStr, minLiqStr string

		err := rows.Scan(
			&d.Token.Address,
			&d.Token.Symbol,
			&d.Token.DiscoveredAt,
			&outcomeStr,
			&d.Reason,
			&d.ThresholdsApplied.MinSecurityScore,
			&minLiqStr,
			&d.EvaluatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}

		minLiq, err := decimal.NewFromString(minLiqStr)
		if err != nil {
			return nil, fmt.Errorf("parse min liquidity %q: %w", minLiqStr, err)
		}

		d.Outcome = domain.Outcome(outcomeStr)
		d.ThresholdsApplied.MinLiquidityUsd = minLiq
		decisions = append(decisions, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision rows: %w", err)
	}

	return decisions, nil
}
