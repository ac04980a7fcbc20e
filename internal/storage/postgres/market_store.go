package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// MarketStore implements storage.MarketStore using PostgreSQL.
type MarketStore struct {
	pool *Pool
}

// NewMarketStore creates a new MarketStore.
func NewMarketStore(pool *Pool) *MarketStore {
	return &MarketStore{pool: pool}
}

// Compile-time interface check.
var _ storage.MarketStore = (*MarketStore)(nil)

// Insert adds a new market. Returns ErrDuplicateKey if the market ID exists.
func (s *MarketStore) Insert(ctx context.Context, m *domain.Market) error {
	query := `
		INSERT INTO markets (
			market_id, token_address, symbol, status, current_cap_usd, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.pool.Exec(ctx, query,
		m.ID,
		m.TokenAddress,
		m.Symbol,
		string(m.Status),
		m.CurrentCapUsd.String(),
		m.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert market: %w", err)
	}
	return nil
}

// GetByID retrieves a market by its ID. Returns ErrNotFound if not exists.
func (s *MarketStore) GetByID(ctx context.Context, marketID string) (*domain.Market, error) {
	query := `
		SELECT market_id, token_address, symbol, status, current_cap_usd::text, created_at
		FROM markets
		WHERE market_id = $1
	`

	row := s.pool.QueryRow(ctx, query, marketID)
	m, err := scanMarket(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get market by id: %w", err)
	}
	return m, nil
}

// GetByToken retrieves the market for a token address. Returns ErrNotFound if
// not exists.
func (s *MarketStore) GetByToken(ctx context.Context, tokenAddress string) (*domain.Market, error) {
	query := `
		SELECT market_id, token_address, symbol, status, current_cap_usd::text, created_at
		FROM markets
		WHERE token_address = $1
	`

	row := s.pool.QueryRow(ctx, query, tokenAddress)
	m, err := scanMarket(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get market by token: %w", err)
	}
	return m, nil
}

// GetByStatus retrieves all markets in the given status, ordered by created_at ASC.
func (s *MarketStore) GetByStatus(ctx context.Context, status domain.MarketStatus) ([]*domain.Market, error) {
	query := `
		SELECT market_id, token_address, symbol, status, current_cap_usd::text, created_at
		FROM markets
		WHERE status = $1
		ORDER BY created_at ASC, market_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("get markets by status: %w", err)
	}
	defer rows.Close()

	return scanMarkets(rows)
}

// UpdateStatus transitions a market's status.
func (s *MarketStore) UpdateStatus(ctx context.Context, marketID string, status domain.MarketStatus) error {
	query := `UPDATE markets SET status = $2 WHERE market_id = $1`

	tag, err := s.pool.Exec(ctx, query, marketID, string(status))
	if err != nil {
		return fmt.Errorf("update market status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// UpdateCap sets the mirrored cap for a market.
func (s *MarketStore) UpdateCap(ctx context.Context, marketID string, capUsd decimal.Decimal) error {
	query := `UPDATE markets SET current_cap_usd = $2 WHERE market_id = $1`

	tag, err := s.pool.Exec(ctx, query, marketID, capUsd.String())
	if err != nil {
		return fmt.Errorf("update market cap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// scanMarket scans a single row into a Market.
func scanMarket(row pgx.Row) (*domain.Market, error) {
	var m domain.Market
	var statusStr, capStr string

	err := row.Scan(
		&m.ID,
		&m.TokenAddress,
		&m.Symbol,
		&statusStr,
		&capStr,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	cap, err := decimal.NewFromString(capStr)
	if err != nil {
		return nil, fmt.Errorf("parse cap %q: %w", capStr, err)
	}

	m.Status = domain.MarketStatus(statusStr)
	m.CurrentCapUsd = cap
	return &m, nil
}

// scanMarkets scans multiple rows into a slice of Market.
func scanMarkets(rows pgx.Rows) ([]*domain.Market, error) {
	var markets []*domain.Market

	for rows.Next() {
		m, err := scanMarket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan market row: %w", err)
		}
		markets = append(markets, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market rows: %w", err)
	}

	return markets, nil
}
