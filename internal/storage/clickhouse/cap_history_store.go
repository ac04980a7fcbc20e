package clickhouse

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

// CapHistoryStore implements storage.CapHistoryStore using ClickHouse.
// Cap observations are append-only telemetry, so MergeTree without
// deduplication is sufficient.
type CapHistoryStore struct {
	conn *Conn
}

// NewCapHistoryStore creates a new CapHistoryStore.
func NewCapHistoryStore(conn *Conn) *CapHistoryStore {
	return &CapHistoryStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CapHistoryStore = (*CapHistoryStore)(nil)

// Insert records a single cap observation.
func (s *CapHistoryStore) Insert(ctx context.Context, obs *domain.CapObservation) error {
	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO cap_history (
			market_id, liquidity_usd, cap_usd, applied, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	applied := uint8(0)
	if obs.Applied {
		applied = 1
	}

	err = batch.Append(
		obs.MarketID,
		obs.LiquidityUsd.String(),
		obs.CapUsd.String(),
		applied,
		uint64(obs.ObservedAt),
	)
	if err != nil {
		return fmt.Errorf("append to batch: %w", err)
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByMarket retrieves all observations for a market, ordered by observed_at ASC.
func (s *CapHistoryStore) GetByMarket(ctx context.Context, marketID string) ([]*domain.CapObservation, error) {
	query := `
		SELECT market_id, liquidity_usd, cap_usd, applied, observed_at
		FROM cap_history
		WHERE market_id = ?
		ORDER BY observed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, marketID)
	if err != nil {
		return nil, fmt.Errorf("query by market id: %w", err)
	}
	defer rows.Close()

	return scanCapObservations(rows)
}

// Rows interface for scanning
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanCapObservations scans multiple rows into a slice.
func scanCapObservations(rows chRows) ([]*domain.CapObservation, error) {
	var observations []*domain.CapObservation

	for rows.Next() {
		var obs domain.CapObservation
		var liquidityStr, capStr string
		var applied uint8
		var observedAt uint64

		err := rows.Scan(
			&obs.MarketID, &liquidityStr, &capStr, &applied, &observedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cap history row: %w", err)
		}

		liquidity, err := decimal.NewFromString(liquidityStr)
		if err != nil {
			return nil, fmt.Errorf("parse liquidity %q: %w", liquidityStr, err)
		}
		capUsd, err := decimal.NewFromString(capStr)
		if err != nil {
			return nil, fmt.Errorf("parse cap %q: %w", capStr, err)
		}

		obs.LiquidityUsd = liquidity
		obs.CapUsd = capUsd
		obs.Applied = applied != 0
		obs.ObservedAt = int64(observedAt)
		observations = append(observations, &obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cap history rows: %w", err)
	}

	return observations, nil
}
