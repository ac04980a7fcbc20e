package clickhouse

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
)

func TestCapHistoryStore_InsertAndGetByMarket(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCapHistoryStore(conn)
	ctx := context.Background()

	observations := []*domain.CapObservation{
		{
			MarketID:     "market-1",
			LiquidityUsd: decimal.RequireFromString("100000"),
			CapUsd:       decimal.RequireFromString("50000"),
			Applied:      true,
			ObservedAt:   1700000000000,
		},
		{
			MarketID:     "market-1",
			LiquidityUsd: decimal.RequireFromString("40000.5"),
			CapUsd:       decimal.RequireFromString("20000.25"),
			Applied:      false,
			ObservedAt:   1700000300000,
		},
		{
			MarketID:     "market-2",
			LiquidityUsd: decimal.RequireFromString("75000"),
			CapUsd:       decimal.RequireFromString("37500"),
			Applied:      true,
			ObservedAt:   1700000100000,
		},
	}

	for _, obs := range observations {
		require.NoError(t, store.Insert(ctx, obs))
	}

	got, err := store.GetByMarket(ctx, "market-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, int64(1700000000000), got[0].ObservedAt)
	assert.True(t, got[0].Applied)
	assert.True(t, got[0].CapUsd.Equal(decimal.RequireFromString("50000")))

	assert.Equal(t, int64(1700000300000), got[1].ObservedAt)
	assert.False(t, got[1].Applied)
	assert.True(t, got[1].LiquidityUsd.Equal(decimal.RequireFromString("40000.5")))
	assert.True(t, got[1].CapUsd.Equal(decimal.RequireFromString("20000.25")))
}

func TestCapHistoryStore_GetByMarketEmpty(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCapHistoryStore(conn)

	got, err := store.GetByMarket(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
