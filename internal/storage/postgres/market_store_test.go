package postgres

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakeshbhol1995-dotcom/dex-free/internal/domain"
	"github.com/rakeshbhol1995-dotcom/dex-free/internal/storage"
)

func testMarket(id, token string, status domain.MarketStatus, createdAt int64) *domain.Market {
	return &domain.Market{
		ID:            id,
		TokenAddress:  token,
		Symbol:        "TKN-PERP",
		Status:        status,
		CurrentCapUsd: decimal.Zero,
		CreatedAt:     createdAt,
	}
}

func TestMarketStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	market := &domain.Market{
		ID:            "market-001",
		TokenAddress:  "TokenAddr123",
		Symbol:        "ABC-PERP",
		Status:        domain.MarketPending,
		CurrentCapUsd: decimal.RequireFromString("12500.5"),
		CreatedAt:     1700000000000,
	}

	err := store.Insert(ctx, market)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "market-001")
	require.NoError(t, err)

	assert.Equal(t, market.ID, retrieved.ID)
	assert.Equal(t, market.TokenAddress, retrieved.TokenAddress)
	assert.Equal(t, market.Symbol, retrieved.Symbol)
	assert.Equal(t, market.Status, retrieved.Status)
	assert.True(t, market.CurrentCapUsd.Equal(retrieved.CurrentCapUsd))
	assert.Equal(t, market.CreatedAt, retrieved.CreatedAt)
}

func TestMarketStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	market := testMarket("market-dup", "TokenAddrDup", domain.MarketPending, 1700000000000)

	err := store.Insert(ctx, market)
	require.NoError(t, err)

	err = store.Insert(ctx, market)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestMarketStore_InsertDuplicateToken(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, testMarket("market-a", "TokenShared", domain.MarketPending, 1700000000000))
	require.NoError(t, err)

	// Same token under a different market ID violates the token uniqueness index.
	err = store.Insert(ctx, testMarket("market-b", "TokenShared", domain.MarketPending, 1700000001000))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestMarketStore_GetByIDNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_GetByToken(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	err := store.Insert(ctx, testMarket("market-tok", "TokenAddrX", domain.MarketListed, 1700000000000))
	require.NoError(t, err)

	retrieved, err := store.GetByToken(ctx, "TokenAddrX")
	require.NoError(t, err)
	assert.Equal(t, "market-tok", retrieved.ID)

	_, err = store.GetByToken(ctx, "TokenAddrY")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_GetByStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testMarket("market-2", "Token2", domain.MarketListed, 2000)))
	require.NoError(t, store.Insert(ctx, testMarket("market-1", "Token1", domain.MarketListed, 1000)))
	require.NoError(t, store.Insert(ctx, testMarket("market-3", "Token3", domain.MarketPending, 1500)))

	listed, err := store.GetByStatus(ctx, domain.MarketListed)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "market-1", listed[0].ID)
	assert.Equal(t, "market-2", listed[1].ID)

	pending, err := store.GetByStatus(ctx, domain.MarketPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "market-3", pending[0].ID)
}

func TestMarketStore_UpdateStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testMarket("market-st", "TokenSt", domain.MarketPending, 1000)))

	err := store.UpdateStatus(ctx, "market-st", domain.MarketListed)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "market-st")
	require.NoError(t, err)
	assert.Equal(t, domain.MarketListed, retrieved.Status)

	err = store.UpdateStatus(ctx, "missing", domain.MarketListed)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestMarketStore_UpdateCap(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewMarketStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testMarket("market-cap", "TokenCap", domain.MarketListed, 1000)))

	cap := decimal.RequireFromString("50000.123456")
	err := store.UpdateCap(ctx, "market-cap", cap)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "market-cap")
	require.NoError(t, err)
	assert.True(t, cap.Equal(retrieved.CurrentCapUsd), "expected %s, got %s", cap, retrieved.CurrentCapUsd)

	err = store.UpdateCap(ctx, "missing", cap)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
