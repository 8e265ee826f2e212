package keeper_test

import (
	"testing"
	"time"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/tarn-chain/tarn/testutil/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// mustInt parses a decimal accumulator fixture.
func mustInt(t *testing.T, s string) math.Int {
	t.Helper()
	v, ok := math.NewIntFromString(s)
	require.True(t, ok, "bad integer fixture %q", s)
	return v
}

// TestAccumulateOnElapsedTime validates that an operation folds the standing
// price, weighted by elapsed time, into both accumulators before the reserves
// move
func TestAccumulateOnElapsedTime(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 10000, 10000)
	startMs := ctx.BlockTime().UnixMilli()

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(5 * time.Second))

	trader := testAddr("trader")
	bank.FundAccount(trader, coins("utarn", 1000))
	_, err := k.SwapExactIn(ctx, trader, "utarn", math.NewInt(1000), "uatom", math.ZeroInt())
	require.NoError(t, err)

	// Five seconds at price 1.0 on both sides: 5000 * 2^64.
	updated, _ := k.GetPool(ctx, pool.Id)
	want := mustInt(t, "92233720368547758080000")
	require.Equal(t, want, updated.PriceACumulative)
	require.Equal(t, want, updated.PriceBCumulative)
	require.Equal(t, startMs+5000, updated.LastTimestampMs)
	require.Equal(t, math.NewInt(9094), updated.ReserveA)
	require.Equal(t, math.NewInt(11000), updated.ReserveB)
}

// TestSameBlockNoAccumulation validates that operations within one block add
// nothing
func TestSameBlockNoAccumulation(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 10000, 10000)

	trader := testAddr("trader")
	bank.FundAccount(trader, coins("uatom", 2000))
	_, err := k.SwapExactIn(ctx, trader, "uatom", math.NewInt(1000), "utarn", math.ZeroInt())
	require.NoError(t, err)
	_, err = k.SwapExactIn(ctx, trader, "uatom", math.NewInt(1000), "utarn", math.ZeroInt())
	require.NoError(t, err)

	updated, _ := k.GetPool(ctx, pool.Id)
	require.True(t, updated.PriceACumulative.IsZero())
	require.True(t, updated.PriceBCumulative.IsZero())
	require.Equal(t, ctx.BlockTime().UnixMilli(), updated.LastTimestampMs)
}

// TestTWAPProjectionLazy validates that reads project the stored sample to
// the current block without persisting, and that differencing two samples
// recovers the 64.64 average price
func TestTWAPProjectionLazy(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 10000, 10000)
	startMs := ctx.BlockTime().UnixMilli()

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(5 * time.Second))
	trader := testAddr("trader")
	bank.FundAccount(trader, coins("utarn", 1000))
	_, err := k.SwapExactIn(ctx, trader, "utarn", math.NewInt(1000), "uatom", math.ZeroInt())
	require.NoError(t, err)

	// Three more quiet seconds at the post-swap price 11000/9094.
	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(3 * time.Second))

	record, err := k.GetTWAPRecord(ctx, pool.Id)
	require.NoError(t, err)
	require.Equal(t, pool.Id, record.PoolId)
	require.Equal(t, startMs+8000, record.TimestampMs)
	require.Equal(t, mustInt(t, "159172642122717012899000"), record.PriceACumulative)
	require.Equal(t, mustInt(t, "137984999624815393277000"), record.PriceBCumulative)

	// The projection is read-only: the stored sample still holds the last
	// write.
	stored, _ := k.GetPool(ctx, pool.Id)
	require.Equal(t, mustInt(t, "92233720368547758080000"), stored.PriceACumulative)
	require.Equal(t, startMs+5000, stored.LastTimestampMs)

	// Differencing the two samples yields the standing price in 64.64 form.
	avg := record.PriceACumulative.Sub(stored.PriceACumulative).QuoRaw(3000)
	require.Equal(t, mustInt(t, "22312973918056418273"), avg)
}

// TestTWAPIdlePool validates projection for a pool that has never traded
func TestTWAPIdlePool(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 10000, 20000)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(2 * time.Second))

	record, err := k.GetTWAPRecord(ctx, pool.Id)
	require.NoError(t, err)

	// Two seconds at price 2.0 and 0.5 respectively.
	require.Equal(t, mustInt(t, "73786976294838206464000"), record.PriceACumulative)
	require.Equal(t, mustInt(t, "18446744073709551616000"), record.PriceBCumulative)

	_, err = k.GetTWAPRecord(ctx, 99)
	require.ErrorIs(t, err, types.ErrPairNotFound)
}

// TestTWAPWraparound validates modular wrap of an accumulator near 2^128
func TestTWAPWraparound(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 10000, 10000)

	near := pool
	near.PriceACumulative = mustInt(t, "340282366920938463463374607431768211455")
	k.SetPool(ctx, near)

	ctx = ctx.WithBlockTime(ctx.BlockTime().Add(1 * time.Second))

	record, err := k.GetTWAPRecord(ctx, pool.Id)
	require.NoError(t, err)

	// 2^128 - 1 plus 1000 * 2^64 wraps to 1000 * 2^64 - 1.
	require.Equal(t, mustInt(t, "18446744073709551615999"), record.PriceACumulative)
	require.Equal(t, mustInt(t, "18446744073709551616000"), record.PriceBCumulative)
}
