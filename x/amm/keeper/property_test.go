package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"pgregory.net/rapid"

	keepertest "github.com/tarn-chain/tarn/testutil/keeper"
	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// TestSwapSequenceNeverShrinksProduct validates the reserve-product floor
// across random swap sequences in both directions
func TestSwapSequenceNeverShrinksProduct(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k, bank, ctx := keepertest.AMMKeeper(t)

		seedA := rapid.Int64Range(10_000, 1_000_000_000).Draw(rt, "seedA")
		seedB := rapid.Int64Range(10_000, 1_000_000_000).Draw(rt, "seedB")
		pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", seedA, seedB)

		trader := testAddr("trader")
		product := math.NewInt(seedA).Mul(math.NewInt(seedB))

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			amountIn := math.NewInt(rapid.Int64Range(1, 10_000_000).Draw(rt, "amountIn"))
			tokenIn, tokenOut := "uatom", "utarn"
			if rapid.Bool().Draw(rt, "reverse") {
				tokenIn, tokenOut = tokenOut, tokenIn
			}
			bank.FundAccount(trader, sdk.NewCoins(sdk.NewCoin(tokenIn, amountIn)))

			before, _ := k.GetPool(ctx, pool.Id)
			if _, err := k.SwapExactIn(ctx, trader, tokenIn, amountIn, tokenOut, math.ZeroInt()); err != nil {
				// Dust inputs can quote a zero output; the rejected swap
				// must leave the pool untouched.
				after, _ := k.GetPool(ctx, pool.Id)
				if !after.ReserveA.Equal(before.ReserveA) || !after.ReserveB.Equal(before.ReserveB) {
					rt.Fatalf("failed swap moved reserves: %s/%s -> %s/%s",
						before.ReserveA, before.ReserveB, after.ReserveA, after.ReserveB)
				}
				continue
			}

			after, _ := k.GetPool(ctx, pool.Id)
			next := after.ReserveA.Mul(after.ReserveB)
			if next.LT(product) {
				rt.Fatalf("reserve product shrank on step %d: %s -> %s", i, product, next)
			}
			product = next
		}
	})
}

// TestLiquiditySequenceConservesShares validates that provider balances plus
// pool-held shares account for the whole supply across random deposit and
// withdraw sequences
func TestLiquiditySequenceConservesShares(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		k, bank, ctx := keepertest.AMMKeeper(t)

		seedA := rapid.Int64Range(100_000, 10_000_000).Draw(rt, "seedA")
		seedB := rapid.Int64Range(100_000, 10_000_000).Draw(rt, "seedB")
		pool, provider := setupPool(t, k, bank, ctx, "uatom", "utarn", seedA, seedB)

		providers := []sdk.AccAddress{provider, testAddr("second")}

		steps := rapid.IntRange(1, 15).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			who := providers[rapid.IntRange(0, 1).Draw(rt, "who")]

			before, _ := k.GetPool(ctx, pool.Id)
			if rapid.Bool().Draw(rt, "deposit") {
				amountA := math.NewInt(rapid.Int64Range(1_000, 1_000_000).Draw(rt, "amountA"))
				amountB := math.NewInt(rapid.Int64Range(1_000, 1_000_000).Draw(rt, "amountB"))
				bank.FundAccount(who, sdk.NewCoins(
					sdk.NewCoin("uatom", amountA), sdk.NewCoin("utarn", amountB)))
				if _, _, _, err := k.AddLiquidity(ctx, who, "uatom", "utarn",
					amountA, amountB, math.ZeroInt(), math.ZeroInt()); err != nil {
					requirePoolUnchanged(rt, k, ctx, before)
					continue
				}
			} else {
				held := k.GetLiquidity(ctx, pool.Id, who)
				if held.IsZero() {
					continue
				}
				burn := math.NewInt(rapid.Int64Range(1, held.Int64()).Draw(rt, "burn"))
				if _, _, err := k.RemoveLiquidity(ctx, who, "uatom", "utarn",
					burn, math.ZeroInt(), math.ZeroInt()); err != nil {
					requirePoolUnchanged(rt, k, ctx, before)
					continue
				}
			}

			updated, _ := k.GetPool(ctx, pool.Id)
			sum := updated.FeeShares
			k.IterateShares(ctx, func(poolID uint64, _ sdk.AccAddress, shares math.Int) bool {
				if poolID == pool.Id {
					sum = sum.Add(shares)
				}
				return false
			})
			if !sum.Equal(updated.TotalShares) {
				rt.Fatalf("step %d: ledger + pool-held %s != supply %s", i, sum, updated.TotalShares)
			}
			if updated.FeeShares.LT(math.NewInt(types.MinimumLiquidity)) {
				rt.Fatalf("step %d: locked floor breached: %s", i, updated.FeeShares)
			}
		}
	})
}

// requirePoolUnchanged asserts a rejected operation wrote nothing.
func requirePoolUnchanged(rt *rapid.T, k *keeper.Keeper, ctx sdk.Context, before types.Pool) {
	after, found := k.GetPool(ctx, before.Id)
	if !found {
		rt.Fatalf("pool %d vanished", before.Id)
	}
	if !after.ReserveA.Equal(before.ReserveA) || !after.ReserveB.Equal(before.ReserveB) ||
		!after.TotalShares.Equal(before.TotalShares) {
		rt.Fatalf("failed operation moved pool state: %+v -> %+v", before, after)
	}
}
