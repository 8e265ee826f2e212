package keeper

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// RegisterInvariants registers the AMM module invariants.
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "module-balance", ModuleBalanceInvariant(k))
	ir.RegisterRoute(types.ModuleName, "share-supply", ShareSupplyInvariant(k))
	ir.RegisterRoute(types.ModuleName, "pool-integrity", PoolIntegrityInvariant(k))
}

// AllInvariants runs every AMM invariant.
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ModuleBalanceInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		res, stop = ShareSupplyInvariant(k)(ctx)
		if stop {
			return res, stop
		}
		return PoolIntegrityInvariant(k)(ctx)
	}
}

// ModuleBalanceInvariant checks that the module account holds at least the
// sum of recorded reserves for every denom. Locked pools have already split
// the loaned funds out of both the reserves and the account, so the check
// holds mid-loan too.
func ModuleBalanceInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		required := make(map[string]math.Int)
		k.IteratePools(ctx, func(pool types.Pool) bool {
			for _, side := range []struct {
				denom   string
				reserve math.Int
			}{
				{pool.TokenA, pool.ReserveA},
				{pool.TokenB, pool.ReserveB},
			} {
				if existing, ok := required[side.denom]; ok {
					required[side.denom] = existing.Add(side.reserve)
				} else {
					required[side.denom] = side.reserve
				}
			}
			return false
		})

		moduleAddr := k.GetModuleAddress()
		for denom, reserve := range required {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if balance.Amount.LT(reserve) {
				count++
				msg += fmt.Sprintf("denom %s: module balance %s < total reserves %s\n",
					denom, balance.Amount, reserve)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "module-balance",
			fmt.Sprintf("found %d denoms with reserves above module balance\n%s", count, msg),
		), broken
	}
}

// ShareSupplyInvariant checks that provider ledger balances plus each pool's
// retained bucket account for the pool's full share supply.
func ShareSupplyInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		held := make(map[uint64]math.Int)
		k.IterateShares(ctx, func(poolID uint64, _ sdk.AccAddress, shares math.Int) bool {
			if existing, ok := held[poolID]; ok {
				held[poolID] = existing.Add(shares)
			} else {
				held[poolID] = shares
			}
			return false
		})

		k.IteratePools(ctx, func(pool types.Pool) bool {
			sum, ok := held[pool.Id]
			if !ok {
				sum = math.ZeroInt()
			}
			if !sum.Add(pool.FeeShares).Equal(pool.TotalShares) {
				count++
				msg += fmt.Sprintf("pool %d: ledger %s + retained %s != supply %s\n",
					pool.Id, sum, pool.FeeShares, pool.TotalShares)
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-supply",
			fmt.Sprintf("found %d pools with unaccounted share supply\n%s", count, msg),
		), broken
	}
}

// PoolIntegrityInvariant checks structural pool state: record validity, the
// pair index pointing back at the pool, the locked floor present in every
// funded pool, and nonzero reserves outside an active loan.
func PoolIntegrityInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		k.IteratePools(ctx, func(pool types.Pool) bool {
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("pool %d: %v\n", pool.Id, err)
				return false
			}
			indexed, found := k.GetPoolByDenoms(ctx, pool.TokenA, pool.TokenB)
			if !found || indexed.Id != pool.Id {
				count++
				msg += fmt.Sprintf("pool %d: pair index does not resolve to pool\n", pool.Id)
			}
			if pool.TotalShares.IsPositive() {
				if pool.FeeShares.LT(math.NewInt(types.MinimumLiquidity)) {
					count++
					msg += fmt.Sprintf("pool %d: retained shares %s below locked floor\n",
						pool.Id, pool.FeeShares)
				}
				if !pool.Locked && (!pool.ReserveA.IsPositive() || !pool.ReserveB.IsPositive()) {
					count++
					msg += fmt.Sprintf("pool %d: funded pool with empty reserve (%s/%s)\n",
						pool.Id, pool.ReserveA, pool.ReserveB)
				}
			}
			return false
		})

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "pool-integrity",
			fmt.Sprintf("found %d pools with integrity violations\n%s", count, msg),
		), broken
	}
}
