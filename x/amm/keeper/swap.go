package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// SwapExactIn trades a fixed input amount for as much output as the pool
// gives, failing when the result lands below minAmountOut.
func (k Keeper) SwapExactIn(
	ctx context.Context,
	trader sdk.AccAddress,
	tokenIn string, amountIn math.Int,
	tokenOut string, minAmountOut math.Int,
) (math.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, err
	}
	pool, found := k.GetPoolByDenoms(ctx, tokenIn, tokenOut)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenIn, tokenOut)
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountOut, err := GetAmountOut(amountIn, reserveIn, reserveOut, k.GetParams(ctx).SwapFeeBps)
	if err != nil {
		return math.Int{}, err
	}
	if amountOut.LT(minAmountOut) {
		return math.Int{}, types.ErrInsufficientOutputAmount.Wrapf(
			"output %s below minimum %s", amountOut, minAmountOut)
	}

	if err := k.executeSwap(ctx, &pool, trader, trader, tokenIn, amountIn, tokenOut, amountOut); err != nil {
		return math.Int{}, err
	}
	return amountOut, nil
}

// SwapExactOut trades as little input as the pool requires for a fixed
// output amount, failing when the requirement exceeds maxAmountIn.
func (k Keeper) SwapExactOut(
	ctx context.Context,
	trader sdk.AccAddress,
	tokenIn string, maxAmountIn math.Int,
	tokenOut string, amountOut math.Int,
) (math.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, err
	}
	pool, found := k.GetPoolByDenoms(ctx, tokenIn, tokenOut)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenIn, tokenOut)
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountIn, err := GetAmountIn(amountOut, reserveIn, reserveOut, k.GetParams(ctx).SwapFeeBps)
	if err != nil {
		return math.Int{}, err
	}
	if amountIn.GT(maxAmountIn) {
		return math.Int{}, types.ErrInsufficientInputAmount.Wrapf(
			"required input %s above maximum %s", amountIn, maxAmountIn)
	}

	if err := k.executeSwap(ctx, &pool, trader, trader, tokenIn, amountIn, tokenOut, amountOut); err != nil {
		return math.Int{}, err
	}
	return amountIn, nil
}

// SimulateSwapExactIn quotes a swap without touching state.
func (k Keeper) SimulateSwapExactIn(ctx context.Context, tokenIn string, amountIn math.Int, tokenOut string) (math.Int, error) {
	pool, found := k.GetPoolByDenoms(ctx, tokenIn, tokenOut)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenIn, tokenOut)
	}
	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	return GetAmountOut(amountIn, reserveIn, reserveOut, k.GetParams(ctx).SwapFeeBps)
}

// SimulateSwapExactOut quotes the input a swap would require without
// touching state.
func (k Keeper) SimulateSwapExactOut(ctx context.Context, tokenIn, tokenOut string, amountOut math.Int) (math.Int, error) {
	pool, found := k.GetPoolByDenoms(ctx, tokenIn, tokenOut)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenIn, tokenOut)
	}
	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	return GetAmountIn(amountOut, reserveIn, reserveOut, k.GetParams(ctx).SwapFeeBps)
}

// GetSpotPrice returns the marginal price of base in terms of the other pool
// denom, before fees.
func (k Keeper) GetSpotPrice(ctx context.Context, poolID uint64, base string) (math.LegacyDec, error) {
	pool, found := k.GetPool(ctx, poolID)
	if !found {
		return math.LegacyDec{}, types.ErrPairNotFound.Wrapf("pool %d", poolID)
	}
	if !pool.HasDenom(base) {
		return math.LegacyDec{}, types.ErrInvalidInput.Wrapf("denom %s not in pool %d", base, poolID)
	}
	reserveBase, reserveQuote := orientReserves(pool, base)
	if reserveBase.IsZero() {
		return math.LegacyDec{}, types.ErrInsufficientLiquidity.Wrap("empty pool")
	}
	return math.LegacyNewDecFromInt(reserveQuote).Quo(math.LegacyNewDecFromInt(reserveBase)), nil
}

// orientReserves returns (reserveIn, reserveOut) for the given input denom.
func orientReserves(pool types.Pool, tokenIn string) (math.Int, math.Int) {
	if tokenIn == pool.TokenA {
		return pool.ReserveA, pool.ReserveB
	}
	return pool.ReserveB, pool.ReserveA
}

// executeSwap settles a swap against one pool: collects the input, pays the
// output, and commits the reserve update once the constant-product check on
// fee-adjusted balances passes.
func (k Keeper) executeSwap(
	ctx context.Context,
	pool *types.Pool,
	trader, recipient sdk.AccAddress,
	tokenIn string, amountIn math.Int,
	tokenOut string, amountOut math.Int,
) error {
	if pool.Locked {
		return types.ErrReentrancy.Wrapf("pool %d is locked by an active loan", pool.Id)
	}

	var amountAIn, amountBIn, amountAOut, amountBOut math.Int
	if tokenIn == pool.TokenA {
		amountAIn, amountBIn = amountIn, math.ZeroInt()
		amountAOut, amountBOut = math.ZeroInt(), amountOut
	} else {
		amountAIn, amountBIn = math.ZeroInt(), amountIn
		amountAOut, amountBOut = amountOut, math.ZeroInt()
	}
	if amountAOut.GTE(pool.ReserveA.Add(amountAIn)) || amountBOut.GTE(pool.ReserveB.Add(amountBIn)) {
		return types.ErrInsufficientLiquidity.Wrap("output exceeds pool balance")
	}

	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, trader, types.ModuleName,
		sdk.NewCoins(sdk.NewCoin(tokenIn, amountIn))); err != nil {
		return err
	}
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, recipient,
		sdk.NewCoins(sdk.NewCoin(tokenOut, amountOut))); err != nil {
		return err
	}

	balanceA := pool.ReserveA.Add(amountAIn).Sub(amountAOut)
	balanceB := pool.ReserveB.Add(amountBIn).Sub(amountBOut)
	feeBps := k.GetParams(ctx).SwapFeeBps
	if err := checkConstantProduct(pool.ReserveA, pool.ReserveB, balanceA, balanceB, amountAIn, amountBIn, feeBps); err != nil {
		return err
	}

	k.updateReserves(ctx, pool, balanceA, balanceB)
	k.SetPool(ctx, *pool)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwap,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeySender, trader.String()),
			sdk.NewAttribute(types.AttributeKeyRecipient, recipient.String()),
			sdk.NewAttribute(types.AttributeKeyAmountAIn, amountAIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountBIn, amountBIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountAOut, amountAOut.String()),
			sdk.NewAttribute(types.AttributeKeyAmountBOut, amountBOut.String()),
		),
	)
	k.Logger(ctx).Info("swap",
		"pool_id", pool.Id, "trader", trader.String(),
		"token_in", tokenIn, "amount_in", amountIn.String(),
		"token_out", tokenOut, "amount_out", amountOut.String())
	recordSwap(tokenIn, tokenOut)

	return nil
}

// checkConstantProduct verifies k did not shrink, comparing fee-adjusted
// post-swap balances against the pre-swap reserves. Balances are scaled by
// the bps denominator so the fee deduction stays integral.
func checkConstantProduct(reserveA, reserveB, balanceA, balanceB, amountAIn, amountBIn math.Int, feeBps uint64) error {
	bps := math.NewIntFromUint64(types.BpsDenominator)
	fee := math.NewIntFromUint64(feeBps)

	adjustedA, err := SafeMul(balanceA, bps)
	if err != nil {
		return err
	}
	adjustedA = adjustedA.Sub(amountAIn.Mul(fee))

	adjustedB, err := SafeMul(balanceB, bps)
	if err != nil {
		return err
	}
	adjustedB = adjustedB.Sub(amountBIn.Mul(fee))

	newK, err := SafeMul(adjustedA, adjustedB)
	if err != nil {
		return err
	}
	oldK, err := SafeMul(reserveA, reserveB)
	if err != nil {
		return err
	}
	oldK, err = SafeMul(oldK, bps.Mul(bps))
	if err != nil {
		return err
	}
	if newK.LT(oldK) {
		return types.ErrKInvariant.Wrapf("constant product decreased: %s < %s", newK, oldK)
	}
	return nil
}
