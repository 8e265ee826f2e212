package keeper

import (
	"context"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// SwapExactInRoute executes a two-hop exact-input trade along path[0] ->
// path[1] -> path[2]. Each hop settles against its own pool; the slippage
// bound applies to the final output only. A failed hop aborts the whole
// message, so no partial route survives.
func (k Keeper) SwapExactInRoute(
	ctx context.Context,
	trader sdk.AccAddress,
	path []string,
	amountIn, minAmountOut math.Int,
) (math.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, err
	}
	if err := validateHops(path); err != nil {
		return math.Int{}, err
	}

	intermediate, err := k.routeHopExactIn(ctx, trader, path[0], amountIn, path[1])
	if err != nil {
		return math.Int{}, err
	}
	amountOut, err := k.routeHopExactIn(ctx, trader, path[1], intermediate, path[2])
	if err != nil {
		return math.Int{}, err
	}
	if amountOut.LT(minAmountOut) {
		return math.Int{}, types.ErrInsufficientOutputAmount.Wrapf(
			"route output %s below minimum %s", amountOut, minAmountOut)
	}
	return amountOut, nil
}

// SwapExactOutRoute executes a two-hop exact-output trade. Required inputs
// are derived backwards from the target output, the input bound is checked
// up front, then the hops settle in forward order.
func (k Keeper) SwapExactOutRoute(
	ctx context.Context,
	trader sdk.AccAddress,
	path []string,
	amountOut, maxAmountIn math.Int,
) (math.Int, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, err
	}
	if err := validateHops(path); err != nil {
		return math.Int{}, err
	}

	feeBps := k.GetParams(ctx).SwapFeeBps

	poolSecond, found := k.GetPoolByDenoms(ctx, path[1], path[2])
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", path[1], path[2])
	}
	reserveIn, reserveOut := orientReserves(poolSecond, path[1])
	intermediate, err := GetAmountIn(amountOut, reserveIn, reserveOut, feeBps)
	if err != nil {
		return math.Int{}, err
	}

	poolFirst, found := k.GetPoolByDenoms(ctx, path[0], path[1])
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", path[0], path[1])
	}
	reserveIn, reserveOut = orientReserves(poolFirst, path[0])
	amountIn, err := GetAmountIn(intermediate, reserveIn, reserveOut, feeBps)
	if err != nil {
		return math.Int{}, err
	}
	if amountIn.GT(maxAmountIn) {
		return math.Int{}, types.ErrInsufficientInputAmount.Wrapf(
			"route requires %s, above maximum %s", amountIn, maxAmountIn)
	}

	if err := k.executeSwap(ctx, &poolFirst, trader, trader, path[0], amountIn, path[1], intermediate); err != nil {
		return math.Int{}, err
	}
	// Re-fetch: a route that revisits its first pair must see hop one's
	// reserve update.
	poolSecond, _ = k.GetPoolByDenoms(ctx, path[1], path[2])
	if err := k.executeSwap(ctx, &poolSecond, trader, trader, path[1], intermediate, path[2], amountOut); err != nil {
		return math.Int{}, err
	}
	return amountIn, nil
}

// SimulateRouteExactIn quotes a two-hop exact-input trade without touching
// state.
func (k Keeper) SimulateRouteExactIn(ctx context.Context, path []string, amountIn math.Int) (math.Int, error) {
	if err := validateHops(path); err != nil {
		return math.Int{}, err
	}
	intermediate, err := k.SimulateSwapExactIn(ctx, path[0], amountIn, path[1])
	if err != nil {
		return math.Int{}, err
	}
	return k.SimulateSwapExactIn(ctx, path[1], intermediate, path[2])
}

// routeHopExactIn settles one exact-input hop against its pool and returns
// the output passed to the next hop.
func (k Keeper) routeHopExactIn(ctx context.Context, trader sdk.AccAddress, tokenIn string, amountIn math.Int, tokenOut string) (math.Int, error) {
	pool, found := k.GetPoolByDenoms(ctx, tokenIn, tokenOut)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenIn, tokenOut)
	}
	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountOut, err := GetAmountOut(amountIn, reserveIn, reserveOut, k.GetParams(ctx).SwapFeeBps)
	if err != nil {
		return math.Int{}, err
	}
	if err := k.executeSwap(ctx, &pool, trader, trader, tokenIn, amountIn, tokenOut, amountOut); err != nil {
		return math.Int{}, err
	}
	return amountOut, nil
}

func validateHops(path []string) error {
	if len(path) != types.RouteLength {
		return types.ErrInvalidInput.Wrapf("route must have exactly %d denoms, got %d", types.RouteLength, len(path))
	}
	for i, denom := range path {
		if err := sdk.ValidateDenom(denom); err != nil {
			return types.ErrInvalidInput.Wrapf("route denom %d: %s", i, err)
		}
	}
	if path[0] == path[1] || path[1] == path[2] {
		return types.ErrInvalidInput.Wrap("consecutive route denoms must differ")
	}
	return nil
}
