package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// mintProtocolFee settles the protocol's cut of trading fees accrued since
// the last liquidity event. Growth of sqrt(k) beyond the recorded kLast is
// trading-fee income; a slice of it is minted as shares into the pool's
// FeeShares balance, diluting providers by exactly the protocol's share:
//
//	minted = S * (rootK - rootKLast) / (rootK*denominator + rootKLast)
//
// When the protocol fee is disabled, a stale kLast is cleared so re-enabling
// never charges for growth that happened while disabled.
func (k Keeper) mintProtocolFee(ctx context.Context, pool *types.Pool) error {
	params := k.GetParams(ctx)
	if !params.ProtocolFeeEnabled {
		if !pool.KLast.IsZero() {
			pool.KLast = math.ZeroInt()
		}
		return nil
	}
	if pool.KLast.IsZero() || pool.TotalShares.IsZero() {
		return nil
	}

	rootK := IntegerSqrt(pool.ReserveA, pool.ReserveB)
	rootKLast := sqrtInt(pool.KLast)
	if rootK.LTE(rootKLast) {
		return nil
	}

	numerator, err := SafeMul(pool.TotalShares, rootK.Sub(rootKLast))
	if err != nil {
		return err
	}
	scaled, err := SafeMul(rootK, math.NewIntFromUint64(params.ProtocolFeeDenominator))
	if err != nil {
		return err
	}
	minted := numerator.Quo(scaled.Add(rootKLast))
	if !minted.IsPositive() {
		return nil
	}

	pool.TotalShares = pool.TotalShares.Add(minted)
	pool.FeeShares = pool.FeeShares.Add(minted)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProtocolFeeAccrued,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeyShares, minted.String()),
			sdk.NewAttribute(types.AttributeKeyTotalShares, pool.TotalShares.String()),
		),
	)
	k.Logger(ctx).Debug("protocol fee accrued",
		"pool_id", pool.Id, "shares", minted.String())
	return nil
}

// refreshKLast records the reserve product as the new fee baseline, or
// clears it while the protocol fee is disabled. Called after every
// liquidity-changing operation so fee accrual measures only swap-driven
// growth between liquidity events.
func (k Keeper) refreshKLast(ctx context.Context, pool *types.Pool) error {
	if !k.GetParams(ctx).ProtocolFeeEnabled {
		pool.KLast = math.ZeroInt()
		return nil
	}
	kLast, err := SafeMul(pool.ReserveA, pool.ReserveB)
	if err != nil {
		return err
	}
	pool.KLast = kLast
	return nil
}

// WithdrawProtocolFees moves a pool's accrued protocol fee shares, less the
// permanently locked floor, into the fee recipient's share ledger entry.
// Only the configured fee recipient may withdraw.
func (k Keeper) WithdrawProtocolFees(ctx context.Context, caller sdk.AccAddress, poolID uint64) (math.Int, error) {
	params := k.GetParams(ctx)
	if params.FeeRecipient == "" || caller.String() != params.FeeRecipient {
		return math.Int{}, types.ErrForbidden.Wrap("caller is not the fee recipient")
	}
	pool, found := k.GetPool(ctx, poolID)
	if !found {
		return math.Int{}, types.ErrPairNotFound.Wrapf("pool %d", poolID)
	}
	if pool.Locked {
		return math.Int{}, types.ErrReentrancy.Wrapf("pool %d is locked by an active loan", poolID)
	}

	if err := k.mintProtocolFee(ctx, &pool); err != nil {
		return math.Int{}, err
	}

	available := pool.FeeShares.SubRaw(types.MinimumLiquidity)
	if !available.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf(
			"pool %d has no withdrawable protocol fee shares", poolID)
	}

	pool.FeeShares = math.NewInt(types.MinimumLiquidity)
	k.SetLiquidity(ctx, poolID, caller, k.GetLiquidity(ctx, poolID, caller).Add(available))
	if err := k.refreshKLast(ctx, &pool); err != nil {
		return math.Int{}, err
	}
	k.SetPool(ctx, pool)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeProtocolFeeWithdrawn,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyRecipient, caller.String()),
			sdk.NewAttribute(types.AttributeKeyShares, available.String()),
		),
	)
	k.Logger(ctx).Info("protocol fees withdrawn",
		"pool_id", poolID, "recipient", caller.String(), "shares", available.String())

	return available, nil
}
