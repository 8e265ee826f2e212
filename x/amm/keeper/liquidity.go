package keeper

import (
	"context"
	"encoding/binary"
	"fmt"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// GetLiquidity returns the share balance a provider holds in a pool.
func (k Keeper) GetLiquidity(ctx context.Context, poolID uint64, provider sdk.AccAddress) math.Int {
	store := k.getStore(ctx)
	bz := store.Get(ShareKey(poolID, provider))
	if bz == nil {
		return math.ZeroInt()
	}
	var shares math.Int
	if err := shares.Unmarshal(bz); err != nil {
		panic(fmt.Errorf("unmarshal share balance: %w", err))
	}
	return shares
}

// SetLiquidity stores a provider's share balance, clearing the entry at zero.
func (k Keeper) SetLiquidity(ctx context.Context, poolID uint64, provider sdk.AccAddress, shares math.Int) {
	store := k.getStore(ctx)
	key := ShareKey(poolID, provider)
	if shares.IsZero() {
		store.Delete(key)
		return
	}
	bz, err := shares.Marshal()
	if err != nil {
		panic(fmt.Errorf("marshal share balance: %w", err))
	}
	store.Set(key, bz)
}

// IterateShares visits every share ledger entry until cb returns true.
func (k Keeper) IterateShares(ctx context.Context, cb func(poolID uint64, provider sdk.AccAddress, shares math.Int) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, ShareKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		key := iterator.Key()[len(ShareKeyPrefix):]
		poolID := binary.BigEndian.Uint64(key[:8])
		provider := sdk.AccAddress(key[8:])

		var shares math.Int
		if err := shares.Unmarshal(iterator.Value()); err != nil {
			panic(fmt.Errorf("unmarshal share balance: %w", err))
		}
		if cb(poolID, provider, shares) {
			break
		}
	}
}

// AddLiquidity deposits a proportional amount of both pool denoms and mints
// shares. Desired amounts cap the deposit; min amounts bound how far the
// ratio match may reduce either side. Returns the amounts actually deposited
// and the shares minted.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenA, tokenB string,
	amountADesired, amountBDesired, amountAMin, amountBMin math.Int,
) (amountA, amountB, minted math.Int, err error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	if !CanonicalOrder(tokenA, tokenB) {
		tokenA, tokenB = tokenB, tokenA
		amountADesired, amountBDesired = amountBDesired, amountADesired
		amountAMin, amountBMin = amountBMin, amountAMin
	}
	pool, found := k.GetPoolByDenoms(ctx, tokenA, tokenB)
	if !found {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenA, tokenB)
	}
	if !amountADesired.IsPositive() || !amountBDesired.IsPositive() {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrInvalidInput.Wrap("desired amounts must be positive")
	}
	if pool.Locked {
		return math.Int{}, math.Int{}, math.Int{}, types.ErrReentrancy.Wrapf("pool %d is locked by an active loan", pool.Id)
	}

	if err := k.mintProtocolFee(ctx, &pool); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	amountA, amountB, err = matchDepositRatio(pool, amountADesired, amountBDesired, amountAMin, amountBMin)
	if err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	deposit := sdk.NewCoins(sdk.NewCoin(tokenA, amountA), sdk.NewCoin(tokenB, amountB))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, provider, types.ModuleName, deposit); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}

	if pool.TotalShares.IsZero() {
		root := IntegerSqrt(amountA, amountB)
		minted = root.SubRaw(types.MinimumLiquidity)
		if !minted.IsPositive() {
			return math.Int{}, math.Int{}, math.Int{}, types.ErrInsufficientLiquidityMinted.Wrapf(
				"initial deposit sqrt %s does not cover the locked floor", root)
		}
		pool.TotalShares = root
		pool.FeeShares = math.NewInt(types.MinimumLiquidity)
	} else {
		byA, err := SafeMulDiv(amountA, pool.TotalShares, pool.ReserveA)
		if err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		byB, err := SafeMulDiv(amountB, pool.TotalShares, pool.ReserveB)
		if err != nil {
			return math.Int{}, math.Int{}, math.Int{}, err
		}
		minted = math.MinInt(byA, byB)
		if !minted.IsPositive() {
			return math.Int{}, math.Int{}, math.Int{}, types.ErrInsufficientLiquidityMinted.Wrap(
				"deposit too small for current share supply")
		}
		pool.TotalShares = pool.TotalShares.Add(minted)
	}

	k.SetLiquidity(ctx, pool.Id, provider, k.GetLiquidity(ctx, pool.Id, provider).Add(minted))
	k.updateReserves(ctx, &pool, pool.ReserveA.Add(amountA), pool.ReserveB.Add(amountB))
	if err := k.refreshKLast(ctx, &pool); err != nil {
		return math.Int{}, math.Int{}, math.Int{}, err
	}
	k.SetPool(ctx, pool)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeAddLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
			sdk.NewAttribute(types.AttributeKeyShares, minted.String()),
			sdk.NewAttribute(types.AttributeKeyTotalShares, pool.TotalShares.String()),
		),
	)
	k.Logger(ctx).Info("added liquidity",
		"pool_id", pool.Id, "provider", provider.String(),
		"amount_a", amountA.String(), "amount_b", amountB.String(), "shares", minted.String())
	recordLiquidityChange("add")

	return amountA, amountB, minted, nil
}

// matchDepositRatio fits the desired amounts to the pool's reserve ratio.
// An empty pool accepts both desired amounts as-is.
func matchDepositRatio(pool types.Pool, amountADesired, amountBDesired, amountAMin, amountBMin math.Int) (math.Int, math.Int, error) {
	if pool.ReserveA.IsZero() && pool.ReserveB.IsZero() {
		return amountADesired, amountBDesired, nil
	}

	amountBOptimal, err := Quote(amountADesired, pool.ReserveA, pool.ReserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amountBOptimal.LTE(amountBDesired) {
		if amountBOptimal.LT(amountBMin) {
			return math.Int{}, math.Int{}, types.ErrInsufficientBAmount.Wrapf(
				"ratio match gives %s, below minimum %s", amountBOptimal, amountBMin)
		}
		return amountADesired, amountBOptimal, nil
	}

	amountAOptimal, err := Quote(amountBDesired, pool.ReserveB, pool.ReserveA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amountAOptimal.GT(amountADesired) {
		return math.Int{}, math.Int{}, types.ErrInvalidState.Wrap("ratio match exceeded both desired amounts")
	}
	if amountAOptimal.LT(amountAMin) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAAmount.Wrapf(
			"ratio match gives %s, below minimum %s", amountAOptimal, amountAMin)
	}
	return amountAOptimal, amountBDesired, nil
}

// RemoveLiquidity burns shares and pays out the pro-rata portion of both
// reserves. Min amounts protect the provider against ratio movement between
// signing and execution.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	tokenA, tokenB string,
	shares, amountAMin, amountBMin math.Int,
) (amountA, amountB math.Int, err error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !CanonicalOrder(tokenA, tokenB) {
		tokenA, tokenB = tokenB, tokenA
		amountAMin, amountBMin = amountBMin, amountAMin
	}
	pool, found := k.GetPoolByDenoms(ctx, tokenA, tokenB)
	if !found {
		return math.Int{}, math.Int{}, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenA, tokenB)
	}
	if shares.IsNil() || !shares.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInvalidInput.Wrap("shares must be positive")
	}

	if pool.Locked {
		return math.Int{}, math.Int{}, types.ErrReentrancy.Wrapf("pool %d is locked by an active loan", pool.Id)
	}

	held := k.GetLiquidity(ctx, pool.Id, provider)
	if held.LT(shares) {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf(
			"share balance %s below requested %s", held, shares)
	}

	if err := k.mintProtocolFee(ctx, &pool); err != nil {
		return math.Int{}, math.Int{}, err
	}

	amountA, err = SafeMulDiv(shares, pool.ReserveA, pool.TotalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	amountB, err = SafeMulDiv(shares, pool.ReserveB, pool.TotalShares)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !amountA.IsPositive() || !amountB.IsPositive() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrap("burn yields a zero amount")
	}
	if amountA.LT(amountAMin) {
		return math.Int{}, math.Int{}, types.ErrInsufficientAAmount.Wrapf(
			"burn gives %s, below minimum %s", amountA, amountAMin)
	}
	if amountB.LT(amountBMin) {
		return math.Int{}, math.Int{}, types.ErrInsufficientBAmount.Wrapf(
			"burn gives %s, below minimum %s", amountB, amountBMin)
	}

	k.SetLiquidity(ctx, pool.Id, provider, held.Sub(shares))
	pool.TotalShares = pool.TotalShares.Sub(shares)

	payout := sdk.NewCoins(sdk.NewCoin(tokenA, amountA), sdk.NewCoin(tokenB, amountB))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, provider, payout); err != nil {
		return math.Int{}, math.Int{}, err
	}

	k.updateReserves(ctx, &pool, pool.ReserveA.Sub(amountA), pool.ReserveB.Sub(amountB))
	if err := k.refreshKLast(ctx, &pool); err != nil {
		return math.Int{}, math.Int{}, err
	}
	k.SetPool(ctx, pool)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeRemoveLiquidity,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, amountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, amountB.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
			sdk.NewAttribute(types.AttributeKeyTotalShares, pool.TotalShares.String()),
		),
	)
	k.Logger(ctx).Info("removed liquidity",
		"pool_id", pool.Id, "provider", provider.String(),
		"amount_a", amountA.String(), "amount_b", amountB.String(), "shares", shares.String())
	recordLiquidityChange("remove")

	return amountA, amountB, nil
}
