package keeper

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// GetNextPoolID returns the next pool id to assign. IDs start at 1.
func (k Keeper) GetNextPoolID(ctx context.Context) uint64 {
	store := k.getStore(ctx)
	bz := store.Get(NextPoolIDKey)
	if bz == nil {
		return 1
	}
	return binary.BigEndian.Uint64(bz)
}

// SetNextPoolID stores the next pool id to assign.
func (k Keeper) SetNextPoolID(ctx context.Context, next uint64) {
	store := k.getStore(ctx)
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, next)
	store.Set(NextPoolIDKey, bz)
}

// SetPool persists a pool record and keeps the pair index pointing at it.
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) {
	store := k.getStore(ctx)
	bz, err := json.Marshal(pool)
	if err != nil {
		panic(fmt.Errorf("marshal pool %d: %w", pool.Id, err))
	}
	store.Set(PoolKey(pool.Id), bz)

	idBz := make([]byte, 8)
	binary.BigEndian.PutUint64(idBz, pool.Id)
	store.Set(PoolByDenomsKey(pool.TokenA, pool.TokenB), idBz)
}

// GetPool returns a pool by id.
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, bool) {
	store := k.getStore(ctx)
	bz := store.Get(PoolKey(poolID))
	if bz == nil {
		return types.Pool{}, false
	}
	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		panic(fmt.Errorf("unmarshal pool %d: %w", poolID, err))
	}
	return pool, true
}

// GetPoolByDenoms resolves the pool for an unordered denom pair.
func (k Keeper) GetPoolByDenoms(ctx context.Context, denomX, denomY string) (types.Pool, bool) {
	tokenA, tokenB := denomX, denomY
	if !CanonicalOrder(tokenA, tokenB) {
		tokenA, tokenB = tokenB, tokenA
	}
	store := k.getStore(ctx)
	bz := store.Get(PoolByDenomsKey(tokenA, tokenB))
	if bz == nil {
		return types.Pool{}, false
	}
	return k.GetPool(ctx, binary.BigEndian.Uint64(bz))
}

// IteratePools visits every pool in id order until cb returns true.
func (k Keeper) IteratePools(ctx context.Context, cb func(types.Pool) bool) {
	store := k.getStore(ctx)
	iterator := storetypes.KVStorePrefixIterator(store, PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			panic(fmt.Errorf("unmarshal pool record: %w", err))
		}
		if cb(pool) {
			break
		}
	}
}

// GetAllPools returns every pool in id order.
func (k Keeper) GetAllPools(ctx context.Context) []types.Pool {
	var pools []types.Pool
	k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools
}

// CreatePair registers an empty pool for a canonically ordered denom pair
// and returns it. The pair must not already have a pool.
func (k Keeper) CreatePair(ctx context.Context, creator sdk.AccAddress, tokenA, tokenB string) (types.Pool, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return types.Pool{}, err
	}
	if err := sdk.ValidateDenom(tokenA); err != nil {
		return types.Pool{}, types.ErrInvalidInput.Wrapf("token a: %s", err)
	}
	if err := sdk.ValidateDenom(tokenB); err != nil {
		return types.Pool{}, types.ErrInvalidInput.Wrapf("token b: %s", err)
	}
	if !CanonicalOrder(tokenA, tokenB) {
		return types.Pool{}, types.ErrPairOrder.Wrapf("%s must sort before %s", tokenA, tokenB)
	}
	if _, found := k.GetPoolByDenoms(ctx, tokenA, tokenB); found {
		return types.Pool{}, types.ErrPairExists.Wrapf("pool for %s/%s exists", tokenA, tokenB)
	}

	poolID := k.GetNextPoolID(ctx)
	pool := types.NewPool(poolID, tokenA, tokenB)
	pool.LastTimestampMs = blockTimeMs(ctx)
	k.SetPool(ctx, pool)
	k.SetNextPoolID(ctx, poolID+1)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeCreatePool,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", poolID)),
			sdk.NewAttribute(types.AttributeKeyTokenA, tokenA),
			sdk.NewAttribute(types.AttributeKeyTokenB, tokenB),
			sdk.NewAttribute(types.AttributeKeyCreator, creator.String()),
		),
	)
	k.Logger(ctx).Info("created pool", "pool_id", poolID, "token_a", tokenA, "token_b", tokenB)
	recordPoolCreated(tokenA, tokenB)

	return pool, nil
}
