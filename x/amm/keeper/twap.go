package keeper

import (
	"context"
	"fmt"
	"math/big"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// twoPow128 bounds the price accumulators; they wrap modulo 2^128 and are
// only ever consumed as the difference of two samples.
var twoPow128 = new(big.Int).Lsh(big.NewInt(1), 128)

// updateReserves advances the pool's price accumulators over the time the
// old reserves were in effect, then commits the new reserves. Accumulation
// uses pre-operation reserves, so intra-block mutations (elapsed 0) add
// nothing. The caller persists the pool.
func (k Keeper) updateReserves(ctx context.Context, pool *types.Pool, newReserveA, newReserveB math.Int) {
	now := blockTimeMs(ctx)
	elapsed := now - pool.LastTimestampMs
	if elapsed > 0 && pool.ReserveA.IsPositive() && pool.ReserveB.IsPositive() {
		pool.PriceACumulative = accumulatePrice(pool.PriceACumulative, pool.ReserveB, pool.ReserveA, elapsed)
		pool.PriceBCumulative = accumulatePrice(pool.PriceBCumulative, pool.ReserveA, pool.ReserveB, elapsed)
	}
	pool.LastTimestampMs = now
	pool.ReserveA = newReserveA
	pool.ReserveB = newReserveB

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSync,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeyReserveA, pool.ReserveA.String()),
			sdk.NewAttribute(types.AttributeKeyReserveB, pool.ReserveB.String()),
			sdk.NewAttribute(types.AttributeKeyPriceACumulative, pool.PriceACumulative.String()),
			sdk.NewAttribute(types.AttributeKeyPriceBCumulative, pool.PriceBCumulative.String()),
			sdk.NewAttribute(types.AttributeKeyTimestampMs, fmt.Sprintf("%d", now)),
		),
	)
}

// accumulatePrice adds price * elapsed to an accumulator, where price is the
// 64.64 fixed-point ratio reserveOther/reserve, wrapping modulo 2^128.
func accumulatePrice(acc math.Int, reserveOther, reserve math.Int, elapsedMs int64) math.Int {
	delta := new(big.Int).Lsh(reserveOther.BigInt(), 64)
	delta.Quo(delta, reserve.BigInt())
	delta.Mul(delta, big.NewInt(elapsedMs))
	delta.Add(delta, acc.BigInt())
	delta.Mod(delta, twoPow128)
	return math.NewIntFromBigInt(delta)
}

// GetTWAPRecord returns a pool's accumulator sample projected to the current
// block time, without persisting anything. Accumulation is lazy (quiet pools
// only write on the next operation), so the projection extends the stored
// sample at the standing price, keeping samples well-defined however long
// the pool sits idle. Consumers difference two samples and divide by
// the elapsed milliseconds to obtain the time-weighted average price in
// 64.64 fixed point.
func (k Keeper) GetTWAPRecord(ctx context.Context, poolID uint64) (types.TWAPRecord, error) {
	pool, found := k.GetPool(ctx, poolID)
	if !found {
		return types.TWAPRecord{}, types.ErrPairNotFound.Wrapf("pool %d", poolID)
	}
	record := types.TWAPRecord{
		PoolId:           pool.Id,
		PriceACumulative: pool.PriceACumulative,
		PriceBCumulative: pool.PriceBCumulative,
		TimestampMs:      pool.LastTimestampMs,
	}
	now := blockTimeMs(ctx)
	elapsed := now - pool.LastTimestampMs
	if elapsed > 0 && pool.ReserveA.IsPositive() && pool.ReserveB.IsPositive() {
		record.PriceACumulative = accumulatePrice(record.PriceACumulative, pool.ReserveB, pool.ReserveA, elapsed)
		record.PriceBCumulative = accumulatePrice(record.PriceBCumulative, pool.ReserveA, pool.ReserveB, elapsed)
		record.TimestampMs = now
	}
	return record, nil
}
