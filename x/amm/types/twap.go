package types

import "cosmossdk.io/math"

// TWAPRecord is one sample of a pool's price accumulators. Two samples
// differenced and divided by the elapsed milliseconds give the
// time-weighted average price over the window in 64.64 fixed point.
type TWAPRecord struct {
	PoolId           uint64   `json:"pool_id"`
	PriceACumulative math.Int `json:"price_a_cumulative"`
	PriceBCumulative math.Int `json:"price_b_cumulative"`
	TimestampMs      int64    `json:"timestamp_ms"`
}
