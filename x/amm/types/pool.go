package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// Pool is the state of one constant-product market for a canonical token
// pair (TokenA < TokenB lexicographically).
type Pool struct {
	Id     uint64 `json:"id"`
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`

	ReserveA math.Int `json:"reserve_a"`
	ReserveB math.Int `json:"reserve_b"`

	// TotalShares is the outstanding liquidity-share supply, tracked as a
	// mint/burn counter. Holder balances live in the module share ledger.
	TotalShares math.Int `json:"total_shares"`

	// FeeShares is the pool-retained share bucket: the permanently locked
	// MinimumLiquidity floor plus protocol-fee shares not yet withdrawn.
	FeeShares math.Int `json:"fee_shares"`

	// KLast is reserveA*reserveB recorded after the last protocol-fee mint.
	// Zero means no protocol fee is pending.
	KLast math.Int `json:"k_last"`

	// Cumulative prices are 128-bit fixed-point accumulators that wrap
	// modulo 2^128. Consumers difference two samples, so wrap is harmless.
	PriceACumulative math.Int `json:"price_a_cumulative"`
	PriceBCumulative math.Int `json:"price_b_cumulative"`

	// LastTimestampMs is the block time of the last accumulator update, in
	// milliseconds.
	LastTimestampMs int64 `json:"last_timestamp_ms"`

	// Locked is true only strictly between a flash borrow and its repay.
	Locked bool `json:"locked"`
}

// NewPool returns an empty pool for a canonical token pair.
func NewPool(id uint64, tokenA, tokenB string) Pool {
	return Pool{
		Id:               id,
		TokenA:           tokenA,
		TokenB:           tokenB,
		ReserveA:         math.ZeroInt(),
		ReserveB:         math.ZeroInt(),
		TotalShares:      math.ZeroInt(),
		FeeShares:        math.ZeroInt(),
		KLast:            math.ZeroInt(),
		PriceACumulative: math.ZeroInt(),
		PriceBCumulative: math.ZeroInt(),
		LastTimestampMs:  0,
		Locked:           false,
	}
}

// HasDenom reports whether denom is one of the pool's two tokens.
func (p Pool) HasDenom(denom string) bool {
	return denom == p.TokenA || denom == p.TokenB
}

// Validate checks structural pool integrity.
func (p Pool) Validate() error {
	if p.Id == 0 {
		return fmt.Errorf("pool id cannot be zero")
	}
	if p.TokenA == "" || p.TokenB == "" {
		return fmt.Errorf("pool %d: empty token denom", p.Id)
	}
	if p.TokenA >= p.TokenB {
		return fmt.Errorf("pool %d: tokens %s/%s not in canonical order", p.Id, p.TokenA, p.TokenB)
	}
	for name, v := range map[string]math.Int{
		"reserve_a":    p.ReserveA,
		"reserve_b":    p.ReserveB,
		"total_shares": p.TotalShares,
		"fee_shares":   p.FeeShares,
		"k_last":       p.KLast,
	} {
		if v.IsNil() || v.IsNegative() {
			return fmt.Errorf("pool %d: %s is nil or negative", p.Id, name)
		}
	}
	if p.PriceACumulative.IsNil() || p.PriceBCumulative.IsNil() {
		return fmt.Errorf("pool %d: nil price accumulator", p.Id)
	}
	if p.FeeShares.GT(p.TotalShares) {
		return fmt.Errorf("pool %d: fee shares exceed total shares", p.Id)
	}
	return nil
}
