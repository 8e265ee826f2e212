package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// ShareRecord is one provider's liquidity-share balance in one pool.
type ShareRecord struct {
	PoolId   uint64   `json:"pool_id"`
	Provider string   `json:"provider"`
	Shares   math.Int `json:"shares"`
}

// GenesisState is the AMM module's exported state.
type GenesisState struct {
	Params     Params        `json:"params"`
	Paused     bool          `json:"paused"`
	Pools      []Pool        `json:"pools"`
	NextPoolId uint64        `json:"next_pool_id"`
	Shares     []ShareRecord `json:"shares"`
}

// DefaultGenesis returns the default genesis state for the AMM module.
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		Paused:     false,
		Pools:      []Pool{},
		NextPoolId: 1,
		Shares:     []ShareRecord{},
	}
}

// Validate ensures the genesis state is well-formed.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}

	seenIDs := make(map[uint64]struct{}, len(gs.Pools))
	seenPairs := make(map[string]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return err
		}
		if pool.Id >= gs.NextPoolId {
			return fmt.Errorf("pool %d: id not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if _, ok := seenIDs[pool.Id]; ok {
			return fmt.Errorf("duplicate pool id %d", pool.Id)
		}
		seenIDs[pool.Id] = struct{}{}

		pair := pool.TokenA + "/" + pool.TokenB
		if _, ok := seenPairs[pair]; ok {
			return fmt.Errorf("duplicate pool for pair %s", pair)
		}
		seenPairs[pair] = struct{}{}
	}

	held := make(map[uint64]math.Int, len(gs.Pools))
	for _, rec := range gs.Shares {
		if _, ok := seenIDs[rec.PoolId]; !ok {
			return fmt.Errorf("share record references unknown pool %d", rec.PoolId)
		}
		if _, err := sdk.AccAddressFromBech32(rec.Provider); err != nil {
			return fmt.Errorf("share record for pool %d: invalid provider: %w", rec.PoolId, err)
		}
		if rec.Shares.IsNil() || !rec.Shares.IsPositive() {
			return fmt.Errorf("share record for pool %d: shares must be positive", rec.PoolId)
		}
		sum, ok := held[rec.PoolId]
		if !ok {
			sum = math.ZeroInt()
		}
		held[rec.PoolId] = sum.Add(rec.Shares)
	}

	// Provider holdings plus the pool-retained bucket must account for the
	// full share supply.
	for _, pool := range gs.Pools {
		sum, ok := held[pool.Id]
		if !ok {
			sum = math.ZeroInt()
		}
		if !sum.Add(pool.FeeShares).Equal(pool.TotalShares) {
			return fmt.Errorf("pool %d: share records %s + fee shares %s != total shares %s",
				pool.Id, sum, pool.FeeShares, pool.TotalShares)
		}
	}
	return nil
}
