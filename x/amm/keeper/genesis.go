package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// InitGenesis initializes module state from a genesis state.
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("invalid genesis state: %w", err)
	}
	if err := k.SetParams(ctx, genState.Params); err != nil {
		return fmt.Errorf("set params: %w", err)
	}
	k.setPaused(ctx, genState.Paused)
	k.SetNextPoolID(ctx, genState.NextPoolId)

	for _, pool := range genState.Pools {
		k.SetPool(ctx, pool)
	}
	for _, rec := range genState.Shares {
		provider, err := sdk.AccAddressFromBech32(rec.Provider)
		if err != nil {
			return fmt.Errorf("share record for pool %d: %w", rec.PoolId, err)
		}
		k.SetLiquidity(ctx, rec.PoolId, provider, rec.Shares)
	}
	return nil
}

// ExportGenesis exports module state to a genesis state.
func (k Keeper) ExportGenesis(ctx context.Context) *types.GenesisState {
	genState := &types.GenesisState{
		Params:     k.GetParams(ctx),
		Paused:     k.IsPaused(ctx),
		Pools:      k.GetAllPools(ctx),
		NextPoolId: k.GetNextPoolID(ctx),
	}
	k.IterateShares(ctx, func(poolID uint64, provider sdk.AccAddress, shares math.Int) bool {
		genState.Shares = append(genState.Shares, types.ShareRecord{
			PoolId:   poolID,
			Provider: provider.String(),
			Shares:   shares,
		})
		return false
	})
	return genState
}
