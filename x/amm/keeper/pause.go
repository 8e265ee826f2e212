package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// IsPaused reports whether the module-wide halt flag is set.
func (k Keeper) IsPaused(ctx context.Context) bool {
	return k.getStore(ctx).Has(PausedKey)
}

// Pause halts every state-changing pool operation until Unpause. Admin only.
func (k Keeper) Pause(ctx context.Context, caller sdk.AccAddress) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	k.getStore(ctx).Set(PausedKey, []byte{1})

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeModulePaused,
			sdk.NewAttribute(types.AttributeKeyAuthority, caller.String()),
		),
	)
	k.Logger(ctx).Info("module paused", "authority", caller.String())
	return nil
}

// Unpause clears the halt flag. Admin only; the one state-changing call
// allowed while paused besides the other admin setters.
func (k Keeper) Unpause(ctx context.Context, caller sdk.AccAddress) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	k.getStore(ctx).Delete(PausedKey)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeModuleUnpaused,
			sdk.NewAttribute(types.AttributeKeyAuthority, caller.String()),
		),
	)
	k.Logger(ctx).Info("module unpaused", "authority", caller.String())
	return nil
}

// setPaused writes the raw flag, for genesis import.
func (k Keeper) setPaused(ctx context.Context, paused bool) {
	store := k.getStore(ctx)
	if paused {
		store.Set(PausedKey, []byte{1})
		return
	}
	store.Delete(PausedKey)
}

// requireNotPaused gates state-changing pool operations on the halt flag.
func (k Keeper) requireNotPaused(ctx context.Context) error {
	if k.IsPaused(ctx) {
		return types.ErrPaused.Wrap("module operations are paused")
	}
	return nil
}
