package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// requireAdmin authorizes a caller against the configured admin address.
func (k Keeper) requireAdmin(ctx context.Context, caller sdk.AccAddress) error {
	admin := k.GetParams(ctx).AdminAddress
	if admin == "" || caller.String() != admin {
		return types.ErrForbidden.Wrap("caller is not the admin")
	}
	return nil
}

// SetSwapFee updates the trading fee rate. Admin only.
func (k Keeper) SetSwapFee(ctx context.Context, caller sdk.AccAddress, feeBps uint64) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	params := k.GetParams(ctx)
	params.SwapFeeBps = feeBps
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, caller, "swap_fee_bps", fmt.Sprintf("%d", feeBps))
	return nil
}

// SetProtocolFee updates the protocol fee denominator. Zero disables
// accrual; each pool's fee baseline then clears lazily at its next touch.
func (k Keeper) SetProtocolFee(ctx context.Context, caller sdk.AccAddress, denominator uint64) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	params := k.GetParams(ctx)
	params.ProtocolFeeDenominator = denominator
	params.ProtocolFeeEnabled = denominator != 0
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, caller, "protocol_fee_denominator", fmt.Sprintf("%d", denominator))
	return nil
}

// SetFeeRecipient updates who may withdraw accrued protocol fees. Empty
// unsets the recipient, leaving fees to accrue unclaimed. Admin only.
func (k Keeper) SetFeeRecipient(ctx context.Context, caller sdk.AccAddress, recipient string) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if recipient != "" {
		if _, err := sdk.AccAddressFromBech32(recipient); err != nil {
			return types.ErrInvalidInput.Wrapf("fee recipient: %s", err)
		}
	}
	params := k.GetParams(ctx)
	params.FeeRecipient = recipient
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, caller, "fee_recipient", recipient)
	return nil
}

// SetAdmin hands the admin role to a new address. The new admin must be a
// valid address so the role cannot be burned by accident. Admin only.
func (k Keeper) SetAdmin(ctx context.Context, caller sdk.AccAddress, newAdmin string) error {
	if err := k.requireAdmin(ctx, caller); err != nil {
		return err
	}
	if _, err := sdk.AccAddressFromBech32(newAdmin); err != nil {
		return types.ErrInvalidInput.Wrapf("new admin: %s", err)
	}
	params := k.GetParams(ctx)
	params.AdminAddress = newAdmin
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}
	k.emitParamsUpdated(ctx, caller, "admin_address", newAdmin)
	return nil
}

func (k Keeper) emitParamsUpdated(ctx context.Context, caller sdk.AccAddress, field, value string) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeParamsUpdated,
			sdk.NewAttribute(types.AttributeKeyAuthority, caller.String()),
			sdk.NewAttribute(types.AttributeKeyField, field),
			sdk.NewAttribute(types.AttributeKeyValue, value),
		),
	)
	k.Logger(ctx).Info("params updated", "authority", caller.String(), "field", field, "value", value)
}
