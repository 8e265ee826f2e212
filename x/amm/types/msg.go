package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RouteLength is the number of denoms in a two-hop route: in, mid, out.
const RouteLength = 3

// Ensure all message types implement the sdk.Msg interface.
var (
	_ sdk.Msg = &MsgCreatePair{}
	_ sdk.Msg = &MsgAddLiquidity{}
	_ sdk.Msg = &MsgRemoveLiquidity{}
	_ sdk.Msg = &MsgSwapExactIn{}
	_ sdk.Msg = &MsgSwapExactOut{}
	_ sdk.Msg = &MsgSwapExactInRoute{}
	_ sdk.Msg = &MsgSwapExactOutRoute{}
	_ sdk.Msg = &MsgWithdrawProtocolFees{}
	_ sdk.Msg = &MsgSetSwapFee{}
	_ sdk.Msg = &MsgSetProtocolFee{}
	_ sdk.Msg = &MsgSetFeeRecipient{}
	_ sdk.Msg = &MsgSetAdmin{}
	_ sdk.Msg = &MsgPause{}
	_ sdk.Msg = &MsgUnpause{}
)

func validatePair(tokenA, tokenB string) error {
	if err := sdk.ValidateDenom(tokenA); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid token A denom (%s)", err)
	}
	if err := sdk.ValidateDenom(tokenB); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid token B denom (%s)", err)
	}
	if tokenA == tokenB {
		return sdkerrors.Wrap(ErrInvalidInput, "token denoms must differ")
	}
	return nil
}

func validatePositive(name string, v math.Int) error {
	if v.IsNil() || !v.IsPositive() {
		return sdkerrors.Wrapf(ErrInvalidInput, "%s must be positive", name)
	}
	return nil
}

func validateNonNegative(name string, v math.Int) error {
	if v.IsNil() || v.IsNegative() {
		return sdkerrors.Wrapf(ErrInvalidInput, "%s must not be negative", name)
	}
	return nil
}

func validatePath(path []string) error {
	if len(path) != RouteLength {
		return sdkerrors.Wrapf(ErrInvalidInput, "path must contain exactly %d denoms", RouteLength)
	}
	for _, denom := range path {
		if err := sdk.ValidateDenom(denom); err != nil {
			return sdkerrors.Wrapf(ErrInvalidInput, "invalid path denom (%s)", err)
		}
	}
	if path[0] == path[1] || path[1] == path[2] {
		return sdkerrors.Wrap(ErrInvalidInput, "consecutive path denoms must differ")
	}
	return nil
}
