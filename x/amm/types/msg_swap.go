package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgSwapExactIn       = "swap_exact_in"
	TypeMsgSwapExactOut      = "swap_exact_out"
	TypeMsgSwapExactInRoute  = "swap_exact_in_route"
	TypeMsgSwapExactOutRoute = "swap_exact_out_route"
)

// MsgSwapExactIn trades an exact input amount for as much output as the pool
// allows, bounded below by MinAmountOut.
type MsgSwapExactIn struct {
	Trader       string   `json:"trader"`
	TokenIn      string   `json:"token_in"`
	AmountIn     math.Int `json:"amount_in"`
	TokenOut     string   `json:"token_out"`
	MinAmountOut math.Int `json:"min_amount_out"`
}

// NewMsgSwapExactIn creates a new MsgSwapExactIn instance.
func NewMsgSwapExactIn(trader, tokenIn string, amountIn math.Int, tokenOut string, minAmountOut math.Int) *MsgSwapExactIn {
	return &MsgSwapExactIn{
		Trader:       trader,
		TokenIn:      tokenIn,
		AmountIn:     amountIn,
		TokenOut:     tokenOut,
		MinAmountOut: minAmountOut,
	}
}

func (msg *MsgSwapExactIn) Reset()                  { *msg = MsgSwapExactIn{} }
func (msg *MsgSwapExactIn) String() string          { return TypeMsgSwapExactIn }
func (msg *MsgSwapExactIn) ProtoMessage()           {}
func (msg *MsgSwapExactIn) XXX_MessageName() string { return "tarn.amm.v1.MsgSwapExactIn" }

func (msg *MsgSwapExactIn) Route() string { return RouterKey }
func (msg *MsgSwapExactIn) Type() string  { return TypeMsgSwapExactIn }

func (msg *MsgSwapExactIn) GetSigners() []sdk.AccAddress {
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{trader}
}

func (msg *MsgSwapExactIn) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSwapExactIn) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid trader address (%s)", err)
	}
	if err := validatePair(msg.TokenIn, msg.TokenOut); err != nil {
		return err
	}
	if err := validatePositive("amount in", msg.AmountIn); err != nil {
		return err
	}
	return validateNonNegative("min amount out", msg.MinAmountOut)
}

// MsgSwapExactOut trades as little input as the pool requires for an exact
// output amount, bounded above by MaxAmountIn.
type MsgSwapExactOut struct {
	Trader      string   `json:"trader"`
	TokenIn     string   `json:"token_in"`
	MaxAmountIn math.Int `json:"max_amount_in"`
	TokenOut    string   `json:"token_out"`
	AmountOut   math.Int `json:"amount_out"`
}

// NewMsgSwapExactOut creates a new MsgSwapExactOut instance.
func NewMsgSwapExactOut(trader, tokenIn string, maxAmountIn math.Int, tokenOut string, amountOut math.Int) *MsgSwapExactOut {
	return &MsgSwapExactOut{
		Trader:      trader,
		TokenIn:     tokenIn,
		MaxAmountIn: maxAmountIn,
		TokenOut:    tokenOut,
		AmountOut:   amountOut,
	}
}

func (msg *MsgSwapExactOut) Reset()                  { *msg = MsgSwapExactOut{} }
func (msg *MsgSwapExactOut) String() string          { return TypeMsgSwapExactOut }
func (msg *MsgSwapExactOut) ProtoMessage()           {}
func (msg *MsgSwapExactOut) XXX_MessageName() string { return "tarn.amm.v1.MsgSwapExactOut" }

func (msg *MsgSwapExactOut) Route() string { return RouterKey }
func (msg *MsgSwapExactOut) Type() string  { return TypeMsgSwapExactOut }

func (msg *MsgSwapExactOut) GetSigners() []sdk.AccAddress {
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{trader}
}

func (msg *MsgSwapExactOut) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSwapExactOut) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid trader address (%s)", err)
	}
	if err := validatePair(msg.TokenIn, msg.TokenOut); err != nil {
		return err
	}
	if err := validatePositive("amount out", msg.AmountOut); err != nil {
		return err
	}
	return validatePositive("max amount in", msg.MaxAmountIn)
}

// MsgSwapExactInRoute trades an exact input through two pools: path[0] is
// swapped to path[1] in the first pool, then path[1] to path[2] in the
// second.
type MsgSwapExactInRoute struct {
	Trader       string   `json:"trader"`
	Path         []string `json:"path"`
	AmountIn     math.Int `json:"amount_in"`
	MinAmountOut math.Int `json:"min_amount_out"`
}

// NewMsgSwapExactInRoute creates a new MsgSwapExactInRoute instance.
func NewMsgSwapExactInRoute(trader string, path []string, amountIn, minAmountOut math.Int) *MsgSwapExactInRoute {
	return &MsgSwapExactInRoute{
		Trader:       trader,
		Path:         path,
		AmountIn:     amountIn,
		MinAmountOut: minAmountOut,
	}
}

func (msg *MsgSwapExactInRoute) Reset()                  { *msg = MsgSwapExactInRoute{} }
func (msg *MsgSwapExactInRoute) String() string          { return TypeMsgSwapExactInRoute }
func (msg *MsgSwapExactInRoute) ProtoMessage()           {}
func (msg *MsgSwapExactInRoute) XXX_MessageName() string { return "tarn.amm.v1.MsgSwapExactInRoute" }

func (msg *MsgSwapExactInRoute) Route() string { return RouterKey }
func (msg *MsgSwapExactInRoute) Type() string  { return TypeMsgSwapExactInRoute }

func (msg *MsgSwapExactInRoute) GetSigners() []sdk.AccAddress {
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{trader}
}

func (msg *MsgSwapExactInRoute) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSwapExactInRoute) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid trader address (%s)", err)
	}
	if err := validatePath(msg.Path); err != nil {
		return err
	}
	if err := validatePositive("amount in", msg.AmountIn); err != nil {
		return err
	}
	return validateNonNegative("min amount out", msg.MinAmountOut)
}

// MsgSwapExactOutRoute trades through two pools for an exact final output,
// computing the required input backwards across both legs.
type MsgSwapExactOutRoute struct {
	Trader      string   `json:"trader"`
	Path        []string `json:"path"`
	AmountOut   math.Int `json:"amount_out"`
	MaxAmountIn math.Int `json:"max_amount_in"`
}

// NewMsgSwapExactOutRoute creates a new MsgSwapExactOutRoute instance.
func NewMsgSwapExactOutRoute(trader string, path []string, amountOut, maxAmountIn math.Int) *MsgSwapExactOutRoute {
	return &MsgSwapExactOutRoute{
		Trader:      trader,
		Path:        path,
		AmountOut:   amountOut,
		MaxAmountIn: maxAmountIn,
	}
}

func (msg *MsgSwapExactOutRoute) Reset()          { *msg = MsgSwapExactOutRoute{} }
func (msg *MsgSwapExactOutRoute) String() string  { return TypeMsgSwapExactOutRoute }
func (msg *MsgSwapExactOutRoute) ProtoMessage()   {}
func (msg *MsgSwapExactOutRoute) XXX_MessageName() string {
	return "tarn.amm.v1.MsgSwapExactOutRoute"
}

func (msg *MsgSwapExactOutRoute) Route() string { return RouterKey }
func (msg *MsgSwapExactOutRoute) Type() string  { return TypeMsgSwapExactOutRoute }

func (msg *MsgSwapExactOutRoute) GetSigners() []sdk.AccAddress {
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{trader}
}

func (msg *MsgSwapExactOutRoute) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSwapExactOutRoute) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid trader address (%s)", err)
	}
	if err := validatePath(msg.Path); err != nil {
		return err
	}
	if err := validatePositive("amount out", msg.AmountOut); err != nil {
		return err
	}
	return validatePositive("max amount in", msg.MaxAmountIn)
}
