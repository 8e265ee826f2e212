package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgAddLiquidity    = "add_liquidity"
	TypeMsgRemoveLiquidity = "remove_liquidity"
)

// MsgAddLiquidity deposits both pool tokens at the current reserve ratio and
// mints liquidity shares to the provider.
type MsgAddLiquidity struct {
	Provider       string   `json:"provider"`
	TokenA         string   `json:"token_a"`
	TokenB         string   `json:"token_b"`
	AmountADesired math.Int `json:"amount_a_desired"`
	AmountBDesired math.Int `json:"amount_b_desired"`
	AmountAMin     math.Int `json:"amount_a_min"`
	AmountBMin     math.Int `json:"amount_b_min"`
}

// NewMsgAddLiquidity creates a new MsgAddLiquidity instance.
func NewMsgAddLiquidity(provider, tokenA, tokenB string, amountADesired, amountBDesired, amountAMin, amountBMin math.Int) *MsgAddLiquidity {
	return &MsgAddLiquidity{
		Provider:       provider,
		TokenA:         tokenA,
		TokenB:         tokenB,
		AmountADesired: amountADesired,
		AmountBDesired: amountBDesired,
		AmountAMin:     amountAMin,
		AmountBMin:     amountBMin,
	}
}

func (msg *MsgAddLiquidity) Reset()                  { *msg = MsgAddLiquidity{} }
func (msg *MsgAddLiquidity) String() string          { return TypeMsgAddLiquidity }
func (msg *MsgAddLiquidity) ProtoMessage()           {}
func (msg *MsgAddLiquidity) XXX_MessageName() string { return "tarn.amm.v1.MsgAddLiquidity" }

func (msg *MsgAddLiquidity) Route() string { return RouterKey }
func (msg *MsgAddLiquidity) Type() string  { return TypeMsgAddLiquidity }

func (msg *MsgAddLiquidity) GetSigners() []sdk.AccAddress {
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{provider}
}

func (msg *MsgAddLiquidity) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgAddLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid provider address (%s)", err)
	}
	if err := validatePair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	if err := validatePositive("amount A desired", msg.AmountADesired); err != nil {
		return err
	}
	if err := validatePositive("amount B desired", msg.AmountBDesired); err != nil {
		return err
	}
	if err := validateNonNegative("amount A min", msg.AmountAMin); err != nil {
		return err
	}
	if err := validateNonNegative("amount B min", msg.AmountBMin); err != nil {
		return err
	}
	return nil
}

// MsgRemoveLiquidity burns liquidity shares and returns the proportional
// reserve amounts to the provider.
type MsgRemoveLiquidity struct {
	Provider   string   `json:"provider"`
	TokenA     string   `json:"token_a"`
	TokenB     string   `json:"token_b"`
	Shares     math.Int `json:"shares"`
	AmountAMin math.Int `json:"amount_a_min"`
	AmountBMin math.Int `json:"amount_b_min"`
}

// NewMsgRemoveLiquidity creates a new MsgRemoveLiquidity instance.
func NewMsgRemoveLiquidity(provider, tokenA, tokenB string, shares, amountAMin, amountBMin math.Int) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{
		Provider:   provider,
		TokenA:     tokenA,
		TokenB:     tokenB,
		Shares:     shares,
		AmountAMin: amountAMin,
		AmountBMin: amountBMin,
	}
}

func (msg *MsgRemoveLiquidity) Reset()                  { *msg = MsgRemoveLiquidity{} }
func (msg *MsgRemoveLiquidity) String() string          { return TypeMsgRemoveLiquidity }
func (msg *MsgRemoveLiquidity) ProtoMessage()           {}
func (msg *MsgRemoveLiquidity) XXX_MessageName() string { return "tarn.amm.v1.MsgRemoveLiquidity" }

func (msg *MsgRemoveLiquidity) Route() string { return RouterKey }
func (msg *MsgRemoveLiquidity) Type() string  { return TypeMsgRemoveLiquidity }

func (msg *MsgRemoveLiquidity) GetSigners() []sdk.AccAddress {
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{provider}
}

func (msg *MsgRemoveLiquidity) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgRemoveLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid provider address (%s)", err)
	}
	if err := validatePair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	if err := validatePositive("shares", msg.Shares); err != nil {
		return err
	}
	if err := validateNonNegative("amount A min", msg.AmountAMin); err != nil {
		return err
	}
	if err := validateNonNegative("amount B min", msg.AmountBMin); err != nil {
		return err
	}
	return nil
}
