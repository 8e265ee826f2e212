package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const TypeMsgCreatePair = "create_pair"

// MsgCreatePair registers a new empty pool for a canonical token pair.
type MsgCreatePair struct {
	Creator string `json:"creator"`
	TokenA  string `json:"token_a"`
	TokenB  string `json:"token_b"`
}

// NewMsgCreatePair creates a new MsgCreatePair instance.
func NewMsgCreatePair(creator, tokenA, tokenB string) *MsgCreatePair {
	return &MsgCreatePair{
		Creator: creator,
		TokenA:  tokenA,
		TokenB:  tokenB,
	}
}

func (msg *MsgCreatePair) Reset()                  { *msg = MsgCreatePair{} }
func (msg *MsgCreatePair) String() string          { return TypeMsgCreatePair }
func (msg *MsgCreatePair) ProtoMessage()           {}
func (msg *MsgCreatePair) XXX_MessageName() string { return "tarn.amm.v1.MsgCreatePair" }

// Route returns the message routing key.
func (msg *MsgCreatePair) Route() string { return RouterKey }

// Type returns the message type.
func (msg *MsgCreatePair) Type() string { return TypeMsgCreatePair }

// GetSigners returns the expected signers.
func (msg *MsgCreatePair) GetSigners() []sdk.AccAddress {
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{creator}
}

// GetSignBytes returns the canonical byte representation for signing.
func (msg *MsgCreatePair) GetSignBytes() []byte {
	bz := ModuleCdc.MustMarshalJSON(msg)
	return sdk.MustSortJSON(bz)
}

// ValidateBasic performs stateless validation.
func (msg *MsgCreatePair) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Creator); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid creator address (%s)", err)
	}
	if err := sdk.ValidateDenom(msg.TokenA); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid token A denom (%s)", err)
	}
	if err := sdk.ValidateDenom(msg.TokenB); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid token B denom (%s)", err)
	}
	if msg.TokenA == msg.TokenB {
		return sdkerrors.Wrap(ErrInvalidInput, "token denoms must differ")
	}
	return nil
}
