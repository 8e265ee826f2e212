package types

import (
	sdkerrors "cosmossdk.io/errors"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	TypeMsgWithdrawProtocolFees = "withdraw_protocol_fees"
	TypeMsgSetSwapFee           = "set_swap_fee"
	TypeMsgSetProtocolFee       = "set_protocol_fee"
	TypeMsgSetFeeRecipient      = "set_fee_recipient"
	TypeMsgSetAdmin             = "set_admin"
	TypeMsgPause                = "pause"
	TypeMsgUnpause              = "unpause"
)

// MsgWithdrawProtocolFees moves a pool's accrued protocol-fee shares (minus
// the permanent MinimumLiquidity floor) to the configured fee recipient, who
// must sign.
type MsgWithdrawProtocolFees struct {
	Recipient string `json:"recipient"`
	PoolId    uint64 `json:"pool_id"`
}

// NewMsgWithdrawProtocolFees creates a new MsgWithdrawProtocolFees instance.
func NewMsgWithdrawProtocolFees(recipient string, poolID uint64) *MsgWithdrawProtocolFees {
	return &MsgWithdrawProtocolFees{Recipient: recipient, PoolId: poolID}
}

func (msg *MsgWithdrawProtocolFees) Reset()         { *msg = MsgWithdrawProtocolFees{} }
func (msg *MsgWithdrawProtocolFees) String() string { return TypeMsgWithdrawProtocolFees }
func (msg *MsgWithdrawProtocolFees) ProtoMessage()  {}
func (msg *MsgWithdrawProtocolFees) XXX_MessageName() string {
	return "tarn.amm.v1.MsgWithdrawProtocolFees"
}

func (msg *MsgWithdrawProtocolFees) Route() string { return RouterKey }
func (msg *MsgWithdrawProtocolFees) Type() string  { return TypeMsgWithdrawProtocolFees }

func (msg *MsgWithdrawProtocolFees) GetSigners() []sdk.AccAddress {
	recipient, err := sdk.AccAddressFromBech32(msg.Recipient)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{recipient}
}

func (msg *MsgWithdrawProtocolFees) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgWithdrawProtocolFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Recipient); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid recipient address (%s)", err)
	}
	if msg.PoolId == 0 {
		return sdkerrors.Wrap(ErrInvalidInput, "pool id must be positive")
	}
	return nil
}

// MsgSetSwapFee updates the trading fee. Admin only.
type MsgSetSwapFee struct {
	Authority  string `json:"authority"`
	SwapFeeBps uint64 `json:"swap_fee_bps"`
}

// NewMsgSetSwapFee creates a new MsgSetSwapFee instance.
func NewMsgSetSwapFee(authority string, swapFeeBps uint64) *MsgSetSwapFee {
	return &MsgSetSwapFee{Authority: authority, SwapFeeBps: swapFeeBps}
}

func (msg *MsgSetSwapFee) Reset()                  { *msg = MsgSetSwapFee{} }
func (msg *MsgSetSwapFee) String() string          { return TypeMsgSetSwapFee }
func (msg *MsgSetSwapFee) ProtoMessage()           {}
func (msg *MsgSetSwapFee) XXX_MessageName() string { return "tarn.amm.v1.MsgSetSwapFee" }

func (msg *MsgSetSwapFee) Route() string { return RouterKey }
func (msg *MsgSetSwapFee) Type() string  { return TypeMsgSetSwapFee }

func (msg *MsgSetSwapFee) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgSetSwapFee) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSetSwapFee) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	if msg.SwapFeeBps > MaxSwapFeeBps {
		return sdkerrors.Wrapf(ErrInvalidInput, "swap fee %d bps exceeds maximum %d", msg.SwapFeeBps, MaxSwapFeeBps)
	}
	return nil
}

// MsgSetProtocolFee updates the protocol-fee denominator; zero disables
// protocol-fee accrual. Admin only.
type MsgSetProtocolFee struct {
	Authority   string `json:"authority"`
	Denominator uint64 `json:"denominator"`
}

// NewMsgSetProtocolFee creates a new MsgSetProtocolFee instance.
func NewMsgSetProtocolFee(authority string, denominator uint64) *MsgSetProtocolFee {
	return &MsgSetProtocolFee{Authority: authority, Denominator: denominator}
}

func (msg *MsgSetProtocolFee) Reset()                  { *msg = MsgSetProtocolFee{} }
func (msg *MsgSetProtocolFee) String() string          { return TypeMsgSetProtocolFee }
func (msg *MsgSetProtocolFee) ProtoMessage()           {}
func (msg *MsgSetProtocolFee) XXX_MessageName() string { return "tarn.amm.v1.MsgSetProtocolFee" }

func (msg *MsgSetProtocolFee) Route() string { return RouterKey }
func (msg *MsgSetProtocolFee) Type() string  { return TypeMsgSetProtocolFee }

func (msg *MsgSetProtocolFee) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgSetProtocolFee) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSetProtocolFee) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	return nil
}

// MsgSetFeeRecipient updates the protocol-fee recipient. Admin only.
type MsgSetFeeRecipient struct {
	Authority string `json:"authority"`
	Recipient string `json:"recipient"`
}

// NewMsgSetFeeRecipient creates a new MsgSetFeeRecipient instance.
func NewMsgSetFeeRecipient(authority, recipient string) *MsgSetFeeRecipient {
	return &MsgSetFeeRecipient{Authority: authority, Recipient: recipient}
}

func (msg *MsgSetFeeRecipient) Reset()                  { *msg = MsgSetFeeRecipient{} }
func (msg *MsgSetFeeRecipient) String() string          { return TypeMsgSetFeeRecipient }
func (msg *MsgSetFeeRecipient) ProtoMessage()           {}
func (msg *MsgSetFeeRecipient) XXX_MessageName() string { return "tarn.amm.v1.MsgSetFeeRecipient" }

func (msg *MsgSetFeeRecipient) Route() string { return RouterKey }
func (msg *MsgSetFeeRecipient) Type() string  { return TypeMsgSetFeeRecipient }

func (msg *MsgSetFeeRecipient) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgSetFeeRecipient) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSetFeeRecipient) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.Recipient); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid recipient address (%s)", err)
	}
	return nil
}

// MsgSetAdmin transfers the admin principal. Admin only.
type MsgSetAdmin struct {
	Authority string `json:"authority"`
	NewAdmin  string `json:"new_admin"`
}

// NewMsgSetAdmin creates a new MsgSetAdmin instance.
func NewMsgSetAdmin(authority, newAdmin string) *MsgSetAdmin {
	return &MsgSetAdmin{Authority: authority, NewAdmin: newAdmin}
}

func (msg *MsgSetAdmin) Reset()                  { *msg = MsgSetAdmin{} }
func (msg *MsgSetAdmin) String() string          { return TypeMsgSetAdmin }
func (msg *MsgSetAdmin) ProtoMessage()           {}
func (msg *MsgSetAdmin) XXX_MessageName() string { return "tarn.amm.v1.MsgSetAdmin" }

func (msg *MsgSetAdmin) Route() string { return RouterKey }
func (msg *MsgSetAdmin) Type() string  { return TypeMsgSetAdmin }

func (msg *MsgSetAdmin) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgSetAdmin) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgSetAdmin) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	if _, err := sdk.AccAddressFromBech32(msg.NewAdmin); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid new admin address (%s)", err)
	}
	return nil
}

// MsgPause halts all state-changing AMM operations. Admin only.
type MsgPause struct {
	Authority string `json:"authority"`
}

// NewMsgPause creates a new MsgPause instance.
func NewMsgPause(authority string) *MsgPause {
	return &MsgPause{Authority: authority}
}

func (msg *MsgPause) Reset()                  { *msg = MsgPause{} }
func (msg *MsgPause) String() string          { return TypeMsgPause }
func (msg *MsgPause) ProtoMessage()           {}
func (msg *MsgPause) XXX_MessageName() string { return "tarn.amm.v1.MsgPause" }

func (msg *MsgPause) Route() string { return RouterKey }
func (msg *MsgPause) Type() string  { return TypeMsgPause }

func (msg *MsgPause) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgPause) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgPause) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	return nil
}

// MsgUnpause resumes AMM operations. Admin only.
type MsgUnpause struct {
	Authority string `json:"authority"`
}

// NewMsgUnpause creates a new MsgUnpause instance.
func NewMsgUnpause(authority string) *MsgUnpause {
	return &MsgUnpause{Authority: authority}
}

func (msg *MsgUnpause) Reset()                  { *msg = MsgUnpause{} }
func (msg *MsgUnpause) String() string          { return TypeMsgUnpause }
func (msg *MsgUnpause) ProtoMessage()           {}
func (msg *MsgUnpause) XXX_MessageName() string { return "tarn.amm.v1.MsgUnpause" }

func (msg *MsgUnpause) Route() string { return RouterKey }
func (msg *MsgUnpause) Type() string  { return TypeMsgUnpause }

func (msg *MsgUnpause) GetSigners() []sdk.AccAddress {
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		panic(err)
	}
	return []sdk.AccAddress{authority}
}

func (msg *MsgUnpause) GetSignBytes() []byte {
	return sdk.MustSortJSON(ModuleCdc.MustMarshalJSON(msg))
}

func (msg *MsgUnpause) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidInput, "invalid authority address (%s)", err)
	}
	return nil
}
