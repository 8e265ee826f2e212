package types

import (
	"github.com/cosmos/cosmos-sdk/codec"
	cdctypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// RegisterCodec registers the module's concrete message types on the legacy
// amino codec.
func RegisterCodec(cdc *codec.LegacyAmino) {
	cdc.RegisterConcrete(&MsgCreatePair{}, "amm/CreatePair", nil)
	cdc.RegisterConcrete(&MsgAddLiquidity{}, "amm/AddLiquidity", nil)
	cdc.RegisterConcrete(&MsgRemoveLiquidity{}, "amm/RemoveLiquidity", nil)
	cdc.RegisterConcrete(&MsgSwapExactIn{}, "amm/SwapExactIn", nil)
	cdc.RegisterConcrete(&MsgSwapExactOut{}, "amm/SwapExactOut", nil)
	cdc.RegisterConcrete(&MsgSwapExactInRoute{}, "amm/SwapExactInRoute", nil)
	cdc.RegisterConcrete(&MsgSwapExactOutRoute{}, "amm/SwapExactOutRoute", nil)
	cdc.RegisterConcrete(&MsgWithdrawProtocolFees{}, "amm/WithdrawProtocolFees", nil)
	cdc.RegisterConcrete(&MsgSetSwapFee{}, "amm/SetSwapFee", nil)
	cdc.RegisterConcrete(&MsgSetProtocolFee{}, "amm/SetProtocolFee", nil)
	cdc.RegisterConcrete(&MsgSetFeeRecipient{}, "amm/SetFeeRecipient", nil)
	cdc.RegisterConcrete(&MsgSetAdmin{}, "amm/SetAdmin", nil)
	cdc.RegisterConcrete(&MsgPause{}, "amm/Pause", nil)
	cdc.RegisterConcrete(&MsgUnpause{}, "amm/Unpause", nil)
}

// RegisterInterfaces registers the module's message implementations with the
// interface registry.
func RegisterInterfaces(registry cdctypes.InterfaceRegistry) {
	registry.RegisterImplementations((*sdk.Msg)(nil),
		&MsgCreatePair{},
		&MsgAddLiquidity{},
		&MsgRemoveLiquidity{},
		&MsgSwapExactIn{},
		&MsgSwapExactOut{},
		&MsgSwapExactInRoute{},
		&MsgSwapExactOutRoute{},
		&MsgWithdrawProtocolFees{},
		&MsgSetSwapFee{},
		&MsgSetProtocolFee{},
		&MsgSetFeeRecipient{},
		&MsgSetAdmin{},
		&MsgPause{},
		&MsgUnpause{},
	)
}

var (
	amino     = codec.NewLegacyAmino()
	ModuleCdc = codec.NewAminoCodec(amino)
)

func init() {
	RegisterCodec(amino)
	amino.Seal()
}
