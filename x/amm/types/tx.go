package types

import (
	"context"

	"cosmossdk.io/math"
)

// MsgServer is the transaction surface of the AMM module. Routing into it is
// host-app wiring; the keeper implements it directly.
type MsgServer interface {
	CreatePair(context.Context, *MsgCreatePair) (*MsgCreatePairResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	SwapExactIn(context.Context, *MsgSwapExactIn) (*MsgSwapResponse, error)
	SwapExactOut(context.Context, *MsgSwapExactOut) (*MsgSwapResponse, error)
	SwapExactInRoute(context.Context, *MsgSwapExactInRoute) (*MsgSwapResponse, error)
	SwapExactOutRoute(context.Context, *MsgSwapExactOutRoute) (*MsgSwapResponse, error)
	WithdrawProtocolFees(context.Context, *MsgWithdrawProtocolFees) (*MsgWithdrawProtocolFeesResponse, error)
	SetSwapFee(context.Context, *MsgSetSwapFee) (*MsgUpdateConfigResponse, error)
	SetProtocolFee(context.Context, *MsgSetProtocolFee) (*MsgUpdateConfigResponse, error)
	SetFeeRecipient(context.Context, *MsgSetFeeRecipient) (*MsgUpdateConfigResponse, error)
	SetAdmin(context.Context, *MsgSetAdmin) (*MsgUpdateConfigResponse, error)
	Pause(context.Context, *MsgPause) (*MsgUpdateConfigResponse, error)
	Unpause(context.Context, *MsgUnpause) (*MsgUpdateConfigResponse, error)
}

// MsgCreatePairResponse is the response for CreatePair.
type MsgCreatePairResponse struct {
	PoolId uint64 `json:"pool_id"`
}

// MsgAddLiquidityResponse is the response for AddLiquidity.
type MsgAddLiquidityResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
	Shares  math.Int `json:"shares"`
}

// MsgRemoveLiquidityResponse is the response for RemoveLiquidity.
type MsgRemoveLiquidityResponse struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
}

// MsgSwapResponse is the response for every swap variant.
type MsgSwapResponse struct {
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
}

// MsgWithdrawProtocolFeesResponse reports the shares moved to the recipient.
type MsgWithdrawProtocolFeesResponse struct {
	Shares math.Int `json:"shares"`
}

// MsgUpdateConfigResponse is the shared empty response for admin messages.
type MsgUpdateConfigResponse struct{}
