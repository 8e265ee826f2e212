package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the AMM MsgServer interface.
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

func (ms msgServer) CreatePair(goCtx context.Context, msg *types.MsgCreatePair) (*types.MsgCreatePairResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("CreatePair: validate: %w", err)
	}
	creator, err := sdk.AccAddressFromBech32(msg.Creator)
	if err != nil {
		return nil, fmt.Errorf("CreatePair: invalid creator address: %w", err)
	}

	pool, err := ms.Keeper.CreatePair(goCtx, creator, msg.TokenA, msg.TokenB)
	if err != nil {
		return nil, fmt.Errorf("CreatePair: %w", err)
	}
	return &types.MsgCreatePairResponse{PoolId: pool.Id}, nil
}

func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: invalid provider address: %w", err)
	}

	amountA, amountB, shares, err := ms.Keeper.AddLiquidity(goCtx, provider,
		msg.TokenA, msg.TokenB,
		msg.AmountADesired, msg.AmountBDesired, msg.AmountAMin, msg.AmountBMin)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}
	return &types.MsgAddLiquidityResponse{
		AmountA: amountA,
		AmountB: amountB,
		Shares:  shares,
	}, nil
}

func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}
	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: invalid provider address: %w", err)
	}

	amountA, amountB, err := ms.Keeper.RemoveLiquidity(goCtx, provider,
		msg.TokenA, msg.TokenB, msg.Shares, msg.AmountAMin, msg.AmountBMin)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}
	return &types.MsgRemoveLiquidityResponse{
		AmountA: amountA,
		AmountB: amountB,
	}, nil
}

func (ms msgServer) SwapExactIn(goCtx context.Context, msg *types.MsgSwapExactIn) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactIn: validate: %w", err)
	}
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactIn: invalid trader address: %w", err)
	}

	amountOut, err := ms.Keeper.SwapExactIn(goCtx, trader, msg.TokenIn, msg.AmountIn, msg.TokenOut, msg.MinAmountOut)
	if err != nil {
		return nil, fmt.Errorf("SwapExactIn: %w", err)
	}
	return &types.MsgSwapResponse{
		AmountIn:  msg.AmountIn,
		AmountOut: amountOut,
	}, nil
}

func (ms msgServer) SwapExactOut(goCtx context.Context, msg *types.MsgSwapExactOut) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactOut: validate: %w", err)
	}
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOut: invalid trader address: %w", err)
	}

	amountIn, err := ms.Keeper.SwapExactOut(goCtx, trader, msg.TokenIn, msg.MaxAmountIn, msg.TokenOut, msg.AmountOut)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOut: %w", err)
	}
	return &types.MsgSwapResponse{
		AmountIn:  amountIn,
		AmountOut: msg.AmountOut,
	}, nil
}

func (ms msgServer) SwapExactInRoute(goCtx context.Context, msg *types.MsgSwapExactInRoute) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactInRoute: validate: %w", err)
	}
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactInRoute: invalid trader address: %w", err)
	}

	amountOut, err := ms.Keeper.SwapExactInRoute(goCtx, trader, msg.Path, msg.AmountIn, msg.MinAmountOut)
	if err != nil {
		return nil, fmt.Errorf("SwapExactInRoute: %w", err)
	}
	return &types.MsgSwapResponse{
		AmountIn:  msg.AmountIn,
		AmountOut: amountOut,
	}, nil
}

func (ms msgServer) SwapExactOutRoute(goCtx context.Context, msg *types.MsgSwapExactOutRoute) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SwapExactOutRoute: validate: %w", err)
	}
	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOutRoute: invalid trader address: %w", err)
	}

	amountIn, err := ms.Keeper.SwapExactOutRoute(goCtx, trader, msg.Path, msg.AmountOut, msg.MaxAmountIn)
	if err != nil {
		return nil, fmt.Errorf("SwapExactOutRoute: %w", err)
	}
	return &types.MsgSwapResponse{
		AmountIn:  amountIn,
		AmountOut: msg.AmountOut,
	}, nil
}

func (ms msgServer) WithdrawProtocolFees(goCtx context.Context, msg *types.MsgWithdrawProtocolFees) (*types.MsgWithdrawProtocolFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: validate: %w", err)
	}
	recipient, err := sdk.AccAddressFromBech32(msg.Recipient)
	if err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: invalid recipient address: %w", err)
	}

	shares, err := ms.Keeper.WithdrawProtocolFees(goCtx, recipient, msg.PoolId)
	if err != nil {
		return nil, fmt.Errorf("WithdrawProtocolFees: %w", err)
	}
	return &types.MsgWithdrawProtocolFeesResponse{Shares: shares}, nil
}

func (ms msgServer) SetSwapFee(goCtx context.Context, msg *types.MsgSetSwapFee) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetSwapFee: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("SetSwapFee: invalid authority address: %w", err)
	}

	if err := ms.Keeper.SetSwapFee(goCtx, authority, msg.SwapFeeBps); err != nil {
		return nil, fmt.Errorf("SetSwapFee: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) SetProtocolFee(goCtx context.Context, msg *types.MsgSetProtocolFee) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetProtocolFee: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("SetProtocolFee: invalid authority address: %w", err)
	}

	if err := ms.Keeper.SetProtocolFee(goCtx, authority, msg.Denominator); err != nil {
		return nil, fmt.Errorf("SetProtocolFee: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) SetFeeRecipient(goCtx context.Context, msg *types.MsgSetFeeRecipient) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetFeeRecipient: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("SetFeeRecipient: invalid authority address: %w", err)
	}

	if err := ms.Keeper.SetFeeRecipient(goCtx, authority, msg.Recipient); err != nil {
		return nil, fmt.Errorf("SetFeeRecipient: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) SetAdmin(goCtx context.Context, msg *types.MsgSetAdmin) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("SetAdmin: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("SetAdmin: invalid authority address: %w", err)
	}

	if err := ms.Keeper.SetAdmin(goCtx, authority, msg.NewAdmin); err != nil {
		return nil, fmt.Errorf("SetAdmin: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) Pause(goCtx context.Context, msg *types.MsgPause) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Pause: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("Pause: invalid authority address: %w", err)
	}

	if err := ms.Keeper.Pause(goCtx, authority); err != nil {
		return nil, fmt.Errorf("Pause: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}

func (ms msgServer) Unpause(goCtx context.Context, msg *types.MsgUnpause) (*types.MsgUpdateConfigResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Unpause: validate: %w", err)
	}
	authority, err := sdk.AccAddressFromBech32(msg.Authority)
	if err != nil {
		return nil, fmt.Errorf("Unpause: invalid authority address: %w", err)
	}

	if err := ms.Keeper.Unpause(goCtx, authority); err != nil {
		return nil, fmt.Errorf("Unpause: %w", err)
	}
	return &types.MsgUpdateConfigResponse{}, nil
}
