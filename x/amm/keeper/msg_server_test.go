package keeper_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	keepertest "github.com/tarn-chain/tarn/testutil/keeper"
	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// TestMsgServerCreatePair validates the CreatePair handler
func TestMsgServerCreatePair(t *testing.T) {
	k, _, ctx := keepertest.AMMKeeper(t)
	ms := keeper.NewMsgServerImpl(*k)
	creator := testAddr("creator")

	resp, err := ms.CreatePair(ctx, types.NewMsgCreatePair(creator.String(), "uatom", "utarn"))
	require.NoError(t, err)
	require.Equal(t, uint64(1), resp.PoolId)

	// Stateless validation runs before the keeper is touched.
	_, err = ms.CreatePair(ctx, types.NewMsgCreatePair(creator.String(), "uatom", "uatom"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate")

	_, err = ms.CreatePair(ctx, types.NewMsgCreatePair(creator.String(), "uatom", "utarn"))
	require.ErrorIs(t, err, types.ErrPairExists)
}

// TestMsgServerLiquidity validates the AddLiquidity and RemoveLiquidity
// handlers
func TestMsgServerLiquidity(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	ms := keeper.NewMsgServerImpl(*k)

	provider := testAddr("provider")
	bank.FundAccount(provider, coins("uatom", 10000, "utarn", 10000))

	_, err := ms.CreatePair(ctx, types.NewMsgCreatePair(provider.String(), "uatom", "utarn"))
	require.NoError(t, err)

	addResp, err := ms.AddLiquidity(ctx, types.NewMsgAddLiquidity(
		provider.String(), "uatom", "utarn",
		math.NewInt(10000), math.NewInt(10000), math.ZeroInt(), math.ZeroInt()))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10000), addResp.AmountA)
	require.Equal(t, math.NewInt(10000), addResp.AmountB)
	require.Equal(t, math.NewInt(9000), addResp.Shares)

	removeResp, err := ms.RemoveLiquidity(ctx, types.NewMsgRemoveLiquidity(
		provider.String(), "uatom", "utarn",
		math.NewInt(4500), math.ZeroInt(), math.ZeroInt()))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(4500), removeResp.AmountA)
	require.Equal(t, math.NewInt(4500), removeResp.AmountB)

	_, err = ms.AddLiquidity(ctx, types.NewMsgAddLiquidity(
		provider.String(), "uatom", "utarn",
		math.ZeroInt(), math.NewInt(1), math.ZeroInt(), math.ZeroInt()))
	require.Error(t, err)
	require.Contains(t, err.Error(), "validate")
}

// TestMsgServerSwaps validates the four swap handlers
func TestMsgServerSwaps(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	ms := keeper.NewMsgServerImpl(*k)
	setupPool(t, k, bank, ctx, "uatom", "utarn", 1_000_000, 2_000_000)
	setupPool(t, k, bank, ctx, "utarn", "uusdt", 2_000_000, 1_000_000)

	trader := testAddr("trader")
	bank.FundAccount(trader, coins("uatom", 100_000))

	inResp, err := ms.SwapExactIn(ctx, types.NewMsgSwapExactIn(
		trader.String(), "uatom", math.NewInt(10_000), "utarn", math.ZeroInt()))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(10_000), inResp.AmountIn)
	require.Equal(t, math.NewInt(19_743), inResp.AmountOut)

	outResp, err := ms.SwapExactOut(ctx, types.NewMsgSwapExactOut(
		trader.String(), "utarn", math.NewInt(30_000), "uusdt", math.NewInt(5_000)))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(5_000), outResp.AmountOut)
	require.True(t, outResp.AmountIn.IsPositive())

	routeInResp, err := ms.SwapExactInRoute(ctx, types.NewMsgSwapExactInRoute(
		trader.String(), []string{"uatom", "utarn", "uusdt"}, math.NewInt(5_000), math.ZeroInt()))
	require.NoError(t, err)
	require.True(t, routeInResp.AmountOut.IsPositive())

	routeOutResp, err := ms.SwapExactOutRoute(ctx, types.NewMsgSwapExactOutRoute(
		trader.String(), []string{"uatom", "utarn", "uusdt"}, math.NewInt(1_000), math.NewInt(50_000)))
	require.NoError(t, err)
	require.Equal(t, math.NewInt(1_000), routeOutResp.AmountOut)
	require.True(t, routeOutResp.AmountIn.IsPositive())

	// Keeper failures surface with the handler's prefix.
	_, err = ms.SwapExactIn(ctx, types.NewMsgSwapExactIn(
		trader.String(), "uatom", math.NewInt(100), "uosmo", math.ZeroInt()))
	require.ErrorIs(t, err, types.ErrPairNotFound)
	require.Contains(t, err.Error(), "SwapExactIn")
}

// TestMsgServerAdmin validates the admin and fee handlers
func TestMsgServerAdmin(t *testing.T) {
	k, bank, ctx := keepertest.AMMKeeper(t)
	ms := keeper.NewMsgServerImpl(*k)
	pool, _ := setupPool(t, k, bank, ctx, "uatom", "utarn", 1_000_000, 1_000_000)
	admin := installAdmin(t, k, ctx)
	recipient := testAddr("recipient")

	_, err := ms.SetSwapFee(ctx, types.NewMsgSetSwapFee(admin.String(), 40))
	require.NoError(t, err)
	require.Equal(t, uint64(40), k.GetParams(ctx).SwapFeeBps)

	_, err = ms.SetProtocolFee(ctx, types.NewMsgSetProtocolFee(admin.String(), 6))
	require.NoError(t, err)
	require.Equal(t, uint64(6), k.GetParams(ctx).ProtocolFeeDenominator)

	_, err = ms.SetFeeRecipient(ctx, types.NewMsgSetFeeRecipient(admin.String(), recipient.String()))
	require.NoError(t, err)
	require.Equal(t, recipient.String(), k.GetParams(ctx).FeeRecipient)

	_, err = ms.Pause(ctx, types.NewMsgPause(admin.String()))
	require.NoError(t, err)
	require.True(t, k.IsPaused(ctx))

	_, err = ms.Unpause(ctx, types.NewMsgUnpause(admin.String()))
	require.NoError(t, err)
	require.False(t, k.IsPaused(ctx))

	// Accrue something, then withdraw through the handler.
	trader := testAddr("trader")
	bank.FundAccount(trader, coins("uatom", 100_000))
	_, err = ms.SwapExactIn(ctx, types.NewMsgSwapExactIn(
		trader.String(), "uatom", math.NewInt(100_000), "utarn", math.ZeroInt()))
	require.NoError(t, err)

	withdrawResp, err := ms.WithdrawProtocolFees(ctx,
		types.NewMsgWithdrawProtocolFees(recipient.String(), pool.Id))
	require.NoError(t, err)
	require.True(t, withdrawResp.Shares.IsPositive())

	// Authority failures pass through untouched.
	_, err = ms.Pause(ctx, types.NewMsgPause(testAddr("stranger").String()))
	require.ErrorIs(t, err, types.ErrForbidden)

	successor := testAddr("successor")
	_, err = ms.SetAdmin(ctx, types.NewMsgSetAdmin(admin.String(), successor.String()))
	require.NoError(t, err)
	require.Equal(t, successor.String(), k.GetParams(ctx).AdminAddress)
}
