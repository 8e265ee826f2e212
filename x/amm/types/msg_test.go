package types_test

import (
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"github.com/tarn-chain/tarn/x/amm/types"
)

var (
	testAddr  = sdk.AccAddress([]byte("trader______________")).String()
	testAddr2 = sdk.AccAddress([]byte("provider____________")).String()
)

// TestMsgCreatePair_ValidateBasic validates MsgCreatePair message validation
func TestMsgCreatePair_ValidateBasic(t *testing.T) {
	tests := []struct {
		name    string
		msg     *types.MsgCreatePair
		wantErr bool
	}{
		{
			name:    "valid message",
			msg:     types.NewMsgCreatePair(testAddr, "uatom", "utarn"),
			wantErr: false,
		},
		{
			name:    "reverse order still stateless-valid",
			msg:     types.NewMsgCreatePair(testAddr, "utarn", "uatom"),
			wantErr: false,
		},
		{
			name:    "invalid creator address",
			msg:     types.NewMsgCreatePair("invalid", "uatom", "utarn"),
			wantErr: true,
		},
		{
			name:    "empty token A",
			msg:     types.NewMsgCreatePair(testAddr, "", "utarn"),
			wantErr: true,
		},
		{
			name:    "malformed token B",
			msg:     types.NewMsgCreatePair(testAddr, "uatom", "u!"),
			wantErr: true,
		},
		{
			name:    "same tokens",
			msg:     types.NewMsgCreatePair(testAddr, "uatom", "uatom"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.ValidateBasic()
			if tt.wantErr {
				require.Error(t, err)
				require.ErrorIs(t, err, types.ErrInvalidInput)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestMsgAddLiquidity_ValidateBasic validates MsgAddLiquidity message validation
func TestMsgAddLiquidity_ValidateBasic(t *testing.T) {
	valid := func() *types.MsgAddLiquidity {
		return types.NewMsgAddLiquidity(
			testAddr2, "uatom", "utarn",
			math.NewInt(1000000), math.NewInt(2000000),
			math.NewInt(990000), math.NewInt(1980000),
		)
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgAddLiquidity)
		wantErr bool
	}{
		{
			name:   "valid message",
			mutate: func(m *types.MsgAddLiquidity) {},
		},
		{
			name:   "zero minimums",
			mutate: func(m *types.MsgAddLiquidity) { m.AmountAMin, m.AmountBMin = math.ZeroInt(), math.ZeroInt() },
		},
		{
			name:    "invalid provider",
			mutate:  func(m *types.MsgAddLiquidity) { m.Provider = "bad" },
			wantErr: true,
		},
		{
			name:    "same tokens",
			mutate:  func(m *types.MsgAddLiquidity) { m.TokenB = m.TokenA },
			wantErr: true,
		},
		{
			name:    "zero desired amount A",
			mutate:  func(m *types.MsgAddLiquidity) { m.AmountADesired = math.ZeroInt() },
			wantErr: true,
		},
		{
			name:    "negative desired amount B",
			mutate:  func(m *types.MsgAddLiquidity) { m.AmountBDesired = math.NewInt(-1) },
			wantErr: true,
		},
		{
			name:    "nil desired amount",
			mutate:  func(m *types.MsgAddLiquidity) { m.AmountADesired = math.Int{} },
			wantErr: true,
		},
		{
			name:    "negative minimum",
			mutate:  func(m *types.MsgAddLiquidity) { m.AmountAMin = math.NewInt(-1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid()
			tt.mutate(msg)

			err := msg.ValidateBasic()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestMsgRemoveLiquidity_ValidateBasic validates MsgRemoveLiquidity message validation
func TestMsgRemoveLiquidity_ValidateBasic(t *testing.T) {
	valid := func() *types.MsgRemoveLiquidity {
		return types.NewMsgRemoveLiquidity(
			testAddr2, "uatom", "utarn",
			math.NewInt(500000), math.ZeroInt(), math.ZeroInt(),
		)
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgRemoveLiquidity)
		wantErr bool
	}{
		{
			name:   "valid message",
			mutate: func(m *types.MsgRemoveLiquidity) {},
		},
		{
			name:    "invalid provider",
			mutate:  func(m *types.MsgRemoveLiquidity) { m.Provider = "bad" },
			wantErr: true,
		},
		{
			name:    "zero shares",
			mutate:  func(m *types.MsgRemoveLiquidity) { m.Shares = math.ZeroInt() },
			wantErr: true,
		},
		{
			name:    "negative shares",
			mutate:  func(m *types.MsgRemoveLiquidity) { m.Shares = math.NewInt(-10) },
			wantErr: true,
		},
		{
			name:    "negative minimum",
			mutate:  func(m *types.MsgRemoveLiquidity) { m.AmountBMin = math.NewInt(-1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid()
			tt.mutate(msg)

			err := msg.ValidateBasic()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestMsgSwapExactIn_ValidateBasic validates MsgSwapExactIn message validation
func TestMsgSwapExactIn_ValidateBasic(t *testing.T) {
	valid := func() *types.MsgSwapExactIn {
		return types.NewMsgSwapExactIn(testAddr, "utarn", math.NewInt(1000), "uatom", math.NewInt(900))
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgSwapExactIn)
		wantErr bool
	}{
		{
			name:   "valid message",
			mutate: func(m *types.MsgSwapExactIn) {},
		},
		{
			name:   "zero minimum output",
			mutate: func(m *types.MsgSwapExactIn) { m.MinAmountOut = math.ZeroInt() },
		},
		{
			name:    "invalid trader",
			mutate:  func(m *types.MsgSwapExactIn) { m.Trader = "bad" },
			wantErr: true,
		},
		{
			name:    "same tokens",
			mutate:  func(m *types.MsgSwapExactIn) { m.TokenOut = m.TokenIn },
			wantErr: true,
		},
		{
			name:    "zero input",
			mutate:  func(m *types.MsgSwapExactIn) { m.AmountIn = math.ZeroInt() },
			wantErr: true,
		},
		{
			name:    "negative minimum output",
			mutate:  func(m *types.MsgSwapExactIn) { m.MinAmountOut = math.NewInt(-1) },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid()
			tt.mutate(msg)

			err := msg.ValidateBasic()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestMsgSwapExactOut_ValidateBasic validates MsgSwapExactOut message validation
func TestMsgSwapExactOut_ValidateBasic(t *testing.T) {
	valid := func() *types.MsgSwapExactOut {
		return types.NewMsgSwapExactOut(testAddr, "utarn", math.NewInt(1100), "uatom", math.NewInt(1000))
	}

	tests := []struct {
		name    string
		mutate  func(*types.MsgSwapExactOut)
		wantErr bool
	}{
		{
			name:   "valid message",
			mutate: func(m *types.MsgSwapExactOut) {},
		},
		{
			name:    "zero output",
			mutate:  func(m *types.MsgSwapExactOut) { m.AmountOut = math.ZeroInt() },
			wantErr: true,
		},
		{
			name:    "zero max input",
			mutate:  func(m *types.MsgSwapExactOut) { m.MaxAmountIn = math.ZeroInt() },
			wantErr: true,
		},
		{
			name:    "invalid trader",
			mutate:  func(m *types.MsgSwapExactOut) { m.Trader = "bad" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := valid()
			tt.mutate(msg)

			err := msg.ValidateBasic()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestMsgSwapRoute_ValidateBasic validates route message path validation
func TestMsgSwapRoute_ValidateBasic(t *testing.T) {
	tests := []struct {
		name    string
		path    []string
		wantErr bool
	}{
		{
			name: "valid path",
			path: []string{"uatom", "utarn", "uusdt"},
		},
		{
			name: "round trip path is stateless-valid",
			path: []string{"uatom", "utarn", "uatom"},
		},
		{
			name:    "too short",
			path:    []string{"uatom", "utarn"},
			wantErr: true,
		},
		{
			name:    "too long",
			path:    []string{"uatom", "utarn", "uusdt", "uosmo"},
			wantErr: true,
		},
		{
			name:    "repeated first hop",
			path:    []string{"uatom", "uatom", "uusdt"},
			wantErr: true,
		},
		{
			name:    "repeated second hop",
			path:    []string{"uatom", "utarn", "utarn"},
			wantErr: true,
		},
		{
			name:    "malformed denom",
			path:    []string{"uatom", "u!", "uusdt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := types.NewMsgSwapExactInRoute(testAddr, tt.path, math.NewInt(1000), math.ZeroInt())
			out := types.NewMsgSwapExactOutRoute(testAddr, tt.path, math.NewInt(1000), math.NewInt(1100))

			if tt.wantErr {
				require.Error(t, in.ValidateBasic())
				require.Error(t, out.ValidateBasic())
			} else {
				require.NoError(t, in.ValidateBasic())
				require.NoError(t, out.ValidateBasic())
			}
		})
	}
}

// TestMsgRouteTypeAndSigners validates routing metadata and signer derivation
func TestMsgRouteTypeAndSigners(t *testing.T) {
	trader := sdk.AccAddress([]byte("trader______________"))

	msg := types.NewMsgSwapExactIn(trader.String(), "utarn", math.NewInt(1), "uatom", math.ZeroInt())

	require.Equal(t, types.RouterKey, msg.Route())
	require.Equal(t, types.TypeMsgSwapExactIn, msg.Type())

	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, trader, signers[0])

	require.NotEmpty(t, msg.GetSignBytes())
}

// TestMsgGetSignersPanicsOnBadAddress validates signer derivation fails loudly
func TestMsgGetSignersPanicsOnBadAddress(t *testing.T) {
	msg := types.NewMsgCreatePair("garbage", "uatom", "utarn")
	require.Panics(t, func() { msg.GetSigners() })
}
