package keeper

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// MockBankKeeper is an in-memory bank for keeper tests. It tracks real
// balances so transfers in and out of the module account can be asserted and
// can fail on insufficient funds like the production bank.
type MockBankKeeper struct {
	balances map[string]sdk.Coins
}

// NewMockBankKeeper creates an empty in-memory bank.
func NewMockBankKeeper() *MockBankKeeper {
	return &MockBankKeeper{balances: make(map[string]sdk.Coins)}
}

// FundAccount credits an account, creating it if needed.
func (m *MockBankKeeper) FundAccount(addr sdk.AccAddress, amt sdk.Coins) {
	m.balances[addr.String()] = m.balances[addr.String()].Add(amt...)
}

// GetBalance implements types.BankKeeper.
func (m *MockBankKeeper) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	return sdk.NewCoin(denom, m.balances[addr.String()].AmountOf(denom))
}

// SpendableCoins implements types.BankKeeper.
func (m *MockBankKeeper) SpendableCoins(_ context.Context, addr sdk.AccAddress) sdk.Coins {
	return m.balances[addr.String()]
}

// SendCoinsFromAccountToModule implements types.BankKeeper.
func (m *MockBankKeeper) SendCoinsFromAccountToModule(_ context.Context, senderAddr sdk.AccAddress, recipientModule string, amt sdk.Coins) error {
	return m.send(senderAddr, authtypes.NewModuleAddress(recipientModule), amt)
}

// SendCoinsFromModuleToAccount implements types.BankKeeper.
func (m *MockBankKeeper) SendCoinsFromModuleToAccount(_ context.Context, senderModule string, recipientAddr sdk.AccAddress, amt sdk.Coins) error {
	return m.send(authtypes.NewModuleAddress(senderModule), recipientAddr, amt)
}

func (m *MockBankKeeper) send(from, to sdk.AccAddress, amt sdk.Coins) error {
	remaining, hasNeg := m.balances[from.String()].SafeSub(amt...)
	if hasNeg {
		return sdkerrors.ErrInsufficientFunds.Wrapf("%s has %s, wants to send %s", from, m.balances[from.String()], amt)
	}
	m.balances[from.String()] = remaining
	m.balances[to.String()] = m.balances[to.String()].Add(amt...)
	return nil
}

// AMMKeeper creates a test keeper for the AMM module backed by an in-memory
// store and the mock bank. The context carries a fixed block time; advance it
// with ctx.WithBlockTime for accumulator tests.
func AMMKeeper(t testing.TB) (*keeper.Keeper, *MockBankKeeper, sdk.Context) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	registry := codectypes.NewInterfaceRegistry()
	cdc := codec.NewProtoCodec(registry)

	bank := NewMockBankKeeper()
	k := keeper.NewKeeper(cdc, storeKey, bank)

	ctx := sdk.NewContext(stateStore, cmtproto.Header{
		Height: 1,
		Time:   time.Unix(1_700_000_000, 0).UTC(),
	}, false, log.NewNopLogger())

	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return k, bank, ctx
}
