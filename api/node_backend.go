package api

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpcclient "github.com/cometbft/cometbft/rpc/client"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// ForwardConfig describes how admin transactions reach the chain: the
// gateway shells out to the chain daemon, which holds the signing key in its
// keyring. Queries never use this path.
type ForwardConfig struct {
	Binary         string
	KeyName        string
	KeyringBackend string
	Home           string
	ChainID        string
	Node           string
	Fees           string
}

// NodeBackend serves reads with raw ABCI store queries against a node's RPC
// endpoint, decoding the module's stored records locally, and forwards admin
// transactions through the daemon binary.
type NodeBackend struct {
	rpc     *rpchttp.HTTP
	forward *ForwardConfig
	logger  log.Logger
}

var _ Backend = (*NodeBackend)(nil)

// NewNodeBackend connects to a node RPC endpoint. forward may be nil, in
// which case the admin endpoints report ErrForwardDisabled.
func NewNodeBackend(nodeRPC string, forward *ForwardConfig, logger log.Logger) (*NodeBackend, error) {
	rpc, err := rpchttp.New(nodeRPC, "/websocket")
	if err != nil {
		return nil, fmt.Errorf("dial node rpc %s: %w", nodeRPC, err)
	}

	return &NodeBackend{
		rpc:     rpc,
		forward: forward,
		logger:  logger.With("component", "node-backend"),
	}, nil
}

// storeQuery reads one key from the module's KV store. A missing key returns
// an empty value, not an error.
func (b *NodeBackend) storeQuery(ctx context.Context, key []byte) ([]byte, error) {
	path := fmt.Sprintf("/store/%s/key", types.StoreKey)
	res, err := b.rpc.ABCIQueryWithOptions(ctx, path, cmtbytes.HexBytes(key), rpcclient.ABCIQueryOptions{})
	if err != nil {
		return nil, fmt.Errorf("store query: %w", err)
	}
	if res.Response.Code != 0 {
		return nil, fmt.Errorf("store query failed: %s", res.Response.Log)
	}
	return res.Response.Value, nil
}

// Pool returns one pool by id.
func (b *NodeBackend) Pool(ctx context.Context, poolID uint64) (types.Pool, error) {
	bz, err := b.storeQuery(ctx, keeper.PoolKey(poolID))
	if err != nil {
		return types.Pool{}, err
	}
	if len(bz) == 0 {
		return types.Pool{}, fmt.Errorf("pool %d: %w", poolID, ErrNotFound)
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, fmt.Errorf("decode pool %d: %w", poolID, err)
	}
	return pool, nil
}

// Pools returns every pool. Pool IDs are dense starting at 1 and pools are
// never deleted, so walking up to the counter enumerates them all.
func (b *NodeBackend) Pools(ctx context.Context) ([]types.Pool, error) {
	bz, err := b.storeQuery(ctx, keeper.NextPoolIDKey)
	if err != nil {
		return nil, err
	}

	next := uint64(1)
	if len(bz) == 8 {
		next = binary.BigEndian.Uint64(bz)
	}

	pools := make([]types.Pool, 0, next-1)
	for id := uint64(1); id < next; id++ {
		pool, err := b.Pool(ctx, id)
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

// PoolByDenoms resolves a pool by its token pair, accepting either order.
func (b *NodeBackend) PoolByDenoms(ctx context.Context, tokenX, tokenY string) (types.Pool, error) {
	tokenA, tokenB, err := normalizePair(tokenX, tokenY)
	if err != nil {
		return types.Pool{}, err
	}

	bz, err := b.storeQuery(ctx, keeper.PoolByDenomsKey(tokenA, tokenB))
	if err != nil {
		return types.Pool{}, err
	}
	if len(bz) != 8 {
		return types.Pool{}, fmt.Errorf("pair %s/%s: %w", tokenA, tokenB, ErrNotFound)
	}

	return b.Pool(ctx, binary.BigEndian.Uint64(bz))
}

// Params returns the module parameters, falling back to defaults when the
// chain has not stored any yet.
func (b *NodeBackend) Params(ctx context.Context) (types.Params, error) {
	bz, err := b.storeQuery(ctx, keeper.ParamsKey)
	if err != nil {
		return types.Params{}, err
	}
	if len(bz) == 0 {
		return types.DefaultParams(), nil
	}

	var params types.Params
	if err := json.Unmarshal(bz, &params); err != nil {
		return types.Params{}, fmt.Errorf("decode params: %w", err)
	}
	return params, nil
}

// Paused reports the module pause flag.
func (b *NodeBackend) Paused(ctx context.Context) (bool, error) {
	bz, err := b.storeQuery(ctx, keeper.PausedKey)
	if err != nil {
		return false, err
	}
	return len(bz) > 0, nil
}

// TWAP returns a pool's stored cumulative price sample. Consumers difference
// two samples and divide by the elapsed milliseconds; the wrap modulo 2^128
// cancels in the difference.
func (b *NodeBackend) TWAP(ctx context.Context, poolID uint64) (types.TWAPRecord, error) {
	pool, err := b.Pool(ctx, poolID)
	if err != nil {
		return types.TWAPRecord{}, err
	}

	return types.TWAPRecord{
		PoolId:           pool.Id,
		PriceACumulative: pool.PriceACumulative,
		PriceBCumulative: pool.PriceBCumulative,
		TimestampMs:      pool.LastTimestampMs,
	}, nil
}

// QuoteExactIn prices an exact-input swap against current reserves.
func (b *NodeBackend) QuoteExactIn(ctx context.Context, tokenIn string, amountIn math.Int, tokenOut string) (Quote, error) {
	pool, params, err := b.pairState(ctx, tokenIn, tokenOut)
	if err != nil {
		return Quote{}, err
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountOut, err := keeper.GetAmountOut(amountIn, reserveIn, reserveOut, params.SwapFeeBps)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return Quote{
		PoolId:    pool.Id,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
		FeeBps:    params.SwapFeeBps,
	}, nil
}

// QuoteExactOut prices an exact-output swap against current reserves.
func (b *NodeBackend) QuoteExactOut(ctx context.Context, tokenIn string, amountOut math.Int, tokenOut string) (Quote, error) {
	pool, params, err := b.pairState(ctx, tokenIn, tokenOut)
	if err != nil {
		return Quote{}, err
	}

	reserveIn, reserveOut := orientReserves(pool, tokenIn)
	amountIn, err := keeper.GetAmountIn(amountOut, reserveIn, reserveOut, params.SwapFeeBps)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	return Quote{
		PoolId:    pool.Id,
		TokenIn:   tokenIn,
		AmountIn:  amountIn,
		TokenOut:  tokenOut,
		AmountOut: amountOut,
		FeeBps:    params.SwapFeeBps,
	}, nil
}

// Pause forwards a pause transaction through the daemon.
func (b *NodeBackend) Pause(ctx context.Context) (string, error) {
	return b.submitAdminTx(ctx, "pause")
}

// Unpause forwards an unpause transaction through the daemon.
func (b *NodeBackend) Unpause(ctx context.Context) (string, error) {
	return b.submitAdminTx(ctx, "unpause")
}

var txHashPattern = regexp.MustCompile(`txhash"?:\s*"?([A-Fa-f0-9]{64})`)

// submitAdminTx invokes the daemon binary to sign and broadcast an admin
// transaction from the configured keyring, then extracts the tx hash from
// the command output.
func (b *NodeBackend) submitAdminTx(ctx context.Context, action string) (string, error) {
	if b.forward == nil {
		return "", ErrForwardDisabled
	}

	args := []string{
		"tx", types.ModuleName, action,
		"--from", b.forward.KeyName,
		"--keyring-backend", b.forward.KeyringBackend,
		"--home", b.forward.Home,
		"--chain-id", b.forward.ChainID,
		"--node", b.forward.Node,
		"--fees", b.forward.Fees,
		"-y",
	}

	b.logger.Info("forwarding admin tx", "action", action, "binary", b.forward.Binary)

	cmd := exec.CommandContext(ctx, b.forward.Binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("daemon %s failed: %w, output: %s", action, err, string(output))
	}

	return parseTxHash(string(output))
}

var bareHashPattern = regexp.MustCompile(`[A-Fa-f0-9]{64}`)

// parseTxHash extracts the broadcast tx hash from daemon output, which may
// be YAML or JSON depending on the daemon's --output flag.
func parseTxHash(output string) (string, error) {
	if matches := txHashPattern.FindStringSubmatch(output); len(matches) >= 2 {
		return matches[1], nil
	}

	// Some output modes omit the txhash label; accept any trailing tx hash
	// as long as the broadcast reported code 0.
	if strings.Contains(output, "code: 0") || strings.Contains(output, `"code":0`) {
		if hexes := bareHashPattern.FindAllString(output, -1); len(hexes) > 0 {
			return hexes[len(hexes)-1], nil
		}
	}

	return "", fmt.Errorf("tx hash not found in daemon output: %s", output)
}

// pairState fetches the pool and parameters backing a quote.
func (b *NodeBackend) pairState(ctx context.Context, tokenIn, tokenOut string) (types.Pool, types.Params, error) {
	if _, _, err := normalizePair(tokenIn, tokenOut); err != nil {
		return types.Pool{}, types.Params{}, err
	}

	pool, err := b.PoolByDenoms(ctx, tokenIn, tokenOut)
	if err != nil {
		return types.Pool{}, types.Params{}, err
	}

	params, err := b.Params(ctx)
	if err != nil {
		return types.Pool{}, types.Params{}, err
	}

	return pool, params, nil
}

// normalizePair validates two denoms and returns them in canonical order.
func normalizePair(tokenX, tokenY string) (string, string, error) {
	if err := sdk.ValidateDenom(tokenX); err != nil {
		return "", "", fmt.Errorf("%w: denom %q: %v", ErrBadRequest, tokenX, err)
	}
	if err := sdk.ValidateDenom(tokenY); err != nil {
		return "", "", fmt.Errorf("%w: denom %q: %v", ErrBadRequest, tokenY, err)
	}
	if tokenX == tokenY {
		return "", "", fmt.Errorf("%w: identical denoms %q", ErrBadRequest, tokenX)
	}

	if !keeper.CanonicalOrder(tokenX, tokenY) {
		tokenX, tokenY = tokenY, tokenX
	}
	return tokenX, tokenY, nil
}

// orientReserves returns (reserveIn, reserveOut) for the given input token.
func orientReserves(pool types.Pool, tokenIn string) (math.Int, math.Int) {
	if tokenIn == pool.TokenB {
		return pool.ReserveB, pool.ReserveA
	}
	return pool.ReserveA, pool.ReserveB
}
