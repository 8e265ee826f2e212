package api

import (
	"context"
	"errors"

	"cosmossdk.io/math"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// Backend errors mapped to HTTP statuses by the handlers.
var (
	// ErrNotFound reports a missing pool or pair.
	ErrNotFound = errors.New("not found")

	// ErrBadRequest reports a request the backend cannot price, such as a
	// zero amount or an output exceeding reserves.
	ErrBadRequest = errors.New("bad request")

	// ErrForwardDisabled reports that the gateway has no admin forwarder
	// configured for transaction-submitting endpoints.
	ErrForwardDisabled = errors.New("admin forwarding not configured")
)

// Quote is a priced swap preview.
type Quote struct {
	PoolId    uint64   `json:"pool_id"`
	TokenIn   string   `json:"token_in"`
	AmountIn  math.Int `json:"amount_in"`
	TokenOut  string   `json:"token_out"`
	AmountOut math.Int `json:"amount_out"`
	FeeBps    uint64   `json:"fee_bps"`
}

// Backend is the surface the gateway serves. Reads come from the chain's
// module store; Pause and Unpause forward signed transactions and return the
// transaction hash.
type Backend interface {
	Pools(ctx context.Context) ([]types.Pool, error)
	Pool(ctx context.Context, poolID uint64) (types.Pool, error)
	PoolByDenoms(ctx context.Context, tokenX, tokenY string) (types.Pool, error)
	Params(ctx context.Context) (types.Params, error)
	Paused(ctx context.Context) (bool, error)
	TWAP(ctx context.Context, poolID uint64) (types.TWAPRecord, error)
	QuoteExactIn(ctx context.Context, tokenIn string, amountIn math.Int, tokenOut string) (Quote, error)
	QuoteExactOut(ctx context.Context, tokenIn string, amountOut math.Int, tokenOut string) (Quote, error)

	Pause(ctx context.Context) (string, error)
	Unpause(ctx context.Context) (string, error)
}
