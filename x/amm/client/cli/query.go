package cli

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strconv"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/keeper"
	"github.com/tarn-chain/tarn/x/amm/types"
)

// GetQueryCmd returns the query commands for the amm module. The module has
// no protobuf query service; commands read the raw module store and decode
// the stored records locally.
func GetQueryCmd() *cobra.Command {
	ammQueryCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "Querying commands for the amm module",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	ammQueryCmd.AddCommand(
		CmdQueryParams(),
		CmdQueryPool(),
		CmdQueryPools(),
		CmdQueryPoolByDenoms(),
		CmdQueryLiquidity(),
		CmdQueryPaused(),
		CmdQueryTWAP(),
		CmdSimulateSwap(),
	)

	return ammQueryCmd
}

// CmdQueryParams returns a CLI command handler for querying module parameters
func CmdQueryParams() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Query the current amm module parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			params, err := queryParams(clientCtx)
			if err != nil {
				return err
			}

			return printJSON(clientCtx, params)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPool returns a CLI command handler for querying a pool by ID
func CmdQueryPool() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool [pool-id]",
		Short: "Query a pool by ID",
		Long: `Query a pool's full state by ID: reserves, share supply, fee shares and
price accumulators.

Example:
  $ tarnd query amm pool 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool ID: %w", err)
			}

			pool, err := queryPool(clientCtx, poolID)
			if err != nil {
				return err
			}

			return printJSON(clientCtx, pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPools returns a CLI command handler for listing all pools
func CmdQueryPools() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List all pools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			// Pool IDs are dense starting at 1 and pools are never deleted,
			// so walking up to the counter enumerates them all.
			bz, _, err := clientCtx.QueryStore(keeper.NextPoolIDKey, types.StoreKey)
			if err != nil {
				return err
			}

			next := uint64(1)
			if len(bz) == 8 {
				next = binary.BigEndian.Uint64(bz)
			}

			pools := make([]types.Pool, 0, next-1)
			for id := uint64(1); id < next; id++ {
				pool, err := queryPool(clientCtx, id)
				if err != nil {
					return err
				}
				pools = append(pools, pool)
			}

			return printJSON(clientCtx, struct {
				Pools []types.Pool `json:"pools"`
			}{Pools: pools})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPoolByDenoms returns a CLI command handler for querying a pool by its token pair
func CmdQueryPoolByDenoms() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pool-by-denoms [token-a] [token-b]",
		Short: "Query a pool by its token pair",
		Long: `Query a pool by its two token denoms, in either order.

Example:
  $ tarnd query amm pool-by-denoms uatom utarn`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			tokenA, tokenB := args[0], args[1]
			if tokenA == tokenB {
				return fmt.Errorf("tokens must be different")
			}
			if !keeper.CanonicalOrder(tokenA, tokenB) {
				tokenA, tokenB = tokenB, tokenA
			}

			bz, _, err := clientCtx.QueryStore(keeper.PoolByDenomsKey(tokenA, tokenB), types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) != 8 {
				return fmt.Errorf("no pool for pair %s/%s", tokenA, tokenB)
			}

			pool, err := queryPool(clientCtx, binary.BigEndian.Uint64(bz))
			if err != nil {
				return err
			}

			return printJSON(clientCtx, pool)
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryLiquidity returns a CLI command handler for querying a provider's shares
func CmdQueryLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liquidity [pool-id] [provider]",
		Short: "Query a provider's liquidity shares in a pool",
		Long: `Query the liquidity shares a provider holds in a pool.

Example:
  $ tarnd query amm liquidity 1 tarn1provider...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool ID: %w", err)
			}

			provider, err := sdk.AccAddressFromBech32(args[1])
			if err != nil {
				return fmt.Errorf("invalid provider address: %w", err)
			}

			bz, _, err := clientCtx.QueryStore(keeper.ShareKey(poolID, provider), types.StoreKey)
			if err != nil {
				return err
			}

			shares := math.ZeroInt()
			if len(bz) > 0 {
				if err := shares.Unmarshal(bz); err != nil {
					return fmt.Errorf("decode shares: %w", err)
				}
			}

			return printJSON(clientCtx, struct {
				PoolId   uint64   `json:"pool_id"`
				Provider string   `json:"provider"`
				Shares   math.Int `json:"shares"`
			}{PoolId: poolID, Provider: provider.String(), Shares: shares})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryPaused returns a CLI command handler for querying the pause flag
func CmdQueryPaused() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paused",
		Short: "Query whether the amm module is paused",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			bz, _, err := clientCtx.QueryStore(keeper.PausedKey, types.StoreKey)
			if err != nil {
				return err
			}

			return printJSON(clientCtx, struct {
				Paused bool `json:"paused"`
			}{Paused: len(bz) > 0})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdQueryTWAP returns a CLI command handler for querying a pool's price accumulators
func CmdQueryTWAP() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twap [pool-id]",
		Short: "Query a pool's cumulative price sample",
		Long: `Query a pool's time-weighted price accumulators and their sample
timestamp. A TWAP over a window is the difference of two samples divided by
the elapsed milliseconds; the accumulators wrap modulo 2^128, which cancels
in the difference.

Example:
  $ tarnd query amm twap 1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool ID: %w", err)
			}

			pool, err := queryPool(clientCtx, poolID)
			if err != nil {
				return err
			}

			return printJSON(clientCtx, types.TWAPRecord{
				PoolId:           pool.Id,
				PriceACumulative: pool.PriceACumulative,
				PriceBCumulative: pool.PriceBCumulative,
				TimestampMs:      pool.LastTimestampMs,
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// CmdSimulateSwap returns a CLI command handler for quoting a swap without executing it
func CmdSimulateSwap() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate-swap [token-in] [amount-in] [token-out]",
		Short: "Quote the output of an exact-input swap",
		Long: `Compute the output an exact-input swap would produce against the current
reserves, without executing it.

Example:
  $ tarnd query amm simulate-swap utarn 1000000 uatom`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientQueryContext(cmd)
			if err != nil {
				return err
			}

			tokenIn, tokenOut := args[0], args[2]
			if tokenIn == tokenOut {
				return fmt.Errorf("tokens must be different")
			}

			amountIn, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount-in: %s (must be integer)", args[1])
			}

			tokenA, tokenB := tokenIn, tokenOut
			if !keeper.CanonicalOrder(tokenA, tokenB) {
				tokenA, tokenB = tokenB, tokenA
			}

			bz, _, err := clientCtx.QueryStore(keeper.PoolByDenomsKey(tokenA, tokenB), types.StoreKey)
			if err != nil {
				return err
			}
			if len(bz) != 8 {
				return fmt.Errorf("no pool for pair %s/%s", tokenA, tokenB)
			}

			pool, err := queryPool(clientCtx, binary.BigEndian.Uint64(bz))
			if err != nil {
				return err
			}

			params, err := queryParams(clientCtx)
			if err != nil {
				return err
			}

			reserveIn, reserveOut := pool.ReserveA, pool.ReserveB
			if tokenIn == pool.TokenB {
				reserveIn, reserveOut = pool.ReserveB, pool.ReserveA
			}

			amountOut, err := keeper.GetAmountOut(amountIn, reserveIn, reserveOut, params.SwapFeeBps)
			if err != nil {
				return err
			}

			return printJSON(clientCtx, struct {
				PoolId    uint64   `json:"pool_id"`
				TokenIn   string   `json:"token_in"`
				AmountIn  math.Int `json:"amount_in"`
				TokenOut  string   `json:"token_out"`
				AmountOut math.Int `json:"amount_out"`
				FeeBps    uint64   `json:"fee_bps"`
			}{
				PoolId:    pool.Id,
				TokenIn:   tokenIn,
				AmountIn:  amountIn,
				TokenOut:  tokenOut,
				AmountOut: amountOut,
				FeeBps:    params.SwapFeeBps,
			})
		},
	}

	flags.AddQueryFlagsToCmd(cmd)
	return cmd
}

// queryPool fetches and decodes one pool record from the module store.
func queryPool(clientCtx client.Context, poolID uint64) (types.Pool, error) {
	bz, _, err := clientCtx.QueryStore(keeper.PoolKey(poolID), types.StoreKey)
	if err != nil {
		return types.Pool{}, err
	}
	if len(bz) == 0 {
		return types.Pool{}, fmt.Errorf("pool %d not found", poolID)
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, fmt.Errorf("decode pool %d: %w", poolID, err)
	}
	return pool, nil
}

// queryParams fetches the module parameters, falling back to defaults when
// the chain has not stored any yet.
func queryParams(clientCtx client.Context) (types.Params, error) {
	bz, _, err := clientCtx.QueryStore(keeper.ParamsKey, types.StoreKey)
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

// printJSON renders a query result through the client output writer.
func printJSON(clientCtx client.Context, v any) error {
	bz, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return clientCtx.PrintRaw(bz)
}
