package cli

import (
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// GetTxCmd returns the transaction commands for the amm module
func GetTxCmd() *cobra.Command {
	ammTxCmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      "AMM transaction subcommands",
		DisableFlagParsing:         true,
		SuggestionsMinimumDistance: 2,
		RunE:                       client.ValidateCmd,
	}

	ammTxCmd.AddCommand(
		CmdCreatePair(),
		CmdAddLiquidity(),
		CmdRemoveLiquidity(),
		CmdSwapExactIn(),
		CmdSwapExactOut(),
		CmdSwapExactInRoute(),
		CmdSwapExactOutRoute(),
		CmdWithdrawProtocolFees(),
		CmdSetSwapFee(),
		CmdSetProtocolFee(),
		CmdSetFeeRecipient(),
		CmdSetAdmin(),
		CmdPause(),
		CmdUnpause(),
	)

	return ammTxCmd
}

// CmdCreatePair returns a CLI command handler for registering a token pair
func CmdCreatePair() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-pair [token-a] [token-b]",
		Short: "Register a new empty pool for a token pair",
		Long: `Register a new constant-product pool for a token pair. The pair must be
given in canonical order (token-a lexicographically before token-b) and the
pool starts with empty reserves; fund it with add-liquidity.

Example:
  $ tarnd tx amm create-pair uatom utarn --from mykey
  $ tarnd tx amm create-pair utarn uusdt --from mykey`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tokenA := args[0]
			tokenB := args[1]

			if tokenA == tokenB {
				return fmt.Errorf("tokens must be different")
			}

			msg := types.NewMsgCreatePair(clientCtx.GetFromAddress().String(), tokenA, tokenB)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdAddLiquidity returns a CLI command handler for adding liquidity to a pool
func CmdAddLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity [token-a] [amount-a] [token-b] [amount-b]",
		Short: "Deposit both tokens and mint liquidity shares",
		Long: `Deposit both pool tokens at the current reserve ratio and mint liquidity
shares. The amounts are upper bounds; the actual deposit is scaled to the
pool ratio. Use --amount-a-min and --amount-b-min to bound slippage.

Example:
  $ tarnd tx amm add-liquidity uatom 1000000 utarn 2000000 --from mykey
  $ tarnd tx amm add-liquidity uatom 1000000 utarn 2000000 --amount-a-min 990000 --amount-b-min 1980000 --from mykey`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tokenA := args[0]
			tokenB := args[2]

			if tokenA == tokenB {
				return fmt.Errorf("tokens must be different")
			}

			amountA, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount-a: %s (must be integer)", args[1])
			}

			amountB, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid amount-b: %s (must be integer)", args[3])
			}

			if amountA.IsZero() || amountA.IsNegative() {
				return fmt.Errorf("amount-a must be positive")
			}

			if amountB.IsZero() || amountB.IsNegative() {
				return fmt.Errorf("amount-b must be positive")
			}

			amountAMin, err := intFlag(cmd, FlagAmountAMin)
			if err != nil {
				return err
			}

			amountBMin, err := intFlag(cmd, FlagAmountBMin)
			if err != nil {
				return err
			}

			msg := types.NewMsgAddLiquidity(
				clientCtx.GetFromAddress().String(),
				tokenA, tokenB,
				amountA, amountB,
				amountAMin, amountBMin,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(FlagAmountAMin, "0", "Minimum amount of token-a to deposit")
	cmd.Flags().String(FlagAmountBMin, "0", "Minimum amount of token-b to deposit")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdRemoveLiquidity returns a CLI command handler for burning liquidity shares
func CmdRemoveLiquidity() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity [token-a] [token-b] [shares]",
		Short: "Burn liquidity shares and withdraw both tokens",
		Long: `Burn liquidity shares and withdraw the proportional amount of both pool
tokens. Use --amount-a-min and --amount-b-min to bound slippage.

Example:
  $ tarnd tx amm remove-liquidity uatom utarn 500000 --from mykey
  $ tarnd tx amm remove-liquidity uatom utarn 500000 --amount-a-min 490000 --from mykey`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tokenA := args[0]
			tokenB := args[1]

			if tokenA == tokenB {
				return fmt.Errorf("tokens must be different")
			}

			shares, ok := math.NewIntFromString(args[2])
			if !ok {
				return fmt.Errorf("invalid shares: %s (must be integer)", args[2])
			}

			if shares.IsZero() || shares.IsNegative() {
				return fmt.Errorf("shares must be positive")
			}

			amountAMin, err := intFlag(cmd, FlagAmountAMin)
			if err != nil {
				return err
			}

			amountBMin, err := intFlag(cmd, FlagAmountBMin)
			if err != nil {
				return err
			}

			msg := types.NewMsgRemoveLiquidity(
				clientCtx.GetFromAddress().String(),
				tokenA, tokenB,
				shares,
				amountAMin, amountBMin,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	cmd.Flags().String(FlagAmountAMin, "0", "Minimum amount of token-a to withdraw")
	cmd.Flags().String(FlagAmountBMin, "0", "Minimum amount of token-b to withdraw")
	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactIn returns a CLI command handler for an exact-input swap
func CmdSwapExactIn() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-in [token-in] [amount-in] [token-out] [min-amount-out]",
		Short: "Swap an exact input amount for at least min-amount-out",
		Long: `Swap an exact amount of token-in for as much token-out as the pool gives.
The transaction fails if the output would be below min-amount-out.

Example:
  $ tarnd tx amm swap-exact-in utarn 1000000 uatom 480000 --from mykey`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tokenIn := args[0]
			tokenOut := args[2]

			if tokenIn == tokenOut {
				return fmt.Errorf("tokens must be different")
			}

			amountIn, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid amount-in: %s (must be integer)", args[1])
			}

			if amountIn.IsZero() || amountIn.IsNegative() {
				return fmt.Errorf("amount-in must be positive")
			}

			minAmountOut, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid min-amount-out: %s (must be integer)", args[3])
			}

			if minAmountOut.IsNegative() {
				return fmt.Errorf("min-amount-out cannot be negative")
			}

			msg := types.NewMsgSwapExactIn(
				clientCtx.GetFromAddress().String(),
				tokenIn, amountIn,
				tokenOut, minAmountOut,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactOut returns a CLI command handler for an exact-output swap
func CmdSwapExactOut() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-exact-out [token-in] [max-amount-in] [token-out] [amount-out]",
		Short: "Swap at most max-amount-in for an exact output amount",
		Long: `Swap token-in for an exact amount of token-out. The required input is
computed from the pool reserves; the transaction fails if it would exceed
max-amount-in.

Example:
  $ tarnd tx amm swap-exact-out utarn 1100000 uatom 500000 --from mykey`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			tokenIn := args[0]
			tokenOut := args[2]

			if tokenIn == tokenOut {
				return fmt.Errorf("tokens must be different")
			}

			maxAmountIn, ok := math.NewIntFromString(args[1])
			if !ok {
				return fmt.Errorf("invalid max-amount-in: %s (must be integer)", args[1])
			}

			if maxAmountIn.IsZero() || maxAmountIn.IsNegative() {
				return fmt.Errorf("max-amount-in must be positive")
			}

			amountOut, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid amount-out: %s (must be integer)", args[3])
			}

			if amountOut.IsZero() || amountOut.IsNegative() {
				return fmt.Errorf("amount-out must be positive")
			}

			msg := types.NewMsgSwapExactOut(
				clientCtx.GetFromAddress().String(),
				tokenIn, maxAmountIn,
				tokenOut, amountOut,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactInRoute returns a CLI command handler for a two-hop exact-input swap
func CmdSwapExactInRoute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-route-exact-in [token-in] [token-mid] [token-out] [amount-in] [min-amount-out]",
		Short: "Swap an exact input through two pools",
		Long: `Swap an exact amount of token-in to token-out through the intermediate
token-mid, using the token-in/token-mid and token-mid/token-out pools. The
transaction fails if the final output would be below min-amount-out.

Example:
  $ tarnd tx amm swap-route-exact-in uatom utarn uusdt 1000000 950000 --from mykey`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			path := []string{args[0], args[1], args[2]}

			amountIn, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid amount-in: %s (must be integer)", args[3])
			}

			if amountIn.IsZero() || amountIn.IsNegative() {
				return fmt.Errorf("amount-in must be positive")
			}

			minAmountOut, ok := math.NewIntFromString(args[4])
			if !ok {
				return fmt.Errorf("invalid min-amount-out: %s (must be integer)", args[4])
			}

			if minAmountOut.IsNegative() {
				return fmt.Errorf("min-amount-out cannot be negative")
			}

			msg := types.NewMsgSwapExactInRoute(
				clientCtx.GetFromAddress().String(),
				path, amountIn, minAmountOut,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSwapExactOutRoute returns a CLI command handler for a two-hop exact-output swap
func CmdSwapExactOutRoute() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap-route-exact-out [token-in] [token-mid] [token-out] [amount-out] [max-amount-in]",
		Short: "Swap through two pools for an exact output",
		Long: `Swap token-in to an exact amount of token-out through the intermediate
token-mid. The required input is computed backwards across both pools; the
transaction fails if it would exceed max-amount-in.

Example:
  $ tarnd tx amm swap-route-exact-out uatom utarn uusdt 1000000 1100000 --from mykey`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			path := []string{args[0], args[1], args[2]}

			amountOut, ok := math.NewIntFromString(args[3])
			if !ok {
				return fmt.Errorf("invalid amount-out: %s (must be integer)", args[3])
			}

			if amountOut.IsZero() || amountOut.IsNegative() {
				return fmt.Errorf("amount-out must be positive")
			}

			maxAmountIn, ok := math.NewIntFromString(args[4])
			if !ok {
				return fmt.Errorf("invalid max-amount-in: %s (must be integer)", args[4])
			}

			if maxAmountIn.IsZero() || maxAmountIn.IsNegative() {
				return fmt.Errorf("max-amount-in must be positive")
			}

			msg := types.NewMsgSwapExactOutRoute(
				clientCtx.GetFromAddress().String(),
				path, amountOut, maxAmountIn,
			)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// intFlag reads a string flag and parses it as a non-negative math.Int.
func intFlag(cmd *cobra.Command, name string) (math.Int, error) {
	raw, err := cmd.Flags().GetString(name)
	if err != nil {
		return math.Int{}, err
	}
	v, ok := math.NewIntFromString(raw)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid %s: %s (must be integer)", name, raw)
	}
	if v.IsNegative() {
		return math.Int{}, fmt.Errorf("%s cannot be negative", name)
	}
	return v, nil
}
