package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/client/flags"
	"github.com/cosmos/cosmos-sdk/client/tx"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// CmdWithdrawProtocolFees returns a CLI command handler for collecting protocol fees
func CmdWithdrawProtocolFees() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withdraw-fees [pool-id]",
		Short: "Withdraw accrued protocol-fee shares from a pool",
		Long: `Withdraw a pool's accrued protocol-fee shares to the signer, who must be
the configured fee recipient. The permanently locked minimum-liquidity
shares stay in the pool.

Example:
  $ tarnd tx amm withdraw-fees 1 --from feerecipient`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			poolID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid pool ID: %w", err)
			}

			msg := types.NewMsgWithdrawProtocolFees(clientCtx.GetFromAddress().String(), poolID)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetSwapFee returns a CLI command handler for updating the swap fee
func CmdSetSwapFee() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-swap-fee [fee-bps]",
		Short: "Set the trading fee in basis points (admin only)",
		Long: `Set the trading fee charged on swap inputs, in basis points. The signer
must be the module admin.

Example:
  $ tarnd tx amm set-swap-fee 30 --from admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			feeBps, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid fee-bps: %w", err)
			}

			msg := types.NewMsgSetSwapFee(clientCtx.GetFromAddress().String(), feeBps)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetProtocolFee returns a CLI command handler for updating the protocol fee cut
func CmdSetProtocolFee() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-protocol-fee [denominator]",
		Short: "Set the protocol-fee denominator (admin only)",
		Long: `Set the protocol share of pool fee growth. A denominator of n gives the
protocol roughly 1/(n+1) of the growth; zero disables protocol fees. The
signer must be the module admin.

Example:
  $ tarnd tx amm set-protocol-fee 5 --from admin
  $ tarnd tx amm set-protocol-fee 0 --from admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			denominator, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid denominator: %w", err)
			}

			msg := types.NewMsgSetProtocolFee(clientCtx.GetFromAddress().String(), denominator)

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetFeeRecipient returns a CLI command handler for updating the fee recipient
func CmdSetFeeRecipient() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-fee-recipient [recipient]",
		Short: "Set the protocol-fee recipient (admin only)",
		Long: `Set the address allowed to withdraw accrued protocol-fee shares. The
signer must be the module admin.

Example:
  $ tarnd tx amm set-fee-recipient tarn1treasury... --from admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgSetFeeRecipient(clientCtx.GetFromAddress().String(), args[0])

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdSetAdmin returns a CLI command handler for transferring the admin role
func CmdSetAdmin() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-admin [new-admin]",
		Short: "Transfer the module admin role (admin only)",
		Long: `Transfer the admin role to a new address. The signer must be the current
module admin.

Example:
  $ tarnd tx amm set-admin tarn1newadmin... --from admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgSetAdmin(clientCtx.GetFromAddress().String(), args[0])

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdPause returns a CLI command handler for halting the module
func CmdPause() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pause",
		Short: "Halt all state-changing AMM operations (admin only)",
		Long: `Halt pool creation, liquidity changes, swaps and flash loans. Queries and
fee withdrawal stay available. The signer must be the module admin.

Example:
  $ tarnd tx amm pause --from admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgPause(clientCtx.GetFromAddress().String())

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}

// CmdUnpause returns a CLI command handler for resuming the module
func CmdUnpause() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpause",
		Short: "Resume AMM operations (admin only)",
		Long: `Resume all AMM operations after a pause. The signer must be the module
admin.

Example:
  $ tarnd tx amm unpause --from admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCtx, err := client.GetClientTxContext(cmd)
			if err != nil {
				return err
			}

			msg := types.NewMsgUnpause(clientCtx.GetFromAddress().String())

			if err := msg.ValidateBasic(); err != nil {
				return err
			}

			return tx.GenerateOrBroadcastTxCLI(clientCtx, cmd.Flags(), msg)
		},
	}

	flags.AddTxFlagsToCmd(cmd)
	return cmd
}
