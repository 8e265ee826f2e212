package types

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// MinimumLiquidity is the share amount permanently locked in a pool on
	// its first deposit so total supply can never return to zero while
	// reserves are nonzero.
	MinimumLiquidity = 1000

	// BpsDenominator is the fee basis-point scale: 10000 bps = 100%.
	BpsDenominator = 10000

	// MaxSwapFeeBps bounds the configurable swap fee at 10%.
	MaxSwapFeeBps = 1000
)

// Params holds the AMM module configuration.
type Params struct {
	// AdminAddress is the principal allowed to pause the module and change
	// configuration.
	AdminAddress string `json:"admin_address"`
	// FeeRecipient may withdraw accrued protocol-fee shares.
	FeeRecipient string `json:"fee_recipient"`
	// SwapFeeBps is the trading fee in basis points charged on swap inputs.
	SwapFeeBps uint64 `json:"swap_fee_bps"`
	// ProtocolFeeDenominator sets the protocol share of invariant growth:
	// shares minted = S*(rootK-rootKLast)/(rootK*denominator + rootKLast).
	ProtocolFeeDenominator uint64 `json:"protocol_fee_denominator"`
	// ProtocolFeeEnabled gates protocol-fee accrual.
	ProtocolFeeEnabled bool `json:"protocol_fee_enabled"`
}

// DefaultParams returns the default AMM configuration: 30 bps swap fee and a
// 1/6 protocol share of fee growth, with no admin or recipient set until
// genesis or governance assigns them.
func DefaultParams() Params {
	return Params{
		AdminAddress:           "",
		FeeRecipient:           "",
		SwapFeeBps:             30,
		ProtocolFeeDenominator: 5,
		ProtocolFeeEnabled:     true,
	}
}

// Validate checks parameter constraints.
func (p Params) Validate() error {
	if p.SwapFeeBps > MaxSwapFeeBps {
		return fmt.Errorf("swap fee %d bps exceeds maximum %d", p.SwapFeeBps, MaxSwapFeeBps)
	}
	if p.ProtocolFeeEnabled && p.ProtocolFeeDenominator == 0 {
		return fmt.Errorf("protocol fee enabled with zero denominator")
	}
	if p.AdminAddress != "" {
		if _, err := sdk.AccAddressFromBech32(p.AdminAddress); err != nil {
			return fmt.Errorf("invalid admin address: %w", err)
		}
	}
	if p.FeeRecipient != "" {
		if _, err := sdk.AccAddressFromBech32(p.FeeRecipient); err != nil {
			return fmt.Errorf("invalid fee recipient: %w", err)
		}
	}
	return nil
}
