package cli

// Flag constants for amm CLI commands
const (
	// Liquidity flags
	FlagAmountAMin = "amount-a-min"
	FlagAmountBMin = "amount-b-min"
)
