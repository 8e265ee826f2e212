package types

// Event types emitted by the AMM module
const (
	EventTypeCreatePool           = "create_pool"
	EventTypeAddLiquidity         = "add_liquidity"
	EventTypeRemoveLiquidity      = "remove_liquidity"
	EventTypeSwap                 = "swap"
	EventTypeSync                 = "sync"
	EventTypeFlashBorrow          = "flash_borrow"
	EventTypeFlashRepay           = "flash_repay"
	EventTypeModulePaused         = "module_paused"
	EventTypeModuleUnpaused       = "module_unpaused"
	EventTypeParamsUpdated        = "params_updated"
	EventTypeProtocolFeeAccrued   = "protocol_fee_accrued"
	EventTypeProtocolFeeWithdrawn = "protocol_fee_withdrawn"
)

// Event attribute keys
const (
	AttributeKeyPoolID           = "pool_id"
	AttributeKeyTokenA           = "token_a"
	AttributeKeyTokenB           = "token_b"
	AttributeKeyReserveA         = "reserve_a"
	AttributeKeyReserveB         = "reserve_b"
	AttributeKeyAmountA          = "amount_a"
	AttributeKeyAmountB          = "amount_b"
	AttributeKeyAmountAIn        = "amount_a_in"
	AttributeKeyAmountBIn        = "amount_b_in"
	AttributeKeyAmountAOut       = "amount_a_out"
	AttributeKeyAmountBOut       = "amount_b_out"
	AttributeKeyShares           = "shares"
	AttributeKeyTotalShares      = "total_shares"
	AttributeKeyFee              = "fee"
	AttributeKeySender           = "sender"
	AttributeKeyCreator          = "creator"
	AttributeKeyProvider         = "provider"
	AttributeKeyRecipient        = "recipient"
	AttributeKeyPriceACumulative = "price_a_cumulative"
	AttributeKeyPriceBCumulative = "price_b_cumulative"
	AttributeKeyTimestampMs      = "timestamp_ms"
	AttributeKeyAuthority        = "authority"
	AttributeKeyField            = "field"
	AttributeKeyValue            = "value"
)
