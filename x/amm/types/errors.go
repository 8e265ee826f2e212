package types

import (
	"cosmossdk.io/errors"
)

// AMM module sentinel errors. Every failure mode has its own code so callers
// and tests can assert the exact kind with errors.Is.
var (
	ErrPairOrder                   = errors.Register(ModuleName, 2, "token pair not in canonical order")
	ErrPairExists                  = errors.Register(ModuleName, 3, "pool already exists for token pair")
	ErrPairNotFound                = errors.Register(ModuleName, 4, "pool not found for token pair")
	ErrInsufficientInputAmount     = errors.Register(ModuleName, 5, "input amount exceeds caller bound")
	ErrInsufficientOutputAmount    = errors.Register(ModuleName, 6, "output amount below caller bound")
	ErrInsufficientAAmount         = errors.Register(ModuleName, 7, "token A amount below minimum")
	ErrInsufficientBAmount         = errors.Register(ModuleName, 8, "token B amount below minimum")
	ErrInsufficientLiquidityMinted = errors.Register(ModuleName, 9, "liquidity minted would be zero")
	ErrKInvariant                  = errors.Register(ModuleName, 10, "constant product invariant violated")
	ErrLoan                        = errors.Register(ModuleName, 11, "invalid flash loan")
	ErrReentrancy                  = errors.Register(ModuleName, 12, "pool is locked by an in-flight flash loan")
	ErrPaused                      = errors.Register(ModuleName, 13, "module is paused")
	ErrForbidden                   = errors.Register(ModuleName, 14, "caller lacks required authority")
	ErrInvalidInput                = errors.Register(ModuleName, 15, "invalid input")
	ErrInsufficientLiquidity       = errors.Register(ModuleName, 16, "insufficient liquidity in pool")
	ErrInvalidState                = errors.Register(ModuleName, 17, "invalid module state")
)
