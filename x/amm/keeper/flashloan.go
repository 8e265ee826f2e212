package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// FlashLoanTicket is the receipt for an outstanding flash loan. Fields are
// unexported so a loan can only be settled through Repay with the ticket
// Borrow issued, and each ticket settles exactly once.
type FlashLoanTicket struct {
	poolID      uint64
	loanA       math.Int
	loanB       math.Int
	outstanding bool
}

// PoolID returns the pool the loan was drawn from.
func (t *FlashLoanTicket) PoolID() uint64 { return t.poolID }

// LoanA returns the borrowed amount of the pool's first denom.
func (t *FlashLoanTicket) LoanA() math.Int { return t.loanA }

// LoanB returns the borrowed amount of the pool's second denom.
func (t *FlashLoanTicket) LoanB() math.Int { return t.loanB }

// Outstanding reports whether the loan still awaits repayment.
func (t *FlashLoanTicket) Outstanding() bool { return t.outstanding }

// Borrow draws up to both denoms of a pair out of the reserves and hands
// them to the borrower, locking the pool until Repay settles the ticket.
// Every pool operation checks the lock, so nothing trades against the
// depleted reserves in between.
func (k Keeper) Borrow(ctx context.Context, borrower sdk.AccAddress, tokenA, tokenB string, loanA, loanB math.Int) (*FlashLoanTicket, error) {
	if err := k.requireNotPaused(ctx); err != nil {
		return nil, err
	}
	if !CanonicalOrder(tokenA, tokenB) {
		return nil, types.ErrPairOrder.Wrapf("%s must sort before %s", tokenA, tokenB)
	}
	pool, found := k.GetPoolByDenoms(ctx, tokenA, tokenB)
	if !found {
		return nil, types.ErrPairNotFound.Wrapf("no pool for %s/%s", tokenA, tokenB)
	}
	if pool.Locked {
		return nil, types.ErrReentrancy.Wrapf("pool %d is locked by an active loan", pool.Id)
	}
	loanA, loanB = orZero(loanA), orZero(loanB)
	if loanA.IsNegative() || loanB.IsNegative() {
		return nil, types.ErrLoan.Wrap("loan amounts must not be negative")
	}
	if loanA.IsZero() && loanB.IsZero() {
		return nil, types.ErrLoan.Wrap("at least one loan amount must be positive")
	}
	if loanA.GT(pool.ReserveA) || loanB.GT(pool.ReserveB) {
		return nil, types.ErrLoan.Wrapf("loan %s/%s exceeds reserves %s/%s",
			loanA, loanB, pool.ReserveA, pool.ReserveB)
	}

	k.updateReserves(ctx, &pool, pool.ReserveA.Sub(loanA), pool.ReserveB.Sub(loanB))
	pool.Locked = true
	k.SetPool(ctx, pool)

	payout := sdk.NewCoins(sdk.NewCoin(tokenA, loanA), sdk.NewCoin(tokenB, loanB))
	if err := k.bankKeeper.SendCoinsFromModuleToAccount(ctx, types.ModuleName, borrower, payout); err != nil {
		return nil, err
	}

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlashBorrow,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", pool.Id)),
			sdk.NewAttribute(types.AttributeKeySender, borrower.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, loanA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, loanB.String()),
		),
	)
	k.Logger(ctx).Info("flash borrow",
		"pool_id", pool.Id, "loan_a", loanA.String(), "loan_b", loanB.String(),
		"borrower", borrower.String())
	recordFlashLoan(tokenA, tokenB)

	return &FlashLoanTicket{poolID: pool.Id, loanA: loanA, loanB: loanB, outstanding: true}, nil
}

// Repay settles a flash loan: the payer returns funds of their choosing, and
// the constant-product check against the pre-loan baseline, with the swap
// fee applied to the repaid amounts, decides whether the repayment is
// sufficient. The pool unlocks only on success; a transaction that borrows
// without repaying aborts entirely, so the lock cannot outlive it.
func (k Keeper) Repay(ctx context.Context, payer sdk.AccAddress, ticket *FlashLoanTicket, repayA, repayB math.Int) error {
	if ticket == nil || !ticket.outstanding {
		return types.ErrLoan.Wrap("ticket already settled")
	}
	if err := k.requireNotPaused(ctx); err != nil {
		return err
	}
	pool, found := k.GetPool(ctx, ticket.poolID)
	if !found {
		return types.ErrPairNotFound.Wrapf("pool %d", ticket.poolID)
	}
	if !pool.Locked {
		return types.ErrInvalidState.Wrapf("pool %d is not locked", ticket.poolID)
	}
	repayA, repayB = orZero(repayA), orZero(repayB)
	if repayA.IsNegative() || repayB.IsNegative() {
		return types.ErrLoan.Wrap("repay amounts must not be negative")
	}

	repayment := sdk.NewCoins(sdk.NewCoin(pool.TokenA, repayA), sdk.NewCoin(pool.TokenB, repayB))
	if err := k.bankKeeper.SendCoinsFromAccountToModule(ctx, payer, types.ModuleName, repayment); err != nil {
		return err
	}

	baselineA := pool.ReserveA.Add(ticket.loanA)
	baselineB := pool.ReserveB.Add(ticket.loanB)
	balanceA := pool.ReserveA.Add(repayA)
	balanceB := pool.ReserveB.Add(repayB)
	feeBps := k.GetParams(ctx).SwapFeeBps
	if err := checkConstantProduct(baselineA, baselineB, balanceA, balanceB, repayA, repayB, feeBps); err != nil {
		return err
	}

	pool.Locked = false
	k.updateReserves(ctx, &pool, balanceA, balanceB)
	k.SetPool(ctx, pool)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFlashRepay,
			sdk.NewAttribute(types.AttributeKeyPoolID, fmt.Sprintf("%d", ticket.poolID)),
			sdk.NewAttribute(types.AttributeKeySender, payer.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, repayA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, repayB.String()),
		),
	)
	k.Logger(ctx).Info("flash repay",
		"pool_id", ticket.poolID, "repay_a", repayA.String(), "repay_b", repayB.String(),
		"payer", payer.String())

	ticket.outstanding = false
	return nil
}

// FlashLoan borrows, runs fn with the loaned coins, and repays whatever fn
// returns from the borrower's balance. This is the supported integration
// path for other modules; any error unwinds the whole operation with the
// enclosing transaction.
func (k Keeper) FlashLoan(
	ctx context.Context,
	borrower sdk.AccAddress,
	tokenA, tokenB string,
	loanA, loanB math.Int,
	fn func(ctx context.Context, loaned sdk.Coins) (repayA, repayB math.Int, err error),
) error {
	ticket, err := k.Borrow(ctx, borrower, tokenA, tokenB, loanA, loanB)
	if err != nil {
		return err
	}
	loaned := sdk.NewCoins(sdk.NewCoin(tokenA, ticket.loanA), sdk.NewCoin(tokenB, ticket.loanB))
	repayA, repayB, err := fn(ctx, loaned)
	if err != nil {
		return types.ErrLoan.Wrapf("loan callback: %s", err)
	}
	return k.Repay(ctx, borrower, ticket, repayA, repayB)
}

// FlashRepayAmount returns the smallest repayment that satisfies the
// constant-product check for a single-sided loan: ceil(loan*10000/(10000-feeBps)).
func FlashRepayAmount(loan math.Int, feeBps uint64) math.Int {
	if loan.IsNil() || !loan.IsPositive() {
		return math.ZeroInt()
	}
	bps := math.NewIntFromUint64(types.BpsDenominator)
	net := math.NewIntFromUint64(types.BpsDenominator - feeBps)
	return loan.Mul(bps).Add(net.SubRaw(1)).Quo(net)
}

func orZero(v math.Int) math.Int {
	if v.IsNil() {
		return math.ZeroInt()
	}
	return v
}
