package keeper

import (
	"math/big"
	"math/bits"

	"cosmossdk.io/math"

	"github.com/tarn-chain/tarn/x/amm/types"
)

// maxBitLen is the magnitude cap of math.Int; wide operations guard it
// before multiplying so adversarial inputs fail instead of panicking.
const maxBitLen = 256

// CanonicalOrder reports whether tokenA precedes tokenB in the canonical
// pair ordering. Pools are keyed by, and swap sides oriented to, this order.
func CanonicalOrder(tokenA, tokenB string) bool {
	return tokenA < tokenB
}

// Quote scales amountA by the current reserve ratio:
// amountB = amountA * reserveB / reserveA.
func Quote(amountA, reserveA, reserveB math.Int) (math.Int, error) {
	if amountA.IsNil() || !amountA.IsPositive() {
		return math.Int{}, types.ErrInvalidInput.Wrap("quote amount must be positive")
	}
	if reserveA.IsNil() || !reserveA.IsPositive() {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("zero reserve for quote")
	}
	return SafeMulDiv(amountA, reserveB, reserveA)
}

// IntegerSqrt returns floor(sqrt(a*b)). The product is taken at arbitrary
// precision so the full 64-bit reserve range cannot overflow.
func IntegerSqrt(a, b math.Int) math.Int {
	product := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return math.NewIntFromBigInt(product.Sqrt(product))
}

// sqrtInt returns floor(sqrt(v)) for a single stored product such as kLast.
func sqrtInt(v math.Int) math.Int {
	bi := v.BigInt()
	return math.NewIntFromBigInt(bi.Sqrt(bi))
}

// GetAmountOut computes the output amount for an exact input net of the
// trading fee:
//
//	inWithFee = amountIn * (10000 - feeBps)
//	out       = inWithFee * reserveOut / (reserveIn*10000 + inWithFee)
func GetAmountOut(amountIn, reserveIn, reserveOut math.Int, feeBps uint64) (math.Int, error) {
	if feeBps >= types.BpsDenominator {
		return math.Int{}, types.ErrInvalidInput.Wrapf("fee %d bps out of range", feeBps)
	}
	if amountIn.IsNil() || !amountIn.IsPositive() {
		return math.Int{}, types.ErrInsufficientInputAmount.Wrap("input amount must be positive")
	}
	if nilOrNonPositive(reserveIn) || nilOrNonPositive(reserveOut) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("empty reserves")
	}

	inWithFee, err := SafeMul(amountIn, math.NewIntFromUint64(types.BpsDenominator-feeBps))
	if err != nil {
		return math.Int{}, err
	}
	scaledReserveIn, err := SafeMul(reserveIn, math.NewIntFromUint64(types.BpsDenominator))
	if err != nil {
		return math.Int{}, err
	}
	return SafeMulDiv(inWithFee, reserveOut, scaledReserveIn.Add(inWithFee))
}

// GetAmountIn computes the input amount required for an exact output,
// rounded up so the caller never under-pays:
//
//	in = reserveIn*amountOut*10000 / ((reserveOut-amountOut)*(10000-feeBps)) + 1
func GetAmountIn(amountOut, reserveIn, reserveOut math.Int, feeBps uint64) (math.Int, error) {
	if feeBps >= types.BpsDenominator {
		return math.Int{}, types.ErrInvalidInput.Wrapf("fee %d bps out of range", feeBps)
	}
	if amountOut.IsNil() || !amountOut.IsPositive() {
		return math.Int{}, types.ErrInsufficientOutputAmount.Wrap("output amount must be positive")
	}
	if nilOrNonPositive(reserveIn) || nilOrNonPositive(reserveOut) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrap("empty reserves")
	}
	if amountOut.GTE(reserveOut) {
		return math.Int{}, types.ErrInsufficientLiquidity.Wrapf(
			"output %s not below reserve %s", amountOut, reserveOut)
	}

	scaledOut, err := SafeMul(amountOut, math.NewIntFromUint64(types.BpsDenominator))
	if err != nil {
		return math.Int{}, err
	}
	denominator, err := SafeMul(reserveOut.Sub(amountOut), math.NewIntFromUint64(types.BpsDenominator-feeBps))
	if err != nil {
		return math.Int{}, err
	}
	in, err := SafeMulDiv(reserveIn, scaledOut, denominator)
	if err != nil {
		return math.Int{}, err
	}
	return in.Add(math.OneInt()), nil
}

// SafeAddUint64 adds two native-width values, reporting overflow instead of
// wrapping.
func SafeAddUint64(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// SafeMulUint64 multiplies two native-width values, reporting overflow
// instead of wrapping. Callers fall back to the wide path on overflow.
func SafeMulUint64(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// SafeAdd adds two wide values, guarding the math.Int magnitude cap.
func SafeAdd(a, b math.Int) (math.Int, error) {
	if a.BigInt().BitLen() >= maxBitLen || b.BigInt().BitLen() >= maxBitLen {
		return math.Int{}, types.ErrInvalidInput.Wrap("addition overflow")
	}
	return a.Add(b), nil
}

// SafeMul multiplies two wide values, guarding the math.Int magnitude cap.
func SafeMul(a, b math.Int) (math.Int, error) {
	if a.BigInt().BitLen()+b.BigInt().BitLen() > maxBitLen {
		return math.Int{}, types.ErrInvalidInput.Wrap("multiplication overflow")
	}
	return a.Mul(b), nil
}

// SafeMulDiv computes a*b/den at arbitrary intermediate precision; only the
// quotient must fit the wide width.
func SafeMulDiv(a, b, den math.Int) (math.Int, error) {
	if den.IsNil() || den.IsZero() {
		return math.Int{}, types.ErrInvalidInput.Wrap("division by zero")
	}
	num := new(big.Int).Mul(a.BigInt(), b.BigInt())
	q := num.Quo(num, den.BigInt())
	if q.BitLen() > maxBitLen {
		return math.Int{}, types.ErrInvalidInput.Wrap("quotient overflow")
	}
	return math.NewIntFromBigInt(q), nil
}

func nilOrNonPositive(v math.Int) bool {
	return v.IsNil() || !v.IsPositive()
}
