package number

import (
	"errors"
	"math/big"
	"math/bits"

	"github.com/shopspring/decimal"
)

// BasisPoints 100% in bps
const BasisPoints = 10000

var (
	// ErrFractionalUnits amount has more decimal places than the asset supports
	ErrFractionalUnits = errors.New("amount has more decimal places than the asset")
	// ErrOutOfRange amount does not fit into uint64 base units
	ErrOutOfRange = errors.New("amount out of range")

	maxUint64 = decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)
)

// SafeAdd a + b, ok is false on overflow
func SafeAdd(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

// SafeSub a - b, ok is false on underflow
func SafeSub(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

// SaturatingSub a - b floored at zero
func SaturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}

	return a - b
}

// Amount base units to a human readable amount
func Amount(units uint64, decimals int32) decimal.Decimal {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(units), 0)
	return d.Shift(-decimals)
}

// Units human readable amount to base units
func Units(amount decimal.Decimal, decimals int32) (uint64, error) {
	shifted := amount.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, ErrFractionalUnits
	}

	if shifted.IsNegative() || shifted.GreaterThan(maxUint64) {
		return 0, ErrOutOfRange
	}

	return shifted.BigInt().Uint64(), nil
}

// Percent rate in bps as percent, 250 bps => 2.5
func Percent(bps uint16) decimal.Decimal {
	return decimal.New(int64(bps), -2)
}

// Rate rate in bps as a fraction, 250 bps => 0.025
func Rate(bps uint16) decimal.Decimal {
	return decimal.New(int64(bps), 0).Div(decimal.New(BasisPoints, 0))
}

// Bps percent rate to bps, 2.5 => 250
func Bps(percent decimal.Decimal) (uint16, error) {
	bps := percent.Shift(2)
	if !bps.Equal(bps.Truncate(0)) {
		return 0, ErrFractionalUnits
	}

	if bps.IsNegative() || bps.GreaterThan(decimal.New(1<<16-1, 0)) {
		return 0, ErrOutOfRange
	}

	return uint16(bps.IntPart()), nil
}
