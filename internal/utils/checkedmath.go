/*
This file contains overflow-checked and saturating arithmetic helpers.

Every scaled computation in the controller goes through these; silent
wraparound is never acceptable when the operands are balances.
*/

package utils

import (
	"math"
	"math/bits"

	"github.com/solmm/mmw/internal/types"
)

// CheckedMul64 multiplies two uint64 values, failing on overflow.
func CheckedMul64(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, types.ErrMathOverflow
	}
	return lo, nil
}

// CheckedAddInt64 adds two int64 values, failing on overflow.
func CheckedAddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, types.ErrMathOverflow
	}
	return sum, nil
}

// SaturatingAdd64 adds two uint64 values, clamping at the maximum.
func SaturatingAdd64(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// SaturatingSub64 subtracts b from a, clamping at zero.
func SaturatingSub64(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}
