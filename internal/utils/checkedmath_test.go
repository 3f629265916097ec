package utils

import (
	"math"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"

	"github.com/solmm/mmw/internal/types"
)

func TestCheckedMul64(t *testing.T) {
	v, err := CheckedMul64(1_000_000, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000_000), v)

	_, err = CheckedMul64(math.MaxUint64, 2)
	require.ErrorIs(t, err, types.ErrMathOverflow)

	v, err = CheckedMul64(math.MaxUint64, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), v)
}

func TestCheckedAddInt64(t *testing.T) {
	v, err := CheckedAddInt64(10, -3)
	require.NoError(t, err)
	require.Equal(t, int64(7), v)

	_, err = CheckedAddInt64(math.MaxInt64, 1)
	require.ErrorIs(t, err, types.ErrMathOverflow)

	_, err = CheckedAddInt64(math.MinInt64, -1)
	require.ErrorIs(t, err, types.ErrMathOverflow)

	v, err = CheckedAddInt64(math.MaxInt64, 0)
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v)
}

func TestSaturatingAdd64(t *testing.T) {
	require.Equal(t, uint64(5), SaturatingAdd64(2, 3))
	require.Equal(t, uint64(math.MaxUint64), SaturatingAdd64(math.MaxUint64, 1))
	require.Equal(t, uint64(math.MaxUint64), SaturatingAdd64(math.MaxUint64, math.MaxUint64))
}

func TestSaturatingSub64(t *testing.T) {
	require.Equal(t, uint64(7), SaturatingSub64(10, 3))
	require.Equal(t, uint64(0), SaturatingSub64(3, 10))
	require.Equal(t, uint64(0), SaturatingSub64(5, 5))
}

func TestSaturatingAddNeverBelowOperands(t *testing.T) {
	prop := func(a, b uint64) bool {
		sum := SaturatingAdd64(a, b)
		return sum >= a || sum == math.MaxUint64
	}
	require.NoError(t, quick.Check(prop, nil))
}

func TestSaturatingSubRoundTrip(t *testing.T) {
	prop := func(a, b uint64) bool {
		if b > a {
			return SaturatingSub64(a, b) == 0
		}
		return SaturatingSub64(a, b)+b == a
	}
	require.NoError(t, quick.Check(prop, nil))
}
