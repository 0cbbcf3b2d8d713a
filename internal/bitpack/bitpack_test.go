package bitpack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSetRoundTrip(t *testing.T) {
	a := New(10, 8)
	a.Set(3, 0xAB)
	require.Equal(t, uint64(0xAB), a.Get(3))
	require.Equal(t, uint64(0), a.Get(0))
}

func TestPrefixSum(t *testing.T) {
	a := New(5, 2)
	a.Set(0, 1)
	a.Set(1, 2)
	a.Set(2, 3)
	require.Equal(t, 0, a.PrefixSum(0))
	require.Equal(t, 1, a.PrefixSum(1))
	require.Equal(t, 3, a.PrefixSum(2))
	require.Equal(t, 6, a.PrefixSum(3))
}

func TestShiftRightFromPreservesPrefix(t *testing.T) {
	a := New(5, 8)
	for i := 0; i < 4; i++ {
		a.Set(i, uint64(i+1))
	}
	a.ShiftRightFrom(2)
	a.Set(2, 99)
	require.Equal(t, []uint64{1, 2, 99, 3, 4}, readAll(a))
}

func TestShiftLeftFromRemovesAndZeros(t *testing.T) {
	a := New(5, 8)
	for i := 0; i < 5; i++ {
		a.Set(i, uint64(i+1))
	}
	a.ShiftLeftFrom(1)
	require.Equal(t, []uint64{1, 3, 4, 5, 0}, readAll(a))
}

func TestBitsIsMSBFirst(t *testing.T) {
	a := New(2, 4)
	a.Set(0, 0b1010)
	a.Set(1, 0b0001)
	require.Equal(t, "10100001", a.Bits())
}

func readAll(a Array) []uint64 {
	out := make([]uint64, a.Len())
	for i := range out {
		out[i] = a.Get(i)
	}
	return out
}
