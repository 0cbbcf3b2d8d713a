// Package bitpack adapts github.com/bradenaw/bitarray into the fixed-width,
// element-addressable storage the Morton filter's three per-block arrays need:
// a dense run of equal-width unsigned fields, read and written one element at
// a time, plus the handful of bulk operations (prefix sum, shift-right-by-one,
// shift-left-by-one) that the filter's insert and eviction paths build on top
// of that.
package bitpack

import (
	"strings"

	"github.com/bradenaw/bitarray"
)

// Array is a dense sequence of n unsigned elements, each width bits wide,
// MSB-first within each element.
type Array struct {
	inner bitarray.BitArray
	width int
}

// New allocates an Array of n elements, each width bits wide. All elements
// start at zero.
func New(n, width int) Array {
	return Array{inner: bitarray.New(n, width), width: width}
}

// Len returns the element count.
func (a Array) Len() int { return a.inner.Len() }

// Width returns the per-element bit width.
func (a Array) Width() int { return a.width }

// Get returns the value stored at element i.
func (a Array) Get(i int) uint64 { return a.inner.Get(i) }

// Set stores v at element i. v must fit in Width() bits.
func (a Array) Set(i int, v uint64) { a.inner.Set(i, v) }

// PrefixSum returns the sum of Get(0)..Get(n-1) for n < Len(); used to turn a
// bucket index into its starting offset in a sibling array addressed by
// cumulative occupancy (the FSA is addressed this way via the FCA).
func (a Array) PrefixSum(n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(a.Get(i))
	}
	return sum
}

// ShiftRightFrom moves every element at index >= from up by one position,
// discarding the last element and leaving index from unchanged (the caller
// overwrites it next). The caller is responsible for ensuring the discarded
// element was zero.
func (a Array) ShiftRightFrom(from int) {
	for i := a.Len() - 1; i > from; i-- {
		a.Set(i, a.Get(i-1))
	}
}

// ShiftLeftFrom moves every element at index > from down by one position,
// zeroing the last element. This is the inverse of ShiftRightFrom, used to
// delete an element at index from.
func (a Array) ShiftLeftFrom(from int) {
	for i := from; i < a.Len()-1; i++ {
		a.Set(i, a.Get(i+1))
	}
	a.Set(a.Len()-1, 0)
}

// Bits renders the array as an ASCII '0'/'1' string, MSB-first within each
// element, elements in index order — the wire format Serialize uses.
func (a Array) Bits() string {
	var sb strings.Builder
	sb.Grow(a.Len() * a.width)
	for i := 0; i < a.Len(); i++ {
		v := a.Get(i)
		for b := a.width - 1; b >= 0; b-- {
			if (v>>uint(b))&1 == 1 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
	}
	return sb.String()
}
