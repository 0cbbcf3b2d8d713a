// Package morton implements a Morton filter: a block-partitioned,
// cache-line-sized cuckoo filter variant that trades a small amount of extra
// bookkeeping (per-bucket fullness counters and a per-block overflow
// tracking array) for substantially denser fingerprint packing than a
// standard cuckoo filter.
package morton

// Hash32Func is the only hashing primitive the filter depends on. It must be
// deterministic across runs for Serialize's output to be reproducible; the
// choice of algorithm is the caller's (see the fnvhash package for two
// ready-made options).
type Hash32Func func(item []byte) uint32

// Fingerprint is a nonzero, W_fp-bit unsigned tag derived from an item. The
// zero value is reserved as the "empty slot" sentinel in a Block's FSA.
type Fingerprint uint64

// fingerprint derives a W_fp-bit nonzero fingerprint for item using hash32.
// It takes the top wFp bits of the 32-bit hash and remaps a zero result to
// one, since zero is reserved to mean "empty slot" in the FSA.
func fingerprint(hash32 Hash32Func, item []byte, wFp int) Fingerprint {
	h := hash32(item)
	fp := Fingerprint(h >> uint(32-wFp))
	if fp == 0 {
		fp = 1
	}
	return fp
}
