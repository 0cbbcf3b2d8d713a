// Package fnvhash supplies ready-made hash32 implementations for callers of
// the morton package that don't want to bring their own. The filter itself
// treats hash32 as an injected dependency (see morton.Hash32Func); this
// package exists only to give that dependency a concrete, deterministic
// default so a caller can get started with one import.
package fnvhash

import (
	"hash/fnv"

	"github.com/cespare/xxhash/v2"
)

// XXHash32 derives a 32-bit hash from the 64-bit xxhash digest of b. xxhash
// is deterministic across runs and architectures, which is required for the
// filter's serialized output to be reproducible.
func XXHash32(b []byte) uint32 {
	return uint32(xxhash.Sum64(b))
}

// FNV32a is a stdlib-only fallback hash32, kept for callers who want to
// avoid the xxhash dependency entirely.
func FNV32a(b []byte) uint32 {
	h := fnv.New32a()
	_, _ = h.Write(b)
	return h.Sum32()
}
