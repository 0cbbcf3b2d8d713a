package morton

// offsets is the fixed table of odd primes used to derive a fingerprint's
// alternate-bucket displacement. The table and its order are part of the
// filter's external contract: changing it changes which bucket any given
// fingerprint kicks to, and therefore the serialized layout of an existing
// filter.
var offsets = [32]uint64{
	83, 149, 211, 277, 337, 397, 457, 521, 587, 653, 719, 787, 853, 919, 983,
	1051, 1117, 1181, 1249, 1319, 1399, 1459, 1511, 1571, 1637, 1699, 1759,
	1823, 1889, 1951, 2017, 1579,
}

// offsetFor returns the alternate-bucket displacement for fp.
func offsetFor(fp Fingerprint) uint64 {
	return offsets[uint64(fp)%uint64(len(offsets))]
}

// h1 returns item's primary global bucket in [0, n).
func h1(hash32 Hash32Func, item []byte, n uint64) uint64 {
	return uint64(hash32(item)) % n
}

// hPrime computes the self-inverse alternate bucket for fp given the global
// bucket it currently occupies: the displacement is added when bucket is
// odd and subtracted when even. n is the total bucket count (K*B); the
// result is reduced into [0, n) by a full Euclidean modulo rather than a
// single ± n correction, since the offset table holds values up to 2017
// and a small filter's N can be smaller than that — a single correction
// would under-wrap and produce an out-of-range bucket.
//
// Self-inverse depends on every offset being odd (true of the whole table)
// and N being even: subtracting multiples of an even N never changes the
// parity of bucket+-d, so the two calls always select opposite signs and
// cancel exactly. Params.validate checks this exhaustively for the
// configured (K, B) at construction time rather than assuming it.
func hPrime(bucket uint64, fp Fingerprint, n uint64) uint64 {
	d := int64(offsetFor(fp))
	var cand int64
	if bucket&1 == 1 {
		cand = int64(bucket) + d
	} else {
		cand = int64(bucket) - d
	}
	m := cand % int64(n)
	if m < 0 {
		m += int64(n)
	}
	return uint64(m)
}

// h2 returns item's secondary global bucket, derived from its primary bucket
// and fingerprint via hPrime rather than a second independent hash, so the
// filter never needs to remember which of h1/h2 an item was stored under.
func h2(hash32 Hash32Func, item []byte, wFp int, n uint64) uint64 {
	g1 := h1(hash32, item, n)
	fp := fingerprint(hash32, item, wFp)
	return hPrime(g1, fp, n)
}
