package morton

import "github.com/anastasiam/mortonfilter/internal/bitpack"

// blockCandidate pairs a stored fingerprint with the local bucket that owns
// it, as produced by walking a block's FCA during block-overflow eviction.
type blockCandidate struct {
	bucket int
	fp     Fingerprint
}

// Block holds one cache-line-sized unit of the filter: a Fingerprint
// Storage Array (FSA), a Fullness Counter Array (FCA), and an Overflow
// Tracking Array (OTA). The FSA is not partitioned by bucket; the slots
// belonging to bucket b are the run [prefixSum(b), prefixSum(b)+FCA[b]) and
// are kept contiguous by shifting on every insert and delete.
type Block struct {
	no  int
	fsa bitpack.Array // nfp elements, wFp bits each
	fca bitpack.Array // b elements, fcaWidth bits each
	ota bitpack.Array // wOTA elements, 1 bit each

	b, s, nfp, wOTA int
}

func newBlock(no int, wFp, b, s, nfp, wOTA, fcaWidth int) *Block {
	return &Block{
		no:   no,
		fsa:  bitpack.New(nfp, wFp),
		fca:  bitpack.New(b, fcaWidth),
		ota:  bitpack.New(wOTA, 1),
		b:    b,
		s:    s,
		nfp:  nfp,
		wOTA: wOTA,
	}
}

// BucketCapacity returns the current occupancy of local bucket lbi.
func (blk *Block) BucketCapacity(lbi int) int {
	return int(blk.fca.Get(lbi))
}

// HasCapacity reports whether the block's FSA has at least one free slot:
// true iff the last FSA slot is still the empty-slot sentinel.
func (blk *Block) HasCapacity() bool {
	return blk.fsa.Get(blk.nfp-1) == 0
}

// offset returns the FSA index at which bucket lbi's run begins: the sum of
// every preceding bucket's occupancy counter.
func (blk *Block) offset(lbi int) int {
	return blk.fca.PrefixSum(lbi)
}

// SimpleStore appends fp to the end of bucket lbi's run, shifting the FSA
// suffix right by one slot. Reports whether there was room; callers check
// BucketCapacity and HasCapacity before relying on a true result, but
// SimpleStore re-checks both itself rather than trusting the caller.
func (blk *Block) SimpleStore(lbi int, fp Fingerprint) bool {
	cap := blk.BucketCapacity(lbi)
	if cap == blk.s || !blk.HasCapacity() {
		return false
	}
	off := blk.offset(lbi)
	blk.fsa.ShiftRightFrom(off + cap)
	blk.fsa.Set(off+cap, uint64(fp))
	blk.fca.Set(lbi, uint64(cap+1))
	return true
}

// ReadAndCmp reports whether any of bucket lbi's stored fingerprints equal fp.
func (blk *Block) ReadAndCmp(lbi int, fp Fingerprint) bool {
	off := blk.offset(lbi)
	cap := blk.BucketCapacity(lbi)
	for i := 0; i < cap; i++ {
		if Fingerprint(blk.fsa.Get(off+i)) == fp {
			return true
		}
	}
	return false
}

// indexOTA maps a local bucket to its OTA bit.
func (blk *Block) indexOTA(lbi int) int {
	return lbi % blk.wOTA
}

// SetOTA marks that local bucket lbi may have had an item relocated away
// from it. OTA bits are only ever set, never cleared.
func (blk *Block) SetOTA(lbi int) {
	blk.ota.Set(blk.indexOTA(lbi), 1)
}

// GetOTA reports the OTA bit for local bucket lbi.
func (blk *Block) GetOTA(lbi int) bool {
	return blk.ota.Get(blk.indexOTA(lbi)) == 1
}

// CandidatesInBucket returns the fingerprints currently stored in bucket
// lbi, in storage order. Used during bucket-overflow eviction.
func (blk *Block) CandidatesInBucket(lbi int) []Fingerprint {
	off := blk.offset(lbi)
	cap := blk.BucketCapacity(lbi)
	out := make([]Fingerprint, cap)
	for i := 0; i < cap; i++ {
		out[i] = Fingerprint(blk.fsa.Get(off + i))
	}
	return out
}

// ReplaceInBucket finds old within bucket lbi and overwrites that slot with
// replacement in place, without shifting or touching FCA. Used when a kick's
// evicted candidate stays logically in the same bucket it came from (the
// incoming fingerprint simply takes its slot). Reports whether old was found.
func (blk *Block) ReplaceInBucket(lbi int, old, replacement Fingerprint) bool {
	off := blk.offset(lbi)
	cap := blk.BucketCapacity(lbi)
	for i := 0; i < cap; i++ {
		if Fingerprint(blk.fsa.Get(off+i)) == old {
			blk.fsa.Set(off+i, uint64(replacement))
			return true
		}
	}
	return false
}

// DeleteFromBucket finds fp within bucket lbi, removes it by shifting the
// FSA suffix left by one slot, and decrements bucket lbi's FCA counter.
// Reports whether fp was found.
func (blk *Block) DeleteFromBucket(lbi int, fp Fingerprint) bool {
	off := blk.offset(lbi)
	cap := blk.BucketCapacity(lbi)
	for i := 0; i < cap; i++ {
		if Fingerprint(blk.fsa.Get(off+i)) == fp {
			blk.fsa.ShiftLeftFrom(off + i)
			blk.fca.Set(lbi, uint64(cap-1))
			return true
		}
	}
	return false
}

// AllCandidates walks every bucket's run and returns every stored
// fingerprint paired with its owning local bucket, in FSA order. Used
// during block-overflow eviction, where any fingerprint in the block is a
// candidate to relocate.
func (blk *Block) AllCandidates() []blockCandidate {
	out := make([]blockCandidate, 0, blk.nfp)
	for lbi := 0; lbi < blk.b; lbi++ {
		cap := blk.BucketCapacity(lbi)
		off := blk.offset(lbi)
		for i := 0; i < cap; i++ {
			out = append(out, blockCandidate{bucket: lbi, fp: Fingerprint(blk.fsa.Get(off + i))})
		}
	}
	return out
}

// sumFCA returns the sum of every bucket's occupancy counter, used by the
// counter-consistency invariant check.
func (blk *Block) sumFCA() int {
	sum := 0
	for i := 0; i < blk.b; i++ {
		sum += blk.BucketCapacity(i)
	}
	return sum
}

// Serialize renders the block's three arrays as a single MSB-first ASCII
// bit string: FSA, then FCA, then OTA.
func (blk *Block) Serialize() string {
	return blk.fsa.Bits() + blk.fca.Bits() + blk.ota.Bits()
}
