package morton

import (
	"math/rand"
	"time"

	"github.com/anastasiam/mortonfilter/internal/morterr"
)

// MaxKicks bounds the cuckoo eviction loop. Hitting it means the filter is
// overfull; the loop aborts and the filter is left well-formed with the
// triggering item unstored.
const MaxKicks = 8000

// MortonFilter is an ordered sequence of Blocks sharing one set of Params,
// together with the two-choice hashing and eviction logic that places
// fingerprints into them. The zero value is not usable; construct with New.
type MortonFilter struct {
	params Params
	blocks []*Block
	hash32 Hash32Func
	rnd    *rand.Rand
	n      uint64 // K*B, the hashing domain
}

// Option configures a MortonFilter at construction time.
type Option func(*MortonFilter)

// WithParams overrides DefaultParams.
func WithParams(p Params) Option {
	return func(mf *MortonFilter) { mf.params = p }
}

// WithRand supplies a seeded random source for the eviction tie-break, for
// reproducible inserts and golden-output tests. Without this option, New
// seeds its own source from the current time.
func WithRand(r *rand.Rand) Option {
	return func(mf *MortonFilter) { mf.rnd = r }
}

// New builds a filter of k blocks using hash32 as the hashing primitive. It
// returns a morterr.ErrParameter-wrapped error if the resulting parameters
// are inconsistent, including if the alternate-bucket function fails to be
// self-inverse for the resulting bucket count.
func New(k int, hash32 Hash32Func, opts ...Option) (*MortonFilter, error) {
	mf := &MortonFilter{params: DefaultParams(), hash32: hash32}
	for _, opt := range opts {
		opt(mf)
	}
	if hash32 == nil {
		return nil, morterr.Parameter("hash32 must not be nil")
	}
	if err := mf.params.validate(k); err != nil {
		return nil, err
	}
	if mf.rnd == nil {
		mf.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	p := mf.params
	fcaWidth := p.fcaWidth()
	mf.blocks = make([]*Block, k)
	for i := range mf.blocks {
		mf.blocks[i] = newBlock(i, p.WFp, p.B, p.S, p.NFp, p.WOTA, fcaWidth)
	}
	mf.n = uint64(k * p.B)
	return mf, nil
}

// RecommendedBlockCount sizes a filter for an expected item count, matching
// the original driver's heuristic of one block per N_fp items plus one.
func RecommendedBlockCount(itemCount int, p Params) int {
	return itemCount/p.NFp + 1
}

// Params returns the filter's construction parameters.
func (mf *MortonFilter) Params() Params { return mf.params }

// BlockCount returns the number of blocks in the filter.
func (mf *MortonFilter) BlockCount() int { return len(mf.blocks) }

// locate splits a global bucket index into its owning block and local
// bucket index.
func (mf *MortonFilter) locate(g uint64) (*Block, int) {
	b := uint64(mf.params.B)
	return mf.blocks[g/b], int(g % b)
}

func (mf *MortonFilter) globalBucket(blk *Block, lbi int) uint64 {
	return uint64(blk.no)*uint64(mf.params.B) + uint64(lbi)
}

// fits reports whether bucket lbi of blk has both bucket-slack (under S
// occupants) and block-slack (the FSA isn't entirely full).
func fits(blk *Block, lbi, s int) bool {
	return blk.BucketCapacity(lbi) < s && blk.HasCapacity()
}

// InsertOutcome classifies how Insert placed (or failed to place) an item,
// for callers that want to log or count placements by kind rather than just
// success/failure.
type InsertOutcome int

const (
	// OutcomeStoredPrimary means the item fit directly in its h1 bucket.
	OutcomeStoredPrimary InsertOutcome = iota
	// OutcomeStoredSecondary means h1 was full but the item fit in h2.
	OutcomeStoredSecondary
	// OutcomeEvictedBucketOverflow means placement required a kick chain
	// that ended by relocating an occupant out of a full bucket
	// (FCA[lbi] == S).
	OutcomeEvictedBucketOverflow
	// OutcomeEvictedBlockOverflow means placement required a kick chain
	// that ended by relocating an occupant out of an entirely full block
	// (FSA had no free slot).
	OutcomeEvictedBlockOverflow
	// OutcomeDuplicate means the item was already present, so Insert was a
	// no-op rather than risk two identical fingerprints in one bucket.
	OutcomeDuplicate
	// OutcomeFailed means the eviction loop exhausted MaxKicks or hit an
	// invariant violation; err carries the reason.
	OutcomeFailed
)

// String renders the outcome the way the filter's original diagnostic
// tracing names these cases.
func (o InsertOutcome) String() string {
	switch o {
	case OutcomeStoredPrimary:
		return "stored-at-h1"
	case OutcomeStoredSecondary:
		return "stored-at-h2"
	case OutcomeEvictedBucketOverflow:
		return "evicted-via-bucket-overflow"
	case OutcomeEvictedBlockOverflow:
		return "evicted-via-block-overflow"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Insert adds item to the filter. It is a no-op if Check(item) already
// reports the item present, since two identical fingerprints in one bucket
// would be indistinguishable during eviction. It returns
// morterr.ErrCapacityExhausted if the eviction loop exhausts MaxKicks
// without finding a placement; the filter remains well-formed in that case.
func (mf *MortonFilter) Insert(item []byte) error {
	_, err := mf.InsertWithOutcome(item)
	return err
}

// InsertWithOutcome behaves like Insert but also reports which of the
// placement paths was taken, for callers (such as the driver's verbose
// logging) that want to classify insertions rather than just detect
// failure.
func (mf *MortonFilter) InsertWithOutcome(item []byte) (InsertOutcome, error) {
	fp := fingerprint(mf.hash32, item, mf.params.WFp)
	if mf.Check(item) {
		return OutcomeDuplicate, nil
	}

	g1 := h1(mf.hash32, item, mf.n)
	blk1, lbi1 := mf.locate(g1)
	if fits(blk1, lbi1, mf.params.S) {
		if !blk1.SimpleStore(lbi1, fp) {
			return OutcomeFailed, morterr.InvariantViolation("simple_store failed at primary bucket despite capacity check")
		}
		return OutcomeStoredPrimary, nil
	}

	blk1.SetOTA(lbi1)
	g2 := h2(mf.hash32, item, mf.params.WFp, mf.n)
	blk2, lbi2 := mf.locate(g2)
	if fits(blk2, lbi2, mf.params.S) {
		if !blk2.SimpleStore(lbi2, fp) {
			return OutcomeFailed, morterr.InvariantViolation("simple_store failed at secondary bucket despite capacity check")
		}
		return OutcomeStoredSecondary, nil
	}

	return mf.resolveConflict(blk1, lbi1, fp)
}

// resolveConflict runs the bounded cuckoo eviction loop starting from the
// item (fp) that needs to land in bucket lbi of blk. Each iteration either
// places fp and returns, or evicts some other fingerprint to make room and
// continues with that fingerprint in fp's place. The returned outcome
// reflects whichever overflow case the successful placement landed in, not
// the (possibly longer) chain of intermediate kicks that led there.
func (mf *MortonFilter) resolveConflict(blk *Block, lbi int, fp Fingerprint) (InsertOutcome, error) {
	s := mf.params.S
	for kicks := 0; kicks < MaxKicks; kicks++ {
		if blk.BucketCapacity(lbi) == s {
			next, nextBlk, nextLbi, done, err := mf.resolveBucketOverflow(blk, lbi, fp)
			if err != nil {
				return OutcomeFailed, err
			}
			if done {
				return OutcomeEvictedBucketOverflow, nil
			}
			fp, blk, lbi = next, nextBlk, nextLbi
			continue
		}

		next, nextBlk, nextLbi, done, err := mf.resolveBlockOverflow(blk, lbi, fp)
		if err != nil {
			return OutcomeFailed, err
		}
		if done {
			return OutcomeEvictedBlockOverflow, nil
		}
		fp, blk, lbi = next, nextBlk, nextLbi
	}
	return OutcomeFailed, morterr.CapacityExhausted(MaxKicks)
}

// resolveBucketOverflow handles a full bucket (FCA[lbi] == S), whether or
// not the block has FSA slack remaining. It tries each of the bucket's
// current occupants in turn;
// if one has alternate-bucket room, it is relocated there and fp takes its
// slot. Otherwise a random occupant is evicted in place and becomes the new
// fp to place, continuing the kick chain from its alternate bucket.
func (mf *MortonFilter) resolveBucketOverflow(
	blk *Block, lbi int, fp Fingerprint,
) (nextFP Fingerprint, nextBlk *Block, nextLbi int, done bool, err error) {
	g1 := mf.globalBucket(blk, lbi)
	candidates := blk.CandidatesInBucket(lbi)

	for _, c := range candidates {
		altG := hPrime(g1, c, mf.n)
		altBlk, altLbi := mf.locate(altG)
		if fits(altBlk, altLbi, mf.params.S) {
			if !altBlk.SimpleStore(altLbi, c) {
				return 0, nil, 0, false, morterr.InvariantViolation("simple_store failed at alternate bucket during bucket-overflow eviction")
			}
			if !blk.ReplaceInBucket(lbi, c, fp) {
				return 0, nil, 0, false, morterr.InvariantViolation("candidate fingerprint vanished from its bucket during eviction")
			}
			blk.SetOTA(lbi)
			return 0, nil, 0, true, nil
		}
	}

	c := candidates[mf.rnd.Intn(len(candidates))]
	blk.SetOTA(lbi)
	if !blk.ReplaceInBucket(lbi, c, fp) {
		return 0, nil, 0, false, morterr.InvariantViolation("randomly chosen eviction candidate vanished from its bucket")
	}
	altG := hPrime(g1, c, mf.n)
	altBlk, altLbi := mf.locate(altG)
	return c, altBlk, altLbi, false, nil
}

// resolveBlockOverflow handles a block whose FSA is entirely full but whose
// target bucket lbi still has bucket-slack. It tries every fingerprint
// currently stored anywhere in the block; if one has alternate-bucket room,
// it is relocated there, deleted from its original slot, and fp is stored
// into bucket lbi. Otherwise a random occupant is evicted (deleted, not
// copied) and becomes the new fp, continuing the kick chain.
func (mf *MortonFilter) resolveBlockOverflow(
	blk *Block, lbi int, fp Fingerprint,
) (nextFP Fingerprint, nextBlk *Block, nextLbi int, done bool, err error) {
	all := blk.AllCandidates()

	for _, cand := range all {
		gOld := mf.globalBucket(blk, cand.bucket)
		altG := hPrime(gOld, cand.fp, mf.n)
		altBlk, altLbi := mf.locate(altG)
		if fits(altBlk, altLbi, mf.params.S) {
			if !altBlk.SimpleStore(altLbi, cand.fp) {
				return 0, nil, 0, false, morterr.InvariantViolation("simple_store failed at alternate bucket during block-overflow eviction")
			}
			blk.SetOTA(cand.bucket)
			if !blk.DeleteFromBucket(cand.bucket, cand.fp) {
				return 0, nil, 0, false, morterr.InvariantViolation("eviction candidate vanished from its bucket during block-overflow relocation")
			}
			if !blk.SimpleStore(lbi, fp) {
				return 0, nil, 0, false, morterr.InvariantViolation("simple_store failed for incoming fingerprint after freeing block slack")
			}
			return 0, nil, 0, true, nil
		}
	}

	cand := all[mf.rnd.Intn(len(all))]
	blk.SetOTA(cand.bucket)
	if !blk.DeleteFromBucket(cand.bucket, cand.fp) {
		return 0, nil, 0, false, morterr.InvariantViolation("randomly chosen eviction candidate vanished from its bucket")
	}
	if !blk.SimpleStore(lbi, fp) {
		return 0, nil, 0, false, morterr.InvariantViolation("simple_store failed for incoming fingerprint after deleting random candidate")
	}
	gOld := mf.globalBucket(blk, cand.bucket)
	altG := hPrime(gOld, cand.fp, mf.n)
	altBlk, altLbi := mf.locate(altG)
	return cand.fp, altBlk, altLbi, false, nil
}

// Check reports whether item may be in the filter. It never errors: a
// Morton filter can only answer true (maybe present) or false (definitely
// absent). The secondary bucket is only probed when the primary bucket's
// OTA bit is set, since a clear bit means no item from that bucket was ever
// relocated.
func (mf *MortonFilter) Check(item []byte) bool {
	fp := fingerprint(mf.hash32, item, mf.params.WFp)

	g1 := h1(mf.hash32, item, mf.n)
	blk1, lbi1 := mf.locate(g1)
	if blk1.ReadAndCmp(lbi1, fp) {
		return true
	}
	if !blk1.GetOTA(lbi1) {
		return false
	}

	g2 := h2(mf.hash32, item, mf.params.WFp, mf.n)
	blk2, lbi2 := mf.locate(g2)
	return blk2.ReadAndCmp(lbi2, fp)
}
