package morton

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestBlock() *Block {
	p := DefaultParams()
	return newBlock(0, p.WFp, p.B, p.S, p.NFp, p.WOTA, p.fcaWidth())
}

func TestBlockSimpleStoreAndReadAndCmp(t *testing.T) {
	blk := newTestBlock()
	require.True(t, blk.HasCapacity())
	require.Equal(t, 0, blk.BucketCapacity(5))

	require.True(t, blk.SimpleStore(5, Fingerprint(0x42)))
	require.Equal(t, 1, blk.BucketCapacity(5))
	require.True(t, blk.ReadAndCmp(5, Fingerprint(0x42)))
	require.False(t, blk.ReadAndCmp(5, Fingerprint(0x43)))
}

func TestBlockFillsBucketToS(t *testing.T) {
	blk := newTestBlock()
	for i := 0; i < 3; i++ {
		require.True(t, blk.SimpleStore(7, Fingerprint(i+1)))
	}
	require.Equal(t, 3, blk.BucketCapacity(7))
	require.False(t, blk.SimpleStore(7, Fingerprint(9)), "bucket is at S capacity")
}

func TestBlockHasCapacityFalseWhenFull(t *testing.T) {
	blk := newTestBlock()
	p := DefaultParams()
	// Spread NFp items across distinct buckets so no single bucket hits S.
	for i := 0; i < p.NFp; i++ {
		require.True(t, blk.SimpleStore(i%p.B, Fingerprint(i+1)))
	}
	require.False(t, blk.HasCapacity())
	require.False(t, blk.SimpleStore(0, Fingerprint(255)), "block is entirely full")
}

func TestBlockOTAMonotone(t *testing.T) {
	blk := newTestBlock()
	require.False(t, blk.GetOTA(10))
	blk.SetOTA(10)
	require.True(t, blk.GetOTA(10))
	// Re-setting the same bucket must not clear it.
	blk.SetOTA(10)
	require.True(t, blk.GetOTA(10))
}

func TestBlockOTAWraps(t *testing.T) {
	blk := newTestBlock()
	p := DefaultParams()
	blk.SetOTA(p.WOTA) // wraps to index 0
	require.True(t, blk.GetOTA(0))
}

func TestBlockReplaceInBucketKeepsOccupancy(t *testing.T) {
	blk := newTestBlock()
	require.True(t, blk.SimpleStore(2, Fingerprint(0x11)))
	require.True(t, blk.SimpleStore(2, Fingerprint(0x22)))
	require.True(t, blk.ReplaceInBucket(2, Fingerprint(0x11), Fingerprint(0x33)))
	require.Equal(t, 2, blk.BucketCapacity(2))
	require.True(t, blk.ReadAndCmp(2, Fingerprint(0x33)))
	require.False(t, blk.ReadAndCmp(2, Fingerprint(0x11)))
}

func TestBlockDeleteFromBucketShiftsAndDecrements(t *testing.T) {
	blk := newTestBlock()
	require.True(t, blk.SimpleStore(0, Fingerprint(1)))
	require.True(t, blk.SimpleStore(1, Fingerprint(2)))
	require.True(t, blk.SimpleStore(1, Fingerprint(3)))

	require.True(t, blk.DeleteFromBucket(1, Fingerprint(2)))
	require.Equal(t, 1, blk.BucketCapacity(1))
	require.True(t, blk.ReadAndCmp(1, Fingerprint(3)))
	require.False(t, blk.ReadAndCmp(1, Fingerprint(2)))
	// Bucket 0's item must survive the shift of bucket 1's run.
	require.True(t, blk.ReadAndCmp(0, Fingerprint(1)))
}

func TestBlockAllCandidatesCoversEveryBucket(t *testing.T) {
	blk := newTestBlock()
	require.True(t, blk.SimpleStore(0, Fingerprint(1)))
	require.True(t, blk.SimpleStore(3, Fingerprint(2)))
	require.True(t, blk.SimpleStore(3, Fingerprint(3)))

	all := blk.AllCandidates()
	require.Len(t, all, 3)
	require.Contains(t, all, blockCandidate{bucket: 0, fp: 1})
	require.Contains(t, all, blockCandidate{bucket: 3, fp: 2})
	require.Contains(t, all, blockCandidate{bucket: 3, fp: 3})
}

func TestBlockSerializeLength(t *testing.T) {
	p := DefaultParams()
	blk := newTestBlock()
	require.True(t, blk.SimpleStore(0, Fingerprint(1)))
	s := blk.Serialize()
	require.Equal(t, p.BlockBits(), len(s))
	for _, c := range s {
		require.True(t, c == '0' || c == '1')
	}
}

func TestBlockZeroSentinelDiscipline(t *testing.T) {
	blk := newTestBlock()
	p := DefaultParams()
	for i := 0; i < 10; i++ {
		require.True(t, blk.SimpleStore(i, Fingerprint(i+1)))
	}
	for i := 10; i < p.NFp; i++ {
		require.Equal(t, uint64(0), blk.fsa.Get(i), "unused FSA slots must stay zero")
	}
}
