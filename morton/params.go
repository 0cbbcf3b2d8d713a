package morton

import (
	"math/bits"

	"github.com/anastasiam/mortonfilter/internal/morterr"
)

// Params holds the construction parameters shared by every block in a
// filter. The zero value is not valid; use DefaultParams as a starting
// point.
type Params struct {
	// WFp is the fingerprint width in bits.
	WFp int
	// B is the number of logical buckets per block.
	B int
	// S is the number of slots per bucket.
	S int
	// NFp is the number of fingerprint slots per block's FSA. Morton
	// filters exploit bucket under-occupancy, so NFp is normally well
	// below B*S.
	NFp int
	// WOTA is the number of overflow-tracking bits per block.
	WOTA int
}

// DefaultParams returns the filter's tested default configuration: an 8-bit
// fingerprint, 64 buckets of 3 slots each per block, 46 fingerprint slots,
// and a 16-bit OTA — a single 512-bit cache line per block.
func DefaultParams() Params {
	return Params{WFp: 8, B: 64, S: 3, NFp: 46, WOTA: 16}
}

// fcaWidth returns ceil(log2(S+1)), the number of bits needed for a counter
// that ranges over [0, S].
func (p Params) fcaWidth() int {
	return bits.Len(uint(p.S))
}

// BlockBits returns the serialized size in bits of one block under these
// parameters: NFp*WFp (FSA) + B*fcaWidth (FCA) + WOTA (OTA).
func (p Params) BlockBits() int {
	return p.NFp*p.WFp + p.B*p.fcaWidth() + p.WOTA
}

// validate checks p for internal consistency and, given the total bucket
// count n = k*b, that the alternate-bucket function h' is self-inverse
// for every bucket and every offset-table displacement. It returns a
// morterr.ErrParameter-wrapped error on any failure.
func (p Params) validate(k int) error {
	switch {
	case k < 1:
		return morterr.Parameter("block count K must be >= 1, got %d", k)
	case p.WFp < 1 || p.WFp > 32:
		return morterr.Parameter("fingerprint width W_fp must be in [1, 32], got %d", p.WFp)
	case p.B < 1:
		return morterr.Parameter("buckets per block B must be >= 1, got %d", p.B)
	case p.S < 1:
		return morterr.Parameter("slots per bucket S must be >= 1, got %d", p.S)
	case p.NFp < 1:
		return morterr.Parameter("fingerprints per block N_fp must be >= 1, got %d", p.NFp)
	case p.WOTA < 1:
		return morterr.Parameter("OTA width W_ota must be >= 1, got %d", p.WOTA)
	}
	if maxCounter := uint64(1)<<uint(p.fcaWidth()) - 1; maxCounter < uint64(p.S) {
		return morterr.Parameter("FCA width cannot represent S=%d slots per bucket", p.S)
	}

	n := uint64(k * p.B)
	if n == 0 {
		return morterr.Parameter("total bucket count K*B must be >= 1")
	}
	if err := checkSelfInverse(n); err != nil {
		return err
	}
	return nil
}

// checkSelfInverse verifies hPrime(hPrime(b, fp), fp) == b for every bucket
// and every distinct offset-table displacement (offset depends only on
// fp mod 32, so 32 values cover every fingerprint). The alternate-bucket
// function's wrap behavior at the bucket-count boundary is subtle enough
// that construction must fail outright rather than silently serve a filter
// where it isn't self-inverse for the configured bucket count.
func checkSelfInverse(n uint64) error {
	for b := uint64(0); b < n; b++ {
		for fpVal := range offsets {
			fp := Fingerprint(fpVal + 1) // fingerprints are nonzero
			alt := hPrime(b, fp, n)
			back := hPrime(alt, fp, n)
			if back != b {
				return morterr.Parameter(
					"alternate-bucket function is not self-inverse for N=%d: h'(h'(%d,fp),fp)=%d", n, b, back)
			}
		}
	}
	return nil
}
