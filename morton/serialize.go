package morton

import "strings"

// Serialize renders the filter as the stable external wire format: each
// block's Serialize() output (FSA, then FCA, then OTA, MSB-first ASCII
// '0'/'1' characters), blocks separated by a single line feed.
func (mf *MortonFilter) Serialize() string {
	var sb strings.Builder
	blockBits := mf.params.BlockBits()
	sb.Grow(len(mf.blocks) * (blockBits + 1))
	for _, blk := range mf.blocks {
		sb.WriteString(blk.Serialize())
		sb.WriteByte('\n')
	}
	return sb.String()
}
