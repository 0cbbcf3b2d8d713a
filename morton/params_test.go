package morton

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anastasiam/mortonfilter/internal/morterr"
)

func TestDefaultParamsBlockBitsIsOneCacheLine(t *testing.T) {
	require.Equal(t, 512, DefaultParams().BlockBits())
}

func TestValidateRejectsZeroBlockCount(t *testing.T) {
	err := DefaultParams().validate(0)
	require.ErrorIs(t, err, morterr.ErrParameter)
}

func TestValidateRejectsBadWidths(t *testing.T) {
	p := DefaultParams()
	p.WFp = 0
	require.ErrorIs(t, p.validate(1), morterr.ErrParameter)

	p = DefaultParams()
	p.S = 0
	require.ErrorIs(t, p.validate(1), morterr.ErrParameter)
}

func TestValidateAcceptsDefaultConfiguration(t *testing.T) {
	require.NoError(t, DefaultParams().validate(458))
	require.NoError(t, DefaultParams().validate(1))
}

func TestFcaWidthMatchesDefaultTwoBits(t *testing.T) {
	require.Equal(t, 2, DefaultParams().fcaWidth())
}
