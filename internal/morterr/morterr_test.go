package morterr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapacityExhaustedWraps(t *testing.T) {
	err := CapacityExhausted(8000)
	require.True(t, errors.Is(err, ErrCapacityExhausted))
	require.Contains(t, err.Error(), "8000")
}

func TestInvariantViolationWraps(t *testing.T) {
	err := InvariantViolation("slot %d missing", 3)
	require.True(t, errors.Is(err, ErrInvariantViolation))
	require.Contains(t, err.Error(), "slot 3 missing")
}

func TestParameterWraps(t *testing.T) {
	err := Parameter("bad B=%d", 0)
	require.True(t, errors.Is(err, ErrParameter))
}
