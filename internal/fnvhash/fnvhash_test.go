package fnvhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXXHash32Deterministic(t *testing.T) {
	require.Equal(t, XXHash32([]byte("hello")), XXHash32([]byte("hello")))
	require.NotEqual(t, XXHash32([]byte("hello")), XXHash32([]byte("world")))
}

func TestFNV32aDeterministic(t *testing.T) {
	require.Equal(t, FNV32a([]byte("hello")), FNV32a([]byte("hello")))
	require.NotEqual(t, FNV32a([]byte("hello")), FNV32a([]byte("world")))
}
