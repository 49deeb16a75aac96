package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsStringInSlice(t *testing.T) {
	require.True(t, IsStringInSlice("b", []string{"a", "b", "c"}))
	require.False(t, IsStringInSlice("d", []string{"a", "b", "c"}))
	require.False(t, IsStringInSlice("a", nil))
}

func TestHash(t *testing.T) {
	require.Equal(t, Hash("same input"), Hash("same input"))
	require.NotEqual(t, Hash("one input"), Hash("another input"))
	require.Len(t, Hash("anything"), 16)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "lon...", Truncate("long enough", 3))
}
