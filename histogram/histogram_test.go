package histogram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildCountsOccurrences(t *testing.T) {
	h, err := Build([]string{"a", "b", "a", "c", "a"})
	require.NoError(t, err)
	require.Equal(t, 3, h["a"])
	require.Equal(t, 1, h["b"])
	require.Equal(t, 1, h["c"])
}

func TestBuildSortedDescendingWithStableTies(t *testing.T) {
	seq := []string{"b", "a", "b", "c", "b"}
	entries, err := BuildSorted(seq)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "b", entries[0].Message)
	require.Equal(t, 3, entries[0].Count)
	// a and c are tied at count 1; a appeared first in seq, so it must sort first.
	require.Equal(t, "a", entries[1].Message)
	require.Equal(t, "c", entries[2].Message)
}

func TestCDF(t *testing.T) {
	entries, err := BuildSorted([]string{"a", "a", "a", "a", "a", "a", "b", "b", "c", "c"})
	require.NoError(t, err)
	n := 10
	require.Equal(t, 0.0, CDF(entries, 0, n))
	require.InDelta(t, 0.6, CDF(entries, 1, n), 1e-9)
	require.InDelta(t, 0.8, CDF(entries, 2, n), 1e-9)
	require.InDelta(t, 1.0, CDF(entries, 3, n), 1e-9)
}

func TestIntersect(t *testing.T) {
	got := Intersect([]string{"x", "y", "z"}, []string{"y", "z", "w"})
	require.Equal(t, []string{"y", "z"}, got)

	require.Empty(t, Intersect([]int{1, 2}, []int{3, 4}))
}
