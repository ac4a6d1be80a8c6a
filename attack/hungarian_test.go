package attack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSolveAssignmentMinFindsOptimalPairing(t *testing.T) {
	cost := [][]float64{
		{4, 1, 3},
		{2, 0, 5},
		{3, 2, 2},
	}
	assignment := solveAssignmentMin(cost)
	require.Len(t, assignment, 3)

	total := 0.0
	seen := make(map[int]bool)
	for i, j := range assignment {
		require.False(t, seen[j], "assignment must be a permutation")
		seen[j] = true
		total += cost[i][j]
	}
	// Candidate assignments include (0,2)+(1,1)+(2,0) = 3+0+3 = 6 and
	// (0,1)+(1,0)+(2,2) = 1+2+2 = 5. The true minimum is 5.
	require.Equal(t, 5.0, total)
}

func TestSolveAssignmentMinHandlesSingleton(t *testing.T) {
	assignment := solveAssignmentMin([][]float64{{42}})
	require.Equal(t, []int{0}, assignment)
}

func TestSolveAssignmentMinHandlesEmpty(t *testing.T) {
	require.Nil(t, solveAssignmentMin(nil))
}
