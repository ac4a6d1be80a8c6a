package pfse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPartitionsSplitsOverflowingMessage(t *testing.T) {
	// T = ["a"]*6 + ["b"]*2 + ["c"]*2, lambda=1, k0=1.
	training := make([]string, 0, 10)
	for i := 0; i < 6; i++ {
		training = append(training, "a")
	}
	for i := 0; i < 2; i++ {
		training = append(training, "b")
	}
	for i := 0; i < 2; i++ {
		training = append(training, "c")
	}

	partitions, n, err := buildPartitions(training, 1.0, 1.0)
	require.NoError(t, err)
	require.Equal(t, 10, n)
	require.NotEmpty(t, partitions)

	require.InDelta(t, 0.3678794, partitions[0].Budget, 1e-6)

	// "a" (frequency 0.6) overshoots the first partition's ~0.37 budget, so
	// it must appear split across the first two partitions.
	require.GreaterOrEqual(t, len(partitions), 2)
	aInFirst := false
	aInSecond := false
	for _, m := range partitions[0].Members {
		if m.Message == "a" {
			aInFirst = true
		}
	}
	for _, m := range partitions[1].Members {
		if m.Message == "a" {
			aInSecond = true
		}
	}
	require.True(t, aInFirst, "a must appear in the first partition")
	require.True(t, aInSecond, "a must also appear in the second partition (split)")
}

func TestBuildPartitionsCoverEveryTrainingMessage(t *testing.T) {
	training := []string{"a", "a", "a", "a", "a", "a", "b", "b", "c", "c"}
	partitions, n, err := buildPartitions(training, 0.25, 1.0)
	require.NoError(t, err)

	total := 0
	for _, p := range partitions {
		for _, m := range p.Members {
			total += m.Count
		}
	}
	// Split rounding can drift the total by at most a handful of units
	// across partitions.
	require.InDelta(t, n, total, 2)
}

func TestBuildPartitionsRejectsEmptyInput(t *testing.T) {
	_, _, err := buildPartitions([]string{}, 0.5, 1.0)
	require.Error(t, err)
}
