package pfse

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestTransformPartitionsAssignsPositiveSetSizes(t *testing.T) {
	training := []string{"a", "a", "a", "a", "a", "a", "b", "b", "c", "c"}
	partitions, n, err := buildPartitions(training, 0.25, 1.0)
	require.NoError(t, err)

	log := logrus.NewEntry(logrus.New())
	localTable, _, err := transformPartitions(partitions, n, 0.25, 1.0/16.0, func() []byte {
		return []byte("0123456789012345678901234567890x")
	}, log)
	require.NoError(t, err)

	for _, m := range []string{"a", "b", "c"} {
		entries, ok := localTable[m]
		require.True(t, ok)
		for _, e := range entries {
			require.GreaterOrEqual(t, e.SetSize, 1)
			require.GreaterOrEqual(t, e.RepeatCount, 1)
		}
	}
}

func TestTransformPartitionsRejectsEmptyPartitionSet(t *testing.T) {
	log := logrus.NewEntry(logrus.New())
	_, _, err := transformPartitions[string](nil, 0, 1.0, 0.5, func() []byte { return nil }, log)
	require.Error(t, err)
}
