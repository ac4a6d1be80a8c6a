// Package pfse implements the partition-based FSE scheme: an exponential-law
// histogram partition, a per-partition duplication and dummy-padding plan,
// and an AES-GCM scheme wrapper that can either answer a single-message
// equality search or flatten the whole training sample into one smoothed
// ciphertext stream. Ported from
// _examples/original_source/src/scheme/pfse.rs.
package pfse

import (
	"fmt"
	"math"
	"sort"

	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/scheme"
)

// PartitionFunc is the exponential partition law φ(λ,i) = λ·e^(−λ(i−1)).
func PartitionFunc(lambda float64, i int) float64 {
	return lambda * math.Exp(-lambda*float64(i-1))
}

// Partition is one contiguous slice of the descending histogram, plus the
// cumulative-frequency budget it was carved out to hold.
type Partition[T comparable] struct {
	Index int
	Members []histogram.Entry[T]
	Budget float64
}

// buildPartitions grows the right edge of a window until its cumulative
// frequency meets the budget for the current group, splitting the boundary
// message across partitions when the window overshoots.
func buildPartitions[T comparable](input []T, lambda, scale float64) ([]Partition[T], int, error) {
	entries, err := histogram.BuildSorted(input)
	if err != nil {
		return nil, 0, err
	}
	n := len(input)
	if n == 0 {
		return nil, 0, fmt.Errorf("pfse: empty training sample: %w", scheme.ErrParameter)
	}

	var partitions []Partition[T]
	i := 0
	group := 1

	for i < len(entries) {
		value := PartitionFunc(lambda, group) * scale

		if value*float64(n) <= 1 {
			members := append([]histogram.Entry[T](nil), entries[i:]...)
			partitions = append(partitions, Partition[T]{Index: group, Members: members, Budget: value})
			break
		}

		j := i
		sum := 0.0
		for j < len(entries) && sum < value {
			sum += float64(entries[j].Count) / float64(n)
			j++
		}

		if sum > value {
			diff := sum - value
			last := entries[j-1]
			firstPart := histogram.Entry[T]{Message: last.Message, Count: int(math.Ceil(float64(last.Count) * (1 - diff)))}
			secondPart := histogram.Entry[T]{Message: last.Message, Count: int(math.Floor(float64(last.Count) * diff))}

			entries[j-1] = firstPart
			members := append([]histogram.Entry[T](nil), entries[i:j]...)
			partitions = append(partitions, Partition[T]{Index: group, Members: members, Budget: value})

			if secondPart.Count != 0 {
				pos := sort.Search(len(entries)-j, func(k int) bool {
						return entries[j+k].Count <= secondPart.Count
				})
				insertAt := j + pos
				entries = append(entries, histogram.Entry[T]{})
				copy(entries[insertAt+1:], entries[insertAt:])
				entries[insertAt] = secondPart
			}
		} else {
			members := append([]histogram.Entry[T](nil), entries[i:j]...)
			partitions = append(partitions, Partition[T]{Index: group, Members: members, Budget: value})
		}

		group++
		i = j
	}

	return partitions, n, nil
}
