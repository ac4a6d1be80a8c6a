package pfse

import (
	"fmt"
	"math"

	"github.com/fse-go/fse/scheme"
	"github.com/sirupsen/logrus"
)

// dummyEntry is a single padding message minted to bring a partition's
// total ciphertext multiplicity up to its target. Its bytes are never added
// to local_table: it is indistinguishable noise at the ciphertext layer but
// never answers a real query.
type dummyEntry struct {
	Bytes       []byte
	RepeatCount int
}

// transformPartitions computes each partition's per-message set size and
// repeat count, then pads with dummies (or logs and skips padding) to reach
// the partition's target multiplicity n_i.
func transformPartitions[T comparable](
	partitions []Partition[T],
	n int,
	lambda, advantage float64,
	randomBytes func() []byte,
	log *logrus.Entry,
) (map[T][]scheme.ValueType, map[int][]dummyEntry, error) {
	k := len(partitions)
	if k == 0 {
		return nil, nil, fmt.Errorf("pfse: no partitions to transform: %w", scheme.ErrParameter)
	}

	// baseline = sum over partitions of the max in-partition frequency,
	// computed once before any partition is transformed.
	baseline := 0.0
	for _, p := range partitions {
		maxF := 0.0
		for _, m := range p.Members {
			f := float64(m.Count) / float64(n)
			if f > maxF {
				maxF = f
			}
		}
		baseline += maxF
	}
	aEff := advantage * baseline
	if aEff <= 0 {
		return nil, nil, fmt.Errorf("pfse: degenerate effective advantage (baseline=%.6g): %w", baseline, scheme.ErrParameter)
	}

	localTable := make(map[T][]scheme.ValueType)
	dummies := make(map[int][]dummyEntry)

	for _, p := range partitions {
		k1 := PartitionFunc(lambda, p.Index) / float64(k)
		if k1 <= 0 {
			return nil, nil, fmt.Errorf("pfse: partition %d produced a non-positive scaling factor: %w", p.Index, scheme.ErrParameter)
		}
		repeat := int(math.Round(1 / k1))
		if repeat < 1 {
			repeat = 1
		}

		// check_ki: the derived (set_size, repeat) pair implies an
		// attacker advantage of k1/repeat for this partition. Reject it
		// if that exceeds the effective bound A_eff computed above.
		if ki := k1 / float64(repeat); ki > aEff {
			return nil, nil, fmt.Errorf("pfse: partition %d implied advantage %.6g exceeds effective bound %.6g: %w", p.Index, ki, aEff, scheme.ErrParameter)
		}

		fi := 0.0
		for _, m := range p.Members {
			freq := float64(m.Count) / float64(n)
			fi += freq * freq
		}
		ni := int(math.Ceil(float64(n) * fi / aEff))

		sum := 0
		for _, m := range p.Members {
			setSize := int(math.Ceil(k1 * float64(m.Count)))
			if setSize < 1 {
				setSize = 1
			}
			localTable[m.Message] = append(localTable[m.Message], scheme.ValueType{
				PartitionIndex: p.Index,
				SetSize:        setSize,
				RepeatCount:    repeat,
			})
			sum += setSize
		}

		switch {
		case ni > sum:
			need := ni - sum
			dummyRepeat := int(math.Ceil(1 / k1))
			if dummyRepeat < 1 {
				dummyRepeat = 1
			}
			entries := make([]dummyEntry, 0, need)
			for i := 0; i < need; i++ {
				entries = append(entries, dummyEntry{Bytes: randomBytes(), RepeatCount: dummyRepeat})
			}
			dummies[p.Index] = entries
		case ni < sum:
			// error kind 6 (internal-precision): logged, not fatal.
			log.WithFields(logrus.Fields{
				"partition": p.Index,
				"target":    ni,
				"achieved":  sum,
			}).Warn("pfse: transform: target multiplicity below achieved set size, skipping dummy insertion")
		}
	}

	return localTable, dummies, nil
}
