package attack

import (
	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/message"
)

// MLEAttacker is the scaled MLE inference attacker: it assumes knowledge of
// each message's set_size and greedily assigns contiguous blocks of the
// sorted ciphertext histogram to auxiliary entries in frequency-rank order.
type MLEAttacker[T message.Value] struct{}

// NewMLEAttacker constructs an MLE attacker.
func NewMLEAttacker[T message.Value]() *MLEAttacker[T] {
	return &MLEAttacker[T]{}
}

// Attack runs the attack and returns the weighted recovery rate in [0, 1].
func (a *MLEAttacker[T]) Attack(in Input[T]) float64 {
	aux := BuildAuxiliary(in.LocalTable)
	if len(aux) == 0 || len(in.RawCiphertexts) == 0 {
		return 0
	}

	messageNum := 0.0
	for _, e := range aux {
		messageNum += float64(e.Count)
	}
	if messageNum <= 0 {
		return 0
	}

	ctHist, err := ciphertextHistogram(in.RawCiphertexts)
	if err != nil {
		return 0
	}

	rate := 0.0
	i := 0
	for _, e := range aux {
		if i >= len(ctHist) {
			break
		}
		end := i + e.SetSize
		if end > len(ctHist) {
			end = len(ctHist)
		}
		assigned := ctHist[i:end]
		i = end

		correctSet, ok := in.Correct[e.Message]
		if !ok || len(assigned) == 0 {
			continue
		}

		assignedKeys := make([]string, len(assigned))
		for k, entry := range assigned {
			assignedKeys[k] = entry.Message
		}
		common := histogram.Intersect(assignedKeys, uniqueSorted(correctSet))

		for _, c := range common {
			rate += (float64(e.Count) / messageNum) * in.CiphertextWeight[c]
		}
	}
	return rate
}
