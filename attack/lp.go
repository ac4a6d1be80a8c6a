package attack

import (
	"fmt"
	"math"

	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/message"
)

// LpAttacker is the ℓp-optimization inference attacker: it casts recovering
// the plaintext-to-ciphertext mapping as a minimum-cost bipartite matching
// between the scheme's claimed frequencies and the observed ciphertext
// histogram.
type LpAttacker[T message.Value] struct {
	p     int
	codec message.Codec[T]
}

// NewLpAttacker constructs an ℓp attacker with the given integer norm. codec
// mints the padding dummies used when the auxiliary view is smaller than
// the observed ciphertext histogram.
func NewLpAttacker[T message.Value](p int, codec message.Codec[T]) *LpAttacker[T] {
	return &LpAttacker[T]{p: p, codec: codec}
}

// Attack runs the attack and returns the weighted recovery rate in [0, 1].
// Attackers never fail: a degenerate input (empty ciphertext stream) simply
// yields rate 0.
func (a *LpAttacker[T]) Attack(in Input[T]) float64 {
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

	padded := append([]AuxEntry[T](nil), aux...)
	for len(padded) < len(ctHist) {
		padded = append(padded, AuxEntry[T]{
				Message: a.codec.Random(message.DefaultRandomLen),
				Weight: 1e-8,
				Count: 1,
		})
	}
	for len(ctHist) < len(padded) {
		ctHist = append(ctHist, dummyCiphertextEntry(len(ctHist)))
	}

	n := len(padded)
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			diff := float64(padded[i].Count - ctHist[j].Count)
			cost[i][j] = math.Pow(diff, float64(a.p))
		}
	}

	assignment := solveAssignmentMin(cost)

	rate := 0.0
	for i, j := range assignment {
		if j < 0 {
			continue
		}
		correctSet, ok := in.Correct[padded[i].Message]
		if !ok {
			continue
		}
		ctToken := ctHist[j].Message
		occurrences := countOccurrences(correctSet, ctToken)
		if occurrences == 0 {
			continue
		}
		weight := in.CiphertextWeight[ctToken]
		rate += float64(occurrences) * weight * (float64(padded[i].Count) / messageNum)
	}
	return rate
}

// dummyCiphertextEntry pads the ciphertext histogram when the auxiliary
// view outgrows it. Its message is a sentinel that cannot collide with a
// real base64 ciphertext (base64 never emits a NUL byte).
func dummyCiphertextEntry(index int) histogram.Entry[string] {
	return histogram.Entry[string]{Message: fmt.Sprintf("\x00__pad_ct_%d__", index), Count: 0}
}
