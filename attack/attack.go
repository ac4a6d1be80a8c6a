// Package attack implements two inference attackers: an ℓp-optimization
// attacker built on minimum-cost bipartite matching (Kuhn-Munkres) and a
// scaled MLE attacker built on greedy block assignment. Both consume the
// same shape of input and report a weighted recovery rate. Ported from the
// description in _examples/original_source/eval/src/attack.rs (the upstream
// LpAttacker/MLEAttacker implementations themselves sit behind a
// feature-gated module not present in the retrieved source tree).
package attack

import (
	"sort"

	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/scheme"
)

// AuxEntry is one row of the attacker's auxiliary view: a claim that message
// Message owns Count ciphertexts each shared by SetSize-many distinct
// tokens, i.e. weight = Count/SetSize is its estimated per-ciphertext
// frequency.
type AuxEntry[T comparable] struct {
	Message T
	SetSize int
	Count int
	Weight float64
}

// BuildAuxiliary flattens a PFSE-shaped local table into the attacker's
// auxiliary view, sorted by weight descending: for each
// (_, set_size, count) emit (m, count/set_size, count).
func BuildAuxiliary[T comparable](localTable map[T][]scheme.ValueType) []AuxEntry[T] {
	var aux []AuxEntry[T]
	for m, entries := range localTable {
		for _, e := range entries {
			setSize := e.SetSize
			if setSize < 1 {
				setSize = 1
			}
			aux = append(aux, AuxEntry[T]{
					Message: m,
					SetSize: setSize,
					Count: e.RepeatCount,
					Weight: float64(e.RepeatCount) / float64(setSize),
			})
		}
	}
	sort.Slice(aux, func(i, j int) bool { return aux[i].Weight > aux[j].Weight })
	return aux
}

// Input is the common evidence both attackers consume: ground truth
// (Correct), the scheme's own bookkeeping (LocalTable), the observed
// ciphertext stream (RawCiphertexts), and a precomputed per-ciphertext
// weight used only for scoring, never by the attack algorithm itself.
type Input[T message.Value] struct {
	Correct          map[T][]string
	LocalTable       map[T][]scheme.ValueType
	RawCiphertexts   []string
	CiphertextWeight map[string]float64
}

// ComputeCiphertextWeight implements weight_ct: ciphertextSets is one entry
// per message, its own (possibly repeated) ciphertext stream.
func ComputeCiphertextWeight(ciphertextSets [][]string) map[string]float64 {
	weight := make(map[string]float64)
	for _, set := range ciphertextSets {
		if len(set) == 0 {
			continue
		}
		counts := make(map[string]int, len(set))
		for _, c := range set {
			counts[c]++
		}
		n := float64(len(set))
		for c, cnt := range counts {
			weight[c] = float64(cnt) / n
		}
	}
	return weight
}

// countOccurrences counts how many times needle appears in haystack.
func countOccurrences(haystack []string, needle string) int {
	n := 0
	for _, s := range haystack {
		if s == needle {
			n++
		}
	}
	return n
}

// uniqueSorted returns the distinct, sorted elements of s (used by the MLE
// attacker to intersect assigned ciphertexts against a message's correct
// set via histogram.Intersect).
func uniqueSorted(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := make([]string, 0, len(s))
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// ciphertextHistogram builds the descending-frequency ciphertext view shared
// by both attackers.
func ciphertextHistogram(raw []string) ([]histogram.Entry[string], error) {
	return histogram.BuildSorted(raw)
}
