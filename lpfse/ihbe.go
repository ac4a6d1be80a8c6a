package lpfse

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/message"
	"github.com/sirupsen/logrus"
)

// interval is a half-open range [Start, End) of homophone tags.
type interval struct {
	Start, End uint64
}

func (iv interval) size() uint64 { return iv.End - iv.Start }

// EncoderIHBE is the Interval-Based Homophone Encoding strategy: each
// message owns a disjoint half-open interval of tags carved out of
// [0, 2^r), sized proportionally to its adjusted frequency.
type EncoderIHBE[T message.Value] struct {
	localTable map[T]interval
	log        *logrus.Entry
}

// NewEncoderIHBE constructs an uninitialized IHBE encoder. log may be nil.
func NewEncoderIHBE[T message.Value](log *logrus.Entry) *EncoderIHBE[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &EncoderIHBE[T]{localTable: make(map[T]interval), log: log}
}

// Interval exposes a message's homophone interval [lo, hi); ok is false for
// a message outside the local table.
func (e *EncoderIHBE[T]) Interval(m T) (lo, hi uint64, ok bool) {
	iv, ok := e.localTable[m]
	return iv.Start, iv.End, ok
}

// Initialize implements HomophoneEncoder.
func (e *EncoderIHBE[T]) Initialize(training []T, advantage float64) error {
	if len(training) == 0 {
		return fmt.Errorf("lpfse/ihbe: empty training sample: %w", errParameter)
	}

	entries, err := histogram.BuildSorted(training)
	if err != nil {
		return err
	}
	n := len(training)

	mostFrequent := float64(entries[0].Count) / float64(n)
	logInner := math.Sqrt(float64(n)) / (2.0 * math.Sqrt(2.0*math.Pi) * advantage * mostFrequent)
	r := math.Ceil(math.Log2(logInner))
	pow2R := math.Pow(2, r)

	adjustDistribution(entries, n, r)

	cumulative := make([]float64, len(entries)+1)
	sum := 0.0
	for i, e := range entries {
		sum += float64(e.Count) / float64(n)
		cumulative[i+1] = sum
	}

	table := make(map[T]interval, len(entries))
	for i, ent := range entries {
		lo := uint64(math.Round(pow2R * cumulative[i]))
		hi := uint64(math.Round(pow2R * cumulative[i+1]))
		table[ent.Message] = interval{Start: lo, End: hi}
	}
	e.localTable = table

	e.log.WithFields(logrus.Fields{"r": r, "messages": len(entries)}).Debug("lpfse/ihbe: initialized")
	return nil
}

// adjustDistribution applies Variant 2 of the IHBE distribution adjustment:
// walk the descending histogram raising small frequencies so every message
// receives a non-empty interval.
//
// The branch below checks `i == 1`, not `i == 0`. This is a known possible
// off-by-one in the original Rust source
// (_examples/original_source/src/scheme/lpfse.rs, adjust_distribution), kept
// intentionally rather than "fixed" so behavior matches the reference
// implementation.
func adjustDistribution[T comparable](entries []histogram.Entry[T], n int, r float64) {
	isBigEnough := false
	scaleFactor := 1.0
	pow2R := 1.0 / math.Pow(2, r)
	pow2RPlus1 := 1.0 / math.Pow(2, r+1)

	for i := range entries {
		curFrequency := float64(entries[i].Count) / float64(n)

		switch {
		case i == 1:
			if curFrequency < pow2RPlus1 {
				entries[i].Count = int(math.Ceil(pow2RPlus1 * float64(n)))
				scaleFactor = (1.0 - curFrequency) / (1.0 - pow2RPlus1)
			}
		case isBigEnough:
			entries[i].Count = int(math.Ceil(float64(entries[i].Count) / scaleFactor))
		case curFrequency >= pow2R*scaleFactor:
			isBigEnough = true
			entries[i].Count = int(math.Ceil(float64(entries[i].Count) / scaleFactor))
		default:
			cdfPrev := histogram.CDF(entries, i, n)
			entries[i].Count = int(math.Ceil(float64(entries[i].Count) * pow2R))
			cdfCur := histogram.CDF(entries, i, n)
			scaleFactor = (1.0 - cdfPrev) / (1.0 - cdfCur)
		}
	}
}

// Encode implements HomophoneEncoder.
func (e *EncoderIHBE[T]) Encode(m T) ([]byte, error) {
	iv, ok := e.localTable[m]
	if !ok {
		return nil, fmt.Errorf("lpfse/ihbe: encode: %w", errUnknownMessage)
	}
	tag, err := uniformUint64(iv.Start, iv.End)
	if err != nil {
		return nil, err
	}
	return frameToken(m.AsBytes(), tag), nil
}

// EncodeAll implements HomophoneEncoder.
func (e *EncoderIHBE[T]) EncodeAll(m T) ([][]byte, error) {
	iv, ok := e.localTable[m]
	if !ok {
		return nil, fmt.Errorf("lpfse/ihbe: encode_all: %w", errUnknownMessage)
	}
	out := make([][]byte, 0, iv.size())
	for tag := iv.Start; tag < iv.End; tag++ {
		out = append(out, frameToken(m.AsBytes(), tag))
	}
	return out, nil
}

// uniformUint64 samples a cryptographically random integer in [lo, hi).
func uniformUint64(lo, hi uint64) (uint64, error) {
	if hi <= lo {
		return 0, fmt.Errorf("lpfse: empty sampling range [%d, %d)", lo, hi)
	}
	n := new(big.Int).SetUint64(hi - lo)
	v, err := rand.Int(rand.Reader, n)
	if err != nil {
		return 0, fmt.Errorf("lpfse: sample tag: %w", err)
	}
	return lo + v.Uint64(), nil
}

var _ HomophoneEncoder[message.ByteString] = (*EncoderIHBE[message.ByteString])(nil)
