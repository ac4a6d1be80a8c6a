package lpfse

import (
	"fmt"
	"math"

	"github.com/fse-go/fse/histogram"
	"github.com/fse-go/fse/message"
	"github.com/sirupsen/logrus"
)

// EncoderBHE is the Banded Homophone Encoding strategy: instead of carving
// one global [0, 2^r) axis into intervals, every message gets its own local
// band [0, band(m)) of tags, sized from a shared band_width.
type EncoderBHE[T message.Value] struct {
	histo     map[T]int
	n         int
	bandWidth float64
	log       *logrus.Entry
}

// NewEncoderBHE constructs an uninitialized BHE encoder. log may be nil.
func NewEncoderBHE[T message.Value](log *logrus.Entry) *EncoderBHE[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &EncoderBHE[T]{log: log}
}

// band returns the number of homophone tags m is entitled to (0 for an
// unknown message); used by this package's tests.
func (e *EncoderBHE[T]) band(m T) int {
	count, ok := e.histo[m]
	if !ok {
		return 0
	}
	return e.bandLen(count)
}

func (e *EncoderBHE[T]) bandLen(count int) int {
	n := int(math.Ceil(float64(count) / (e.bandWidth * float64(e.n))))
	if n < 1 {
		n = 1
	}
	return n
}

// Initialize implements HomophoneEncoder.
func (e *EncoderBHE[T]) Initialize(training []T, advantage float64) error {
	if len(training) == 0 {
		return fmt.Errorf("lpfse/bhe: empty training sample: %w", errParameter)
	}

	histo, err := histogram.Build(training)
	if err != nil {
		return err
	}
	n := len(training)

	fMax := 0
	for _, c := range histo {
		if c > fMax {
			fMax = c
		}
	}

	// l = ceil(log2(n / ((2A)^2 * pi))) - 1. The source
	// (_examples/original_source/src/scheme/lpfse.rs, BHE::init) treats a
	// negative result as a parameter error rather than silently
	// flooring it, since it implies A is too large for this sample size.
	inner := float64(n) / (4.0 * advantage * advantage * math.Pi)
	l := math.Ceil(math.Log2(inner)) - 1
	if l < 0 {
		return fmt.Errorf("lpfse/bhe: advantage %.6g too large for sample size %d: %w", advantage, n, errParameter)
	}

	bandWidth := float64(fMax) / (float64(n) * math.Pow(2, l))
	if bandWidth <= 0 {
		return fmt.Errorf("lpfse/bhe: degenerate band_width: %w", errParameter)
	}

	e.histo = histo
	e.n = n
	e.bandWidth = bandWidth

	e.log.WithFields(logrus.Fields{"l": l, "band_width": bandWidth, "messages": len(histo)}).Debug("lpfse/bhe: initialized")
	return nil
}

// Encode implements HomophoneEncoder.
func (e *EncoderBHE[T]) Encode(m T) ([]byte, error) {
	count, ok := e.histo[m]
	if !ok {
		return nil, fmt.Errorf("lpfse/bhe: encode: %w", errUnknownMessage)
	}
	band := uint64(e.bandLen(count))
	tag, err := uniformUint64(0, band)
	if err != nil {
		return nil, err
	}
	return frameToken(m.AsBytes(), tag), nil
}

// EncodeAll implements HomophoneEncoder.
func (e *EncoderBHE[T]) EncodeAll(m T) ([][]byte, error) {
	count, ok := e.histo[m]
	if !ok {
		return nil, fmt.Errorf("lpfse/bhe: encode_all: %w", errUnknownMessage)
	}
	band := e.bandLen(count)
	out := make([][]byte, 0, band)
	for tag := uint64(0); tag < uint64(band); tag++ {
		out = append(out, frameToken(m.AsBytes(), tag))
	}
	return out, nil
}

var _ HomophoneEncoder[message.ByteString] = (*EncoderBHE[message.ByteString])(nil)
