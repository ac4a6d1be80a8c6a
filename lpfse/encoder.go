// Package lpfse implements the homophonic FSE scheme proposed by Lacharité
// and Paterson, with two interchangeable homophone encoders:
// Interval-Based Homophone Encoding (IHBE) and Banded Homophone Encoding
// (BHE). Ported from _examples/original_source/src/scheme/lpfse.rs.
package lpfse

import (
	"encoding/binary"
	"fmt"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/scheme"
)

// tagSuffixLen is the 9-byte `|` + little-endian u64 tag suffix every LPFSE
// token carries.
const tagSuffixLen = 9

// Local aliases keep encoder/scheme files from repeating the scheme import
// for the two sentinel kinds they actually raise.
var (
	errParameter = scheme.ErrParameter
	errUnknownMessage = scheme.ErrUnknownMessage
)

// HomophoneEncoder is the per-strategy contract ContextLPFSE composes with.
// Exactly two implementations exist: EncoderIHBE and EncoderBHE.
type HomophoneEncoder[T message.Value] interface {
	// Initialize builds whatever per-message bookkeeping (global intervals
	// for IHBE, per-message bands for BHE) the encoder needs from a
	// training sample, under the given KS-distinguisher advantage bound.
	Initialize(training []T, advantage float64) error
	// Encode samples one homophone tag for m and returns the framed token
	// bytes(m) || '|' || le(tag). Successive calls may pick different tags.
	Encode(m T) ([]byte, error)
	// EncodeAll enumerates every tag in m's homophone set, for use by
	// search.
	EncodeAll(m T) ([][]byte, error)
}

// decodeToken strips the 9-byte `|` + tag suffix common to both encoders,
// returning the original message bytes.
func decodeToken(token []byte) ([]byte, error) {
	if len(token) < tagSuffixLen {
		return nil, fmt.Errorf("lpfse: token too short to contain a homophone tag")
	}
	return token[:len(token)-tagSuffixLen], nil
}

// frameToken appends the `|` + little-endian tag suffix to msg's byte view.
func frameToken(msg []byte, tag uint64) []byte {
	out := make([]byte, 0, len(msg)+tagSuffixLen)
	out = append(out, msg...)
	out = append(out, '|')
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], tag)
	return append(out, buf[:]...)
}
