// Package scheme collects the contracts every FSE scheme implements —
// BaseCrypto, FrequencySmoothing, and PartitionFrequencySmoothing — plus the
// shared lifecycle state machine and error kinds every concrete scheme
// (baseline, lpfse, pfse) builds on. It is the Go analogue of the Rust
// prototype's fse.rs module.
package scheme

import (
	"context"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/storage"
)

// ValueType is a PFSE local-table entry: for one message within one
// partition, how many distinct ciphertexts encode it (SetSize) and how many
// times each one repeats in the flattened output stream (RepeatCount).
// Mirrors the Rust prototype's `(usize, usize, usize)` ValueType, with the
// leading usize named explicitly as PartitionIndex.
type ValueType struct {
	PartitionIndex int
	SetSize        int
	RepeatCount    int
}

// BaseCrypto is the minimal cryptographic contract every scheme satisfies:
// key generation, encryption to a ciphertext set, and decryption back to the
// plaintext byte view.
type BaseCrypto[T message.Value] interface {
	// KeyGenerate produces a fresh key for this instance.
	KeyGenerate() error
	// Encrypt returns the ciphertext(s) encoding m, base64-framed and ready
	// for storage. Returns ErrUnknownMessage or ErrAEAD-wrapped errors
	// rather than failing the caller's larger operation.
	Encrypt(m T) ([]string, error)
	// Decrypt authenticates and decodes ct back to m's byte view.
	Decrypt(ct string) ([]byte, error)
}

// FrequencySmoothing adds the equality-search operation shared by every
// scheme: encode m into its full ciphertext set, query the adapter, and
// decrypt every match back to T.
type FrequencySmoothing[T message.Value] interface {
	BaseCrypto[T]
	Search(ctx context.Context, m T, adapter storage.Adapter, collection string) ([]T, error)
}

// PartitionFrequencySmoothing is the PFSE-specific extension: partitioning
// a training sample, transforming partitions into duplication plans, and
// smoothing the whole training sample into its flattened ciphertext
// multiset.
type PartitionFrequencySmoothing[T message.Value] interface {
	FrequencySmoothing[T]
	SetParams(lambda, scale, advantage float64) error
	Partition(input []T, partitionFunc func(lambda float64, i int) float64) error
	Transform() error
	Smooth() ([]string, error)
}

// DecodeAndMatch runs storage.SearchAll over tokens and decrypts every
// returned document with dec, skipping documents that fail to decrypt
// (defensive: a well-behaved adapter only returns documents this scheme
// itself wrote). Shared by every FrequencySmoothing.Search implementation.
func DecodeAndMatch[T message.Value](
	ctx context.Context,
	adapter storage.Adapter,
	tokens []string,
	collection string,
	dec func(ct string) ([]byte, error),
	from func([]byte) T,
) ([]T, error) {
	docs, err := storage.SearchAll(ctx, adapter, tokens, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, d := range docs {
		plain, err := dec(d.Data)
		if err != nil {
			continue
		}
		out = append(out, from(plain))
	}
	return out, nil
}
