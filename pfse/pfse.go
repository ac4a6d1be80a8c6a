package pfse

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/scheme"
	"github.com/fse-go/fse/storage"
	"github.com/fse-go/fse/symmetric"
	"github.com/sirupsen/logrus"
)

// tokenSuffixLen is 2·sizeof(uint64) + 2 separator bytes: the trailing
// `| le(partition_index) | le(intra_partition_index)` every PFSE token
// carries.
const tokenSuffixLen = 2*8 + 2

func frameToken(msg []byte, partitionIndex, intraIndex uint64) []byte {
	out := make([]byte, 0, len(msg)+tokenSuffixLen)
	out = append(out, msg...)
	out = append(out, '|')
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], partitionIndex)
	out = append(out, buf[:]...)
	out = append(out, '|')
	binary.LittleEndian.PutUint64(buf[:], intraIndex)
	return append(out, buf[:]...)
}

func decodeToken(token []byte) ([]byte, error) {
	if len(token) < tokenSuffixLen {
		return nil, fmt.Errorf("pfse: token too short to contain a partition tag")
	}
	return token[:len(token)-tokenSuffixLen], nil
}

// ContextPFSE is the partition-based FSE scheme.
type ContextPFSE[T message.Value] struct {
	lc    scheme.Lifecycle
	key   []byte
	codec message.Codec[T]
	log   *logrus.Entry

	lambda    float64
	scale     float64
	advantage float64

	n          int
	partitions []Partition[T]
	localTable map[T][]scheme.ValueType
	dummies    map[int][]dummyEntry
}

// NewContextPFSE constructs a PFSE scheme instance. codec supplies both the
// from-bytes inverse used by Decrypt/Search and the random dummy generator
// used by Transform. log may be nil.
func NewContextPFSE[T message.Value](codec message.Codec[T], log *logrus.Entry) *ContextPFSE[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ContextPFSE[T]{codec: codec, log: log}
}

// LocalTable exposes the local table for the attack harness.
func (c *ContextPFSE[T]) LocalTable() map[T][]scheme.ValueType {
	return c.localTable
}

// KeyGenerate implements scheme.BaseCrypto.
func (c *ContextPFSE[T]) KeyGenerate() error {
	key, err := symmetric.GenerateKey()
	if err != nil {
		return err
	}
	c.key = key
	c.lc.Advance(scheme.StateKeyed, "key_generate")
	return nil
}

// SetParams implements scheme.PartitionFrequencySmoothing: λ (partition
// rate), k0 (scale), A (advantage bound). Requires KeyGenerate to have
// already run.
func (c *ContextPFSE[T]) SetParams(lambda, scale, advantage float64) error {
	if err := c.lc.RequireAtLeast(scheme.StateKeyed, "set_params"); err != nil {
		return err
	}
	if lambda <= 0 || lambda > 1 {
		return fmt.Errorf("pfse: lambda must be in (0,1], got %g: %w", lambda, scheme.ErrParameter)
	}
	if scale < 1 {
		return fmt.Errorf("pfse: scale (k0) must be >= 1, got %g: %w", scale, scheme.ErrParameter)
	}
	if advantage <= 0 || advantage >= 1 {
		return fmt.Errorf("pfse: advantage must be in (0,1), got %g: %w", advantage, scheme.ErrParameter)
	}
	c.lambda = lambda
	c.scale = scale
	c.advantage = advantage
	return nil
}

// Partition implements scheme.PartitionFrequencySmoothing. Requires
// SetParams and KeyGenerate to have already run.
func (c *ContextPFSE[T]) Partition(input []T, partitionFunc func(lambda float64, i int) float64) error {
	if err := c.lc.RequireAtLeast(scheme.StateKeyed, "partition"); err != nil {
		return err
	}
	if c.lambda == 0 {
		panic("pfse: partition: context not ready (SetParams was never called)")
	}
	if partitionFunc == nil {
		partitionFunc = PartitionFunc
	}

	partitions, n, err := buildPartitions(input, c.lambda, c.scale)
	if err != nil {
		return err
	}
	c.partitions = partitions
	c.n = n
	c.lc.Advance(scheme.StateInitialized, "partition")
	c.log.WithFields(logrus.Fields{"partitions": len(partitions), "messages": n}).Debug("pfse: partitioned")
	return nil
}

// Transform implements scheme.PartitionFrequencySmoothing. Requires
// Partition to have already run.
func (c *ContextPFSE[T]) Transform() error {
	if c.lambda == 0 {
		panic("pfse: transform: context not ready (SetParams was never called)")
	}
	if err := c.lc.RequireAtLeast(scheme.StateInitialized, "transform"); err != nil {
		return err
	}
	localTable, dummies, err := transformPartitions(c.partitions, c.n, c.lambda, c.advantage, func() []byte {
		return c.codec.Random(message.DefaultRandomLen).AsBytes()
	}, c.log)
	if err != nil {
		return err
	}
	c.localTable = localTable
	c.dummies = dummies
	return nil
}

// Encrypt implements scheme.BaseCrypto: one distinct ciphertext per
// (partition, intra-partition index) pair in m's local-table entry.
func (c *ContextPFSE[T]) Encrypt(m T) ([]string, error) {
	return c.encryptTokens(m, false)
}

func (c *ContextPFSE[T]) encryptTokens(m T, repeat bool) ([]string, error) {
	entries, ok := c.localTable[m]
	if !ok {
		return nil, fmt.Errorf("pfse: encrypt: %w", scheme.ErrUnknownMessage)
	}

	var out []string
	for _, e := range entries {
		for j := 0; j < e.SetSize; j++ {
			token := frameToken(m.AsBytes(), uint64(e.PartitionIndex), uint64(j))
			ct, err := symmetric.Seal(c.key, token, symmetric.FixedNonce())
			if err != nil {
				return nil, fmt.Errorf("pfse: encrypt: %w: %v", scheme.ErrAEAD, err)
			}
			encoded := symmetric.Encode(ct)
			if !repeat {
				out = append(out, encoded)
				continue
			}
			for r := 0; r < e.RepeatCount; r++ {
				out = append(out, encoded)
			}
		}
	}
	return out, nil
}

// Decrypt implements scheme.BaseCrypto.
func (c *ContextPFSE[T]) Decrypt(ct string) ([]byte, error) {
	raw, err := symmetric.Decode(ct)
	if err != nil {
		return nil, fmt.Errorf("pfse: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	token, err := symmetric.Open(c.key, raw, symmetric.FixedNonce())
	if err != nil {
		return nil, fmt.Errorf("pfse: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	return decodeToken(token)
}

// Search implements scheme.FrequencySmoothing.
func (c *ContextPFSE[T]) Search(ctx context.Context, m T, adapter storage.Adapter, collection string) ([]T, error) {
	tokens, err := c.Encrypt(m)
	if err != nil {
		return nil, err
	}
	return scheme.DecodeAndMatch(ctx, adapter, tokens, collection, c.Decrypt, c.codec.FromBytes)
}

// Smooth implements scheme.PartitionFrequencySmoothing: the full flattened
// ciphertext stream, visiting every real message exactly once (even if its
// local-table entry spans several partitions) and appending each
// partition's dummy padding as raw base64, unsealed.
func (c *ContextPFSE[T]) Smooth() ([]string, error) {
	if err := c.lc.RequireAtLeast(scheme.StateInitialized, "smooth"); err != nil {
		return nil, err
	}

	var out []string
	visited := make(map[T]bool)
	for _, p := range c.partitions {
		for _, member := range p.Members {
			if visited[member.Message] {
				continue
			}
			visited[member.Message] = true
			tokens, err := c.encryptTokens(member.Message, true)
			if err != nil {
				return nil, err
			}
			out = append(out, tokens...)
		}
		for _, d := range c.dummies[p.Index] {
			encoded := symmetric.Encode(d.Bytes)
			for r := 0; r < d.RepeatCount; r++ {
				out = append(out, encoded)
			}
		}
	}
	return out, nil
}

var (
	_ scheme.PartitionFrequencySmoothing[message.ByteString] = (*ContextPFSE[message.ByteString])(nil)
)
