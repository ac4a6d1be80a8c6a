package lpfse

import (
	"context"
	"fmt"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/scheme"
	"github.com/fse-go/fse/storage"
	"github.com/fse-go/fse/symmetric"
	"github.com/sirupsen/logrus"
)

// ContextLPFSE is the homophonic FSE scheme: it composes a HomophoneEncoder
// (IHBE or BHE) with AES-GCM to encrypt, search and decrypt messages whose
// homophone tags do the frequency-smoothing work.
type ContextLPFSE[T message.Value] struct {
	lc      scheme.Lifecycle
	key     []byte
	encoder HomophoneEncoder[T]
	from    func([]byte) T
	log     *logrus.Entry
}

// NewContextLPFSE constructs an LPFSE scheme over the given encoder
// strategy. from reconstructs T from its byte view on Decrypt/Search. log
// may be nil.
func NewContextLPFSE[T message.Value](encoder HomophoneEncoder[T], from func([]byte) T, log *logrus.Entry) *ContextLPFSE[T] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &ContextLPFSE[T]{encoder: encoder, from: from, log: log}
}

// KeyGenerate implements scheme.BaseCrypto.
func (c *ContextLPFSE[T]) KeyGenerate() error {
	key, err := symmetric.GenerateKey()
	if err != nil {
		return err
	}
	c.key = key
	c.lc.Advance(scheme.StateKeyed, "key_generate")
	return nil
}

// Initialize builds the encoder's per-message bookkeeping from a training
// sample under the given KS-distinguisher advantage bound. Must follow
// KeyGenerate and precede Encrypt/Search.
func (c *ContextLPFSE[T]) Initialize(training []T, advantage float64) error {
	if err := c.lc.RequireAtLeast(scheme.StateKeyed, "initialize"); err != nil {
		return err
	}
	if err := c.encoder.Initialize(training, advantage); err != nil {
		return err
	}
	c.lc.Advance(scheme.StateInitialized, "initialize")
	c.log.WithField("training_size", len(training)).Debug("lpfse: initialized")
	return nil
}

// Encrypt implements scheme.BaseCrypto: one homophone tag is sampled, framed
// with the plaintext, then sealed under AES-GCM. The nonce is fixed, like
// DTE's: the smoothing comes entirely from the tag's randomness, so a search
// can reproduce the exact same ciphertext for a given (message, tag) pair
// deterministically.
func (c *ContextLPFSE[T]) Encrypt(m T) ([]string, error) {
	if err := c.lc.RequireAtLeast(scheme.StateInitialized, "encrypt"); err != nil {
		return nil, err
	}
	token, err := c.encoder.Encode(m)
	if err != nil {
		return nil, err
	}
	ct, err := symmetric.Seal(c.key, token, symmetric.FixedNonce())
	if err != nil {
		return nil, fmt.Errorf("lpfse: encrypt: %w: %v", scheme.ErrAEAD, err)
	}
	return []string{symmetric.Encode(ct)}, nil
}

// Decrypt implements scheme.BaseCrypto: open the AEAD envelope, then strip
// the homophone tag suffix to recover the original message bytes.
func (c *ContextLPFSE[T]) Decrypt(ct string) ([]byte, error) {
	raw, err := symmetric.Decode(ct)
	if err != nil {
		return nil, fmt.Errorf("lpfse: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	token, err := symmetric.Open(c.key, raw, symmetric.FixedNonce())
	if err != nil {
		return nil, fmt.Errorf("lpfse: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	return decodeToken(token)
}

// Search implements scheme.FrequencySmoothing by enumerating every tag in
// m's homophone set (encode_all), sealing each deterministically, and
// matching the resulting ciphertexts against the adapter.
func (c *ContextLPFSE[T]) Search(ctx context.Context, m T, adapter storage.Adapter, collection string) ([]T, error) {
	if err := c.lc.RequireAtLeast(scheme.StateInitialized, "search"); err != nil {
		return nil, err
	}
	tokens, err := c.encoder.EncodeAll(m)
	if err != nil {
		return nil, err
	}

	cts := make([]string, 0, len(tokens))
	for _, token := range tokens {
		ct, err := symmetric.Seal(c.key, token, symmetric.FixedNonce())
		if err != nil {
			return nil, fmt.Errorf("lpfse: search: %w: %v", scheme.ErrAEAD, err)
		}
		cts = append(cts, symmetric.Encode(ct))
	}

	docs, err := storage.SearchAll(ctx, adapter, cts, collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		raw, err := symmetric.Decode(doc.Data)
		if err != nil {
			continue
		}
		token, err := symmetric.Open(c.key, raw, symmetric.FixedNonce())
		if err != nil {
			continue
		}
		plain, err := decodeToken(token)
		if err != nil {
			continue
		}
		out = append(out, c.from(plain))
	}
	return out, nil
}

var _ scheme.FrequencySmoothing[message.ByteString] = (*ContextLPFSE[message.ByteString])(nil)
