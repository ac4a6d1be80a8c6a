// Package baseline implements two trivial reference schemes: deterministic
// AES-GCM (DTE) and randomized AES-GCM (RND). Neither does any frequency
// smoothing; they exist so the attack harness has a known upper bound to
// compare PFSE/LPFSE against.
package baseline

import (
	"context"
	"fmt"
	"sync"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/scheme"
	"github.com/fse-go/fse/storage"
	"github.com/fse-go/fse/symmetric"
)

// DTE is the deterministic baseline: encrypt(m) = base64(seal(key,
// bytes(m), 0^12)), a single ciphertext per message, identical across calls.
type DTE[T message.Value] struct {
	lc   scheme.Lifecycle
	key  []byte
	from func([]byte) T
}

// NewDTE constructs a DTE scheme instance. from reconstructs T from its byte
// view on Decrypt/Search.
func NewDTE[T message.Value](from func([]byte) T) *DTE[T] {
	return &DTE[T]{from: from}
}

// KeyGenerate implements scheme.BaseCrypto.
func (d *DTE[T]) KeyGenerate() error {
	key, err := symmetric.GenerateKey()
	if err != nil {
		return err
	}
	d.key = key
	d.lc.Advance(scheme.StateKeyed, "key_generate")
	d.lc.Advance(scheme.StateInitialized, "key_generate")
	return nil
}

// Encrypt implements scheme.BaseCrypto.
func (d *DTE[T]) Encrypt(m T) ([]string, error) {
	if err := d.lc.RequireAtLeast(scheme.StateInitialized, "encrypt"); err != nil {
		return nil, err
	}
	ct, err := symmetric.Seal(d.key, m.AsBytes(), symmetric.FixedNonce())
	if err != nil {
		return nil, fmt.Errorf("dte: encrypt: %w: %v", scheme.ErrAEAD, err)
	}
	return []string{symmetric.Encode(ct)}, nil
}

// Decrypt implements scheme.BaseCrypto.
func (d *DTE[T]) Decrypt(ct string) ([]byte, error) {
	raw, err := symmetric.Decode(ct)
	if err != nil {
		return nil, fmt.Errorf("dte: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	plain, err := symmetric.Open(d.key, raw, symmetric.FixedNonce())
	if err != nil {
		return nil, fmt.Errorf("dte: decrypt: %w: %v", scheme.ErrAEAD, err)
	}
	return plain, nil
}

// Search implements scheme.FrequencySmoothing.
func (d *DTE[T]) Search(ctx context.Context, m T, adapter storage.Adapter, collection string) ([]T, error) {
	tokens, err := d.Encrypt(m)
	if err != nil {
		return nil, err
	}
	return scheme.DecodeAndMatch(ctx, adapter, tokens, collection, d.Decrypt, d.from)
}

var _ scheme.FrequencySmoothing[message.ByteString] = (*DTE[message.ByteString])(nil)

// RND is the randomized baseline: a fresh 12-byte nonce per call. A local
// table of every nonce ever used per message lets Search re-derive the
// complete ciphertext set for a plaintext query.
type RND[T message.Value] struct {
	lc    scheme.Lifecycle
	key   []byte
	from  func([]byte) T
	mu    sync.Mutex
	nonce map[T][][]byte
}

// NewRND constructs an RND scheme instance.
func NewRND[T message.Value](from func([]byte) T) *RND[T] {
	return &RND[T]{from: from, nonce: make(map[T][][]byte)}
}

// KeyGenerate implements scheme.BaseCrypto.
func (r *RND[T]) KeyGenerate() error {
	key, err := symmetric.GenerateKey()
	if err != nil {
		return err
	}
	r.key = key
	r.lc.Advance(scheme.StateKeyed, "key_generate")
	r.lc.Advance(scheme.StateInitialized, "key_generate")
	return nil
}

// Encrypt implements scheme.BaseCrypto. Each call samples a fresh nonce and
// records it so a later Search over the same message can regenerate every
// ciphertext this message has ever produced.
func (r *RND[T]) Encrypt(m T) ([]string, error) {
	if err := r.lc.RequireAtLeast(scheme.StateInitialized, "encrypt"); err != nil {
		return nil, err
	}
	nonce, err := symmetric.RandomNonce()
	if err != nil {
		return nil, err
	}
	ct, err := symmetric.Seal(r.key, m.AsBytes(), nonce)
	if err != nil {
		return nil, fmt.Errorf("rnd: encrypt: %w: %v", scheme.ErrAEAD, err)
	}

	r.mu.Lock()
	r.nonce[m] = append(r.nonce[m], nonce)
	r.mu.Unlock()

	return []string{symmetric.Encode(ct)}, nil
}

// Decrypt implements scheme.BaseCrypto. RND's nonce is embedded nowhere in
// the ciphertext framing, so Decrypt must try every nonce on record for
// every message until one authenticates — mirroring that RND's local table
// is exactly "all nonces ever used per message".
func (r *RND[T]) Decrypt(ct string) ([]byte, error) {
	raw, err := symmetric.Decode(ct)
	if err != nil {
		return nil, fmt.Errorf("rnd: decrypt: %w: %v", scheme.ErrAEAD, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, nonces := range r.nonce {
		for _, nonce := range nonces {
			if plain, err := symmetric.Open(r.key, raw, nonce); err == nil {
				return plain, nil
			}
		}
	}
	return nil, fmt.Errorf("rnd: decrypt: no recorded nonce authenticates: %w", scheme.ErrAEAD)
}

// Search implements scheme.FrequencySmoothing by re-deriving m's complete
// ciphertext set from its recorded nonces, rather than a single fresh
// Encrypt call (which would only produce one of many valid ciphertexts).
func (r *RND[T]) Search(ctx context.Context, m T, adapter storage.Adapter, collection string) ([]T, error) {
	if err := r.lc.RequireAtLeast(scheme.StateInitialized, "search"); err != nil {
		return nil, err
	}

	r.mu.Lock()
	nonces := append([][]byte(nil), r.nonce[m]...)
	r.mu.Unlock()

	tokens := make([]string, 0, len(nonces))
	for _, nonce := range nonces {
		ct, err := symmetric.Seal(r.key, m.AsBytes(), nonce)
		if err != nil {
			return nil, fmt.Errorf("rnd: search: %w: %v", scheme.ErrAEAD, err)
		}
		tokens = append(tokens, symmetric.Encode(ct))
	}
	return scheme.DecodeAndMatch(ctx, adapter, tokens, collection, r.Decrypt, r.from)
}

var _ scheme.FrequencySmoothing[message.ByteString] = (*RND[message.ByteString])(nil)
