// Package symmetric implements the AES-256-GCM wrapper every FSE scheme
// builds on, plus the base64 transport encoding that lets ciphertexts
// survive as plain-text document fields.
//
// Nonce policy is the caller's responsibility, not this package's: schemes
// pick a fixed all-zero nonce for deterministic modes (DTE, PFSE, LPFSE) —
// security there comes from encoding collisions in the plaintext framing, not
// nonce randomness — and a fresh random nonce per call for the randomized
// baseline. See FixedNonce and RandomNonce.
package symmetric

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// NonceSize is the GCM standard nonce length in bytes.
const NonceSize = 12

// GenerateKey produces a fresh 32-byte key from a cryptographic RNG.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("symmetric: generate key: %w", err)
	}
	return key, nil
}

// FixedNonce is the all-zero 12-byte nonce used by deterministic schemes.
func FixedNonce() []byte {
	return make([]byte, NonceSize)
}

// RandomNonce samples a fresh 12-byte nonce from a cryptographic RNG, for the
// randomized baseline scheme.
func RandomNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("symmetric: generate nonce: %w", err)
	}
	return nonce, nil
}

// gcm builds an AES-256-GCM AEAD instance from a raw key. Constructed fresh
// per call: schemes are single-threaded and these objects are cheap.
func gcm(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("symmetric: invalid key: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("symmetric: build GCM: %w", err)
	}
	return aead, nil
}

// Seal encrypts and authenticates msg under key and nonce, returning raw
// ciphertext bytes (caller decides base64 framing).
func Seal(key, msg, nonce []byte) ([]byte, error) {
	aead, err := gcm(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("symmetric: bad nonce size %d, want %d", len(nonce), aead.NonceSize())
	}
	return aead.Seal(nil, nonce, msg, nil), nil
}

// Open authenticates and decrypts ct under key and nonce, failing if the tag
// does not verify.
func Open(key, ct, nonce []byte) ([]byte, error) {
	aead, err := gcm(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("symmetric: bad nonce size %d, want %d", len(nonce), aead.NonceSize())
	}
	plain, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("symmetric: open: %w", err)
	}
	return plain, nil
}

// Encode renders raw bytes as unpadded base64 ASCII, the form all
// ciphertexts take once exposed to the storage layer.
func Encode(b []byte) string {
	return base64.RawStdEncoding.EncodeToString(b)
}

// Decode inverts Encode, failing on malformed input.
func Decode(s string) ([]byte, error) {
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("symmetric: decode base64: %w", err)
	}
	return b, nil
}
