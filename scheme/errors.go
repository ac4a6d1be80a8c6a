package scheme

import "errors"

// The five error kinds the core surfaces. Schemes wrap these with context
// via fmt.Errorf("...: %w", ErrX); callers check with errors.Is.
var (
	// ErrNotReady reports an operation that requires prior keying or
	// initialization.
	ErrNotReady = errors.New("fse: context not ready")

	// ErrUnknownMessage reports Encrypt/Search called on a message absent
	// from the local table.
	ErrUnknownMessage = errors.New("fse: unknown message")

	// ErrAEAD reports an AES-GCM seal/open failure (bad key length, tag
	// mismatch, malformed base64).
	ErrAEAD = errors.New("fse: aead failure")

	// ErrParameter reports an invalid parameter vector (length or value),
	// e.g. LPFSE BHE producing a negative band length.
	ErrParameter = errors.New("fse: invalid parameter")

	// ErrInternalPrecision marks PFSE transform under-provisioning (n_i <
	// sum of set sizes). PFSE Transform logs this condition and skips dummy
	// insertion; it does not return this error.
	ErrInternalPrecision = errors.New("fse: internal precision shortfall")
)
