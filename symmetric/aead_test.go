package symmetric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	plaintext := []byte("hello, frequency smoothing")
	nonce := FixedNonce()

	ct, err := Seal(key, plaintext, nonce)
	require.NoError(t, err)
	require.NotEmpty(t, ct)

	got, err := Open(key, ct, nonce)
	require.NoError(t, err)
	require.Equal(t, plaintext, got)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)
	nonce := FixedNonce()

	ct, err := Seal(key, []byte("message"), nonce)
	require.NoError(t, err)

	ct[0] ^= 0xFF
	_, err = Open(key, ct, nonce)
	require.Error(t, err)
}

func TestFixedNonceIsDeterministic(t *testing.T) {
	key, err := GenerateKey()
	require.NoError(t, err)

	ct1, err := Seal(key, []byte("same message"), FixedNonce())
	require.NoError(t, err)
	ct2, err := Seal(key, []byte("same message"), FixedNonce())
	require.NoError(t, err)

	require.Equal(t, ct1, ct2, "fixed nonce + same plaintext must yield identical ciphertext")
}

func TestRandomNonceVaries(t *testing.T) {
	n1, err := RandomNonce()
	require.NoError(t, err)
	n2, err := RandomNonce()
	require.NoError(t, err)
	require.NotEqual(t, n1, n2)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw := []byte{0, 1, 2, 3, 255, 254, 253}
	encoded := Encode(raw)
	require.NotContains(t, encoded, "=", "no-pad base64 must not contain padding")

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, err := Decode("not base64!!!")
	require.Error(t, err)
}
