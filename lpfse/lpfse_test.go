package lpfse

import (
	"context"
	"testing"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/storage"
	"github.com/stretchr/testify/require"
)

func newIHBEContext(t *testing.T, training []message.ByteString, advantage float64) *ContextLPFSE[message.ByteString] {
	t.Helper()
	enc := NewEncoderIHBE[message.ByteString](nil)
	ctx := NewContextLPFSE[message.ByteString](enc, fromBytesLPFSE, nil)
	require.NoError(t, ctx.KeyGenerate())
	require.NoError(t, ctx.Initialize(training, advantage))
	return ctx
}

func TestLPFSEIHBERoundTrip(t *testing.T) {
	training := []message.ByteString{"a", "a", "a", "b", "c"}
	scheme := newIHBEContext(t, training, 1.0/16.0)

	for _, m := range training {
		cts, err := scheme.Encrypt(m)
		require.NoError(t, err)
		require.Len(t, cts, 1)
		plain, err := scheme.Decrypt(cts[0])
		require.NoError(t, err)
		require.Equal(t, string(m), string(plain))
	}
}

func TestLPFSEIHBESearchFindsAllInsertedHomophones(t *testing.T) {
	ctxBg := context.Background()
	training := []message.ByteString{"a", "a", "a", "b"}
	scheme := newIHBEContext(t, training, 1.0/16.0)
	adapter := storage.NewMemory(nil)

	for i := 0; i < 5; i++ {
		cts, err := scheme.Encrypt("a")
		require.NoError(t, err)
		require.NoError(t, adapter.Insert(ctxBg, []storage.Doc{{Data: cts[0]}}, "col"))
	}
	cts, err := scheme.Encrypt("b")
	require.NoError(t, err)
	require.NoError(t, adapter.Insert(ctxBg, []storage.Doc{{Data: cts[0]}}, "col"))

	results, err := scheme.Search(ctxBg, "a", adapter, "col")
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		require.Equal(t, message.ByteString("a"), r)
	}
}

func TestLPFSEBHERoundTrip(t *testing.T) {
	training := []message.ByteString{"a", "a", "a", "a", "b", "c"}
	enc := NewEncoderBHE[message.ByteString](nil)
	scheme := NewContextLPFSE[message.ByteString](enc, fromBytesLPFSE, nil)
	require.NoError(t, scheme.KeyGenerate())
	require.NoError(t, scheme.Initialize(training, 1.0/8.0))

	for _, m := range training {
		cts, err := scheme.Encrypt(m)
		require.NoError(t, err)
		plain, err := scheme.Decrypt(cts[0])
		require.NoError(t, err)
		require.Equal(t, string(m), string(plain))
	}
}

func TestLPFSEEncryptBeforeInitializeFails(t *testing.T) {
	enc := NewEncoderIHBE[message.ByteString](nil)
	scheme := NewContextLPFSE[message.ByteString](enc, fromBytesLPFSE, nil)
	require.NoError(t, scheme.KeyGenerate())
	_, err := scheme.Encrypt("a")
	require.Error(t, err)
}
