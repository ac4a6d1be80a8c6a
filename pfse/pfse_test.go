package pfse

import (
	"context"
	"testing"

	"github.com/fse-go/fse/message"
	"github.com/fse-go/fse/storage"
	"github.com/stretchr/testify/require"
)

func newReadyContext(t *testing.T, training []message.ByteString, lambda, scale, advantage float64) *ContextPFSE[message.ByteString] {
	t.Helper()
	ctx := NewContextPFSE[message.ByteString](message.ByteStringCodec{}, nil)
	require.NoError(t, ctx.KeyGenerate())
	require.NoError(t, ctx.SetParams(lambda, scale, advantage))
	require.NoError(t, ctx.Partition(training, nil))
	require.NoError(t, ctx.Transform())
	return ctx
}

func TestPFSERoundTrip(t *testing.T) {
	training := []message.ByteString{"a", "a", "a", "a", "a", "a", "b", "b", "c", "c"}
	scheme := newReadyContext(t, training, 0.25, 1.0, 1.0/16.0)

	for _, m := range []message.ByteString{"a", "b", "c"} {
		cts, err := scheme.Encrypt(m)
		require.NoError(t, err)
		require.NotEmpty(t, cts)
		for _, ct := range cts {
			plain, err := scheme.Decrypt(ct)
			require.NoError(t, err)
			require.Equal(t, string(m), string(plain))
		}
	}
}

func TestPFSEEncryptUnknownMessageFails(t *testing.T) {
	training := []message.ByteString{"a", "a", "b"}
	scheme := newReadyContext(t, training, 0.25, 1.0, 1.0/8.0)
	_, err := scheme.Encrypt("z")
	require.Error(t, err)
}

func TestPFSESearchFindsOnlyMatchingMessage(t *testing.T) {
	ctxBg := context.Background()
	training := []message.ByteString{"a", "a", "a", "a", "a", "a", "b", "b", "c", "c"}
	scheme := newReadyContext(t, training, 0.25, 1.0, 1.0/16.0)
	adapter := storage.NewMemory(nil)

	for _, m := range []message.ByteString{"a", "b", "c"} {
		cts, err := scheme.Encrypt(m)
		require.NoError(t, err)
		docs := make([]storage.Doc, len(cts))
		for i, ct := range cts {
			docs[i] = storage.Doc{Data: ct}
		}
		require.NoError(t, adapter.Insert(ctxBg, docs, "col"))
	}

	results, err := scheme.Search(ctxBg, "a", adapter, "col")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		require.Equal(t, message.ByteString("a"), r)
	}
}

func TestPFSESmoothVisitsEveryMessageOnceAndPadsWithDummies(t *testing.T) {
	training := make([]message.ByteString, 0, 1000)
	for i := 0; i < 998; i++ {
		training = append(training, "common")
	}
	training = append(training, "rare1", "rare2")

	scheme := newReadyContext(t, training, 0.25, 1.0, 0.05)
	tokens, err := scheme.Smooth()
	require.NoError(t, err)
	require.NotEmpty(t, tokens)

	seen := make(map[string]int)
	for _, tok := range tokens {
		seen[tok]++
	}
	require.Greater(t, len(seen), 0)

	// Each real message is visited once, so every one of its ciphertexts
	// appears exactly RepeatCount times; dummy padding adds further tokens.
	realCount := 0
	for m, entries := range scheme.LocalTable() {
		cts, err := scheme.Encrypt(m)
		require.NoError(t, err)
		k := 0
		for _, e := range entries {
			for j := 0; j < e.SetSize; j++ {
				require.Equal(t, e.RepeatCount, seen[cts[k]])
				k++
				realCount += e.RepeatCount
			}
		}
	}
	require.Greater(t, len(tokens), realCount, "smoothed stream must include dummy padding")
}

func TestPFSESetParamsRejectsOutOfRangeLambda(t *testing.T) {
	ctx := NewContextPFSE[message.ByteString](message.ByteStringCodec{}, nil)
	require.NoError(t, ctx.KeyGenerate())
	require.Error(t, ctx.SetParams(0, 1.0, 0.1))
	require.Error(t, ctx.SetParams(1.5, 1.0, 0.1))
}

func TestPFSEPartitionBeforeSetParamsPanics(t *testing.T) {
	ctx := NewContextPFSE[message.ByteString](message.ByteStringCodec{}, nil)
	require.NoError(t, ctx.KeyGenerate())
	require.Panics(t, func() {
		_ = ctx.Partition([]message.ByteString{"a"}, nil)
	})
}

func TestPFSETransformBeforeSetParamsPanics(t *testing.T) {
	ctx := NewContextPFSE[message.ByteString](message.ByteStringCodec{}, nil)
	require.NoError(t, ctx.KeyGenerate())
	require.Panics(t, func() {
		_ = ctx.Transform()
	})
}
