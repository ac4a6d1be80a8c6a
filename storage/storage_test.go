package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkSplitsAt4096(t *testing.T) {
	values := make([]string, 10000)
	for i := range values {
		values[i] = "v"
	}
	chunks := Chunk(values)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0].Values, MaxDisjunctsPerRequest)
	require.Len(t, chunks[1].Values, MaxDisjunctsPerRequest)
	require.Len(t, chunks[2].Values, 10000-2*MaxDisjunctsPerRequest)
}

func TestChunkEmpty(t *testing.T) {
	require.Nil(t, Chunk(nil))
}

func TestMemoryInsertSearchRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	err := m.Insert(ctx, []Doc{{Data: "aaa"}, {Data: "bbb"}, {Data: "ccc"}}, "col")
	require.NoError(t, err)

	docs, err := m.Search(ctx, Filter{Values: []string{"aaa", "ccc", "zzz"}}, "col")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	size, err := m.Size(ctx, "col")
	require.NoError(t, err)
	require.Equal(t, int64(9), size)
}

func TestMemoryDropOnClose(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	require.NoError(t, m.Insert(ctx, []Doc{{Data: "x"}}, "col"))
	m.MarkDropOnClose("col")

	require.NoError(t, m.Close(ctx))

	docs, err := m.Search(ctx, Filter{Values: []string{"x"}}, "col")
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestSearchAllChunksAcrossMultipleCalls(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	values := make([]string, MaxDisjunctsPerRequest+5)
	docs := make([]Doc, len(values))
	for i := range values {
		values[i] = "v" + string(rune('A'+i%26)) + string(rune(i))
		docs[i] = Doc{Data: values[i]}
	}
	require.NoError(t, m.Insert(ctx, docs, "col"))

	got, err := SearchAll(ctx, m, values, "col")
	require.NoError(t, err)
	require.Len(t, got, len(values))
}
