// Package storage defines the abstract document-store contract the FSE core
// speaks to. The core never depends on a concrete database; it only ever
// calls through the Adapter interface here. A small in-memory reference
// implementation lives in memory.go for tests and the demo binary — a real
// deployment's Mongo/Postgres/whatever-backed adapter is an external
// collaborator, out of scope for this module.
package storage

import "context"

// MaxDisjunctsPerRequest bounds how many equality terms the core will pack
// into one search filter.
const MaxDisjunctsPerRequest = 4096

// Field is the single ciphertext field every document carries, on-disk as
// `{ data: base64-no-pad(ASCII) }`.
const Field = "data"

// Doc is the on-disk shape of a stored ciphertext.
type Doc struct {
	Data string `json:"data"`
}

// Filter is a disjunction of exact-match equality predicates over Field.
// Adapters must never receive more than MaxDisjunctsPerRequest values; the
// core is responsible for chunking (see Chunk).
type Filter struct {
	Values []string
}

// Adapter is the storage contract the core requires of any document store.
type Adapter interface {
	// Insert bulk-inserts docs into collection.
	Insert(ctx context.Context, docs []Doc, collection string) error
	// Search returns every document whose Field matches one of filter's
	// values, within collection.
	Search(ctx context.Context, filter Filter, collection string) ([]Doc, error)
	// Drop deletes collection entirely.
	Drop(ctx context.Context, collection string) error
	// Size reports collection's on-disk size in bytes.
	Size(ctx context.Context, collection string) (int64, error)
}

// Chunk splits values into groups of at most MaxDisjunctsPerRequest, each
// ready to become one Filter, so a caller never builds an over-wide
// disjunction.
func Chunk(values []string) []Filter {
	if len(values) == 0 {
		return nil
	}
	chunks := make([]Filter, 0, (len(values)+MaxDisjunctsPerRequest-1)/MaxDisjunctsPerRequest)
	for i := 0; i < len(values); i += MaxDisjunctsPerRequest {
		end := i + MaxDisjunctsPerRequest
		if end > len(values) {
			end = len(values)
		}
		chunks = append(chunks, Filter{Values: values[i:end]})
	}
	return chunks
}

// SearchAll runs Search once per chunk of values and flattens the results,
// the pattern every scheme's search path follows.
func SearchAll(ctx context.Context, a Adapter, values []string, collection string) ([]Doc, error) {
	var out []Doc
	for _, f := range Chunk(values) {
		docs, err := a.Search(ctx, f, collection)
		if err != nil {
			return nil, err
		}
		out = append(out, docs...)
	}
	return out, nil
}
