package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// shardKeyK0/K1 pin the siphash key across a Memory instance's lifetime; it
// only needs to be stable within one instance, not secret.
var shardKeyK0, shardKeyK1 uint64 = 0x5ea5115e_5ea5115e, 0x0ffee5770ffee577

// Memory is a reference, in-process implementation of Adapter: a sharded
// map keyed by siphash(Field value), mirroring how a real document store
// would bucket an equality index rather than linear-scan it. It exists for
// tests and cmd/fsedemo — a production deployment supplies its own
// Mongo/Postgres/whatever Adapter.
//
// Close implements a drop-on-destruct pattern: Go has no destructors, so
// callers must `defer conn.Close(ctx)` explicitly instead of relying on a
// Drop impl.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[uint64][]Doc
	dropOnClose []string
	log         *logrus.Entry
}

// NewMemory constructs an empty in-memory adapter. log may be nil, in which
// case a discarding logger is used.
func NewMemory(log *logrus.Entry) *Memory {
	if log == nil {
		l := logrus.New()
		l.SetOutput(logNoop{})
		log = logrus.NewEntry(l)
	}
	return &Memory{
		collections: make(map[string]map[uint64][]Doc),
		log:         log,
	}
}

// logNoop discards everything written to it, giving callers who don't pass a
// logger a genuinely silent default instead of logrus's stderr default.
type logNoop struct{}

func (logNoop) Write(p []byte) (int, error) { return len(p), nil }

func shard(data string) uint64 {
	return siphash.Hash(shardKeyK0, shardKeyK1, []byte(data))
}

// Insert implements Adapter.
func (m *Memory) Insert(ctx context.Context, docs []Doc, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[uint64][]Doc)
		m.collections[collection] = coll
	}
	for _, d := range docs {
		k := shard(d.Data)
		coll[k] = append(coll[k], d)
	}
	m.log.WithFields(logrus.Fields{"collection": collection, "count": len(docs)}).Debug("storage: inserted documents")
	return nil
}

// Search implements Adapter.
func (m *Memory) Search(ctx context.Context, filter Filter, collection string) ([]Doc, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reqID := uuid.NewString()
	coll, ok := m.collections[collection]
	if !ok {
		m.log.WithField("request_id", reqID).Debug("storage: search against missing collection")
		return nil, nil
	}

	var out []Doc
	for _, v := range filter.Values {
		for _, d := range coll[shard(v)] {
			if d.Data == v {
				out = append(out, d)
			}
		}
	}
	m.log.WithFields(logrus.Fields{"request_id": reqID, "matched": len(out)}).Debug("storage: search complete")
	return out, nil
}

// Drop implements Adapter.
func (m *Memory) Drop(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.collections, collection)
	m.log.WithField("collection", collection).Debug("storage: dropped collection")
	return nil
}

// Size implements Adapter.
func (m *Memory) Size(ctx context.Context, collection string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coll, ok := m.collections[collection]
	if !ok {
		return 0, nil
	}
	var total int64
	for _, docs := range coll {
		for _, d := range docs {
			total += int64(len(d.Data))
		}
	}
	return total, nil
}

// MarkDropOnClose registers collection to be dropped when Close is called,
// mirroring the Rust Connector's opt-in drop-on-destruct flag.
func (m *Memory) MarkDropOnClose(collection string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropOnClose = append(m.dropOnClose, collection)
}

// Close drops every collection registered via MarkDropOnClose. Safe to call
// multiple times.
func (m *Memory) Close(ctx context.Context) error {
	m.mu.Lock()
	toDrop := m.dropOnClose
	m.dropOnClose = nil
	m.mu.Unlock()

	var firstErr error
	for _, c := range toDrop {
		if err := m.Drop(ctx, c); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("storage: close: drop %q: %w", c, err)
		}
	}
	return firstErr
}

var _ Adapter = (*Memory)(nil)
