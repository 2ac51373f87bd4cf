package table

import (
	"cmp"
	"hash/maphash"
	"slices"
	"sync"
	"sync/atomic"
)

// Shard counts. One shard serializes all writers; the striped count is used
// when the write-concurrency hint is set.
const (
	defaultShardCount = 1
	stripedShardCount = 16
)

// Entry is an immutable key-value pair.
type Entry[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

type shard[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
	count   int64 // maintained only in Decentralized counter mode
}

// Table is a handle to a region of concurrent key-unique storage. Key and
// value types are fixed at creation time. All methods are safe for
// concurrent use; privacy is enforced per call via the presented Token.
type Table[K cmp.Ordered, V any] struct {
	name     string
	opts     Options
	owner    Token
	registry NameRegistry

	seed    maphash.Seed
	shards  []*shard[K, V]
	size    atomic.Int64 // maintained only in Centralized counter mode
	dropped atomic.Bool
}

func newTable[K cmp.Ordered, V any](name string, opts Options, owner Token, reg NameRegistry) *Table[K, V] {
	n := defaultShardCount
	if opts.WriteConcurrency {
		n = stripedShardCount
	}

	shards := make([]*shard[K, V], n)
	for i := range shards {
		shards[i] = &shard[K, V]{entries: make(map[K]V)}
	}

	return &Table[K, V]{
		name:     name,
		opts:     opts,
		owner:    owner,
		registry: reg,
		seed:     maphash.MakeSeed(),
		shards:   shards,
	}
}

func (t *Table[K, V]) shardFor(key K) *shard[K, V] {
	if len(t.shards) == 1 {
		return t.shards[0]
	}
	h := maphash.Comparable(t.seed, key)
	return t.shards[h%uint64(len(t.shards))]
}

func (t *Table[K, V]) checkWrite(tok Token) error {
	if t.dropped.Load() {
		return ErrTableNotFound
	}
	if t.opts.Privacy == Public || tok == t.owner {
		return nil
	}
	return ErrPrivacyViolation
}

func (t *Table[K, V]) checkRead(tok Token) error {
	if t.dropped.Load() {
		return ErrTableNotFound
	}
	if t.opts.Privacy == Private && tok != t.owner {
		return ErrPrivacyViolation
	}
	return nil
}

// Insert stores value under key, overwriting any previous value
// (last-write-wins). Requires write authorization.
func (t *Table[K, V]) Insert(tok Token, key K, value V) error {
	if err := t.checkWrite(tok); err != nil {
		return err
	}
	t.insert(key, value)
	return nil
}

// InsertMany applies entries in order; later duplicate keys win over earlier
// ones. Equivalent to sequential Insert calls: entries become visible one at
// a time, and readers may observe a partial batch mid-application.
func (t *Table[K, V]) InsertMany(tok Token, entries []Entry[K, V]) error {
	if err := t.checkWrite(tok); err != nil {
		return err
	}
	for _, e := range entries {
		t.insert(e.Key, e.Value)
	}
	return nil
}

func (t *Table[K, V]) insert(key K, value V) {
	s := t.shardFor(key)

	s.mu.Lock()
	_, existed := s.entries[key]
	s.entries[key] = value
	if !existed && t.opts.CounterMode == Decentralized {
		s.count++
	}
	s.mu.Unlock()

	if !existed && t.opts.CounterMode == Centralized {
		t.size.Add(1)
	}
}

// Delete removes the entry for key if present. Idempotent: deleting a
// missing key is not an error.
func (t *Table[K, V]) Delete(tok Token, key K) error {
	if err := t.checkWrite(tok); err != nil {
		return err
	}

	s := t.shardFor(key)

	s.mu.Lock()
	_, existed := s.entries[key]
	delete(s.entries, key)
	if existed && t.opts.CounterMode == Decentralized {
		s.count--
	}
	s.mu.Unlock()

	if existed && t.opts.CounterMode == Centralized {
		t.size.Add(-1)
	}
	return nil
}

// Get returns the value stored under key. Requires read authorization;
// a miss on a readable table returns ErrNotFound.
func (t *Table[K, V]) Get(tok Token, key K) (V, error) {
	var zero V
	if err := t.checkRead(tok); err != nil {
		return zero, err
	}

	s := t.shardFor(key)
	s.mu.RLock()
	value, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return zero, ErrNotFound
	}
	return value, nil
}

// Snapshot returns a copy of all entries. Ordered tables yield entries
// sorted by key; Unordered tables yield an unspecified order. The returned
// slice is detached from the table and stable regardless of later writes.
//
// Shard locks are taken one at a time, so a snapshot concurrent with a
// multi-shard write is not a point-in-time cut across shards.
func (t *Table[K, V]) Snapshot(tok Token) ([]Entry[K, V], error) {
	if err := t.checkRead(tok); err != nil {
		return nil, err
	}

	entries := make([]Entry[K, V], 0, t.Size())
	for _, s := range t.shards {
		s.mu.RLock()
		for key, value := range s.entries {
			entries = append(entries, Entry[K, V]{Key: key, Value: value})
		}
		s.mu.RUnlock()
	}

	if t.opts.Ordering == Ordered {
		slices.SortFunc(entries, func(a, b Entry[K, V]) int {
			return cmp.Compare(a.Key, b.Key)
		})
	}
	return entries, nil
}

// Size returns the current entry count.
func (t *Table[K, V]) Size() int {
	if t.opts.CounterMode == Centralized {
		return int(t.size.Load())
	}

	var total int64
	for _, s := range t.shards {
		s.mu.RLock()
		total += s.count
		s.mu.RUnlock()
	}
	return int(total)
}

// Drop destroys the table: the name is unregistered and every subsequent
// operation on the handle fails with ErrTableNotFound. Owner only.
func (t *Table[K, V]) Drop(tok Token) error {
	if t.dropped.Load() {
		return ErrTableNotFound
	}
	if tok != t.owner {
		return ErrPrivacyViolation
	}

	t.dropped.Store(true)
	t.registry.Unregister(t.name)

	// Release the maps; stale handles only ever see the dropped flag.
	for _, s := range t.shards {
		s.mu.Lock()
		s.entries = make(map[K]V)
		s.count = 0
		s.mu.Unlock()
	}
	t.size.Store(0)
	return nil
}

// Name returns the table's registered name.
func (t *Table[K, V]) Name() string {
	return t.name
}

// Info describes a table's configuration and current size.
type Info struct {
	Name             string
	Ordering         Ordering
	Privacy          Privacy
	ReadConcurrency  bool
	WriteConcurrency bool
	Compressed       bool
	CounterMode      CounterMode
	Shards           int
	Size             int
}

// Info returns the table's configuration and current size.
func (t *Table[K, V]) Info() Info {
	return Info{
		Name:             t.name,
		Ordering:         t.opts.Ordering,
		Privacy:          t.opts.Privacy,
		ReadConcurrency:  t.opts.ReadConcurrency,
		WriteConcurrency: t.opts.WriteConcurrency,
		Compressed:       t.opts.Compressed,
		CounterMode:      t.opts.CounterMode,
		Shards:           len(t.shards),
		Size:             t.Size(),
	}
}
