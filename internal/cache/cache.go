package cache

import (
	"cmp"
	"context"
	"fmt"

	"github.com/roach88/tabular/internal/table"
)

// owned pairs a table with its owner token. The coordinator is the only
// holder of the token, which makes it the only path able to mutate a
// Protected table.
type owned[K cmp.Ordered, V any] struct {
	t   *table.Table[K, V]
	tok table.Token
}

// Cache is a coordinator that owns one table exclusively. Write requests go
// through Send and are applied one at a time by the consumer goroutine;
// Lookup and ToList read the table directly through the registry.
type Cache[K cmp.Ordered, V any] struct {
	*Coordinator[owned[K, V], Message[K, V]]
	reg table.NameRegistry
}

// BuildFunc constructs and registers a table, returning the owner token.
// Builder terminals (Builder.BuildUnordered, Builder.BuildOrdered) satisfy
// it as method values.
type BuildFunc[K cmp.Ordered, V any] func(table.NameRegistry) (*table.Table[K, V], table.Token, error)

// Start starts a coordinator owning a default table: unordered, Protected,
// no concurrency hints. Fails with *StartError wrapping
// table.ErrNameConflict if name already resolves.
func Start[K cmp.Ordered, V any](
	ctx context.Context,
	reg table.NameRegistry,
	name string,
	opts ...Option,
) (*Cache[K, V], error) {
	return StartWith(ctx, reg, name, table.New[K, V](name).BuildUnordered, opts...)
}

// StartWith starts a coordinator owning a table produced by build:
//
//	c, err := cache.StartWith(ctx, reg, "scores",
//		table.New[string, int]("scores").WithWriteConcurrency().BuildOrdered)
//
// On build failure nothing is registered and the cause is wrapped in
// *StartError.
func StartWith[K cmp.Ordered, V any](
	ctx context.Context,
	reg table.NameRegistry,
	name string,
	build BuildFunc[K, V],
	opts ...Option,
) (*Cache[K, V], error) {
	init := func() (owned[K, V], error) {
		t, tok, err := build(reg)
		if err != nil {
			return owned[K, V]{}, err
		}
		return owned[K, V]{t: t, tok: tok}, nil
	}

	// Stop drops the table after the drain: the name is unregistered and
	// stale handles fail with ErrTableNotFound (logical drop).
	onStop := func(o owned[K, V]) {
		if o.t != nil {
			_ = o.t.Drop(o.tok)
		}
	}

	// No separate name claim here: the built table registers the name, so
	// uniqueness is already enforced through the table registry.
	co, err := startCustom(ctx, nil, name, init, applyMessage[K, V], onStop, opts...)
	if err != nil {
		return nil, err
	}

	return &Cache[K, V]{Coordinator: co, reg: reg}, nil
}

// applyMessage is the per-message reducer for table-owning coordinators.
func applyMessage[K cmp.Ordered, V any](o owned[K, V], msg Message[K, V]) error {
	switch msg.Op {
	case OpInsert:
		return o.t.Insert(o.tok, msg.Key, msg.Value)
	case OpInsertMany:
		return o.t.InsertMany(o.tok, msg.Entries)
	case OpDelete:
		return o.t.Delete(o.tok, msg.Key)
	default:
		return fmt.Errorf("unknown op: %d", msg.Op)
	}
}

// Insert enqueues an insert. Fire-and-forget: returns false only after Stop.
func (c *Cache[K, V]) Insert(key K, value V) bool {
	return c.Send(NewInsert[K, V](key, value))
}

// InsertMany enqueues an ordered batch insert.
func (c *Cache[K, V]) InsertMany(entries ...table.Entry[K, V]) bool {
	return c.Send(NewInsertMany(entries...))
}

// Delete enqueues a delete.
func (c *Cache[K, V]) Delete(key K) bool {
	return c.Send(NewDelete[K, V](key))
}

// Lookup reads key directly from the table, bypassing the queue. A reader
// may observe the table before or after a pending write is applied.
func (c *Cache[K, V]) Lookup(key K) (V, error) {
	return table.Lookup[K, V](c.reg, c.Name(), key)
}

// ToList returns a full snapshot of the owned table via the direct read
// path, sorted by key when the table is Ordered.
func (c *Cache[K, V]) ToList() ([]table.Entry[K, V], error) {
	return table.ToList[K, V](c.reg, c.Name())
}

// Get reads key with the owner credential. This is the read path for
// Private tables, which reject the anonymous Lookup. The table is safe for
// concurrent reads, so calling this outside the consumer goroutine is fine.
func (c *Cache[K, V]) Get(key K) (V, error) {
	return c.state.t.Get(c.state.tok, key)
}

// Info returns the owned table's configuration and current size.
func (c *Cache[K, V]) Info() table.Info {
	return c.state.t.Info()
}
