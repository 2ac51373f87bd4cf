package table

import "cmp"

// Builder is the fluent configuration facade for creating tables.
//
// Defaults: ordering chosen by the terminal operation, Protected privacy,
// no concurrency hints, no compression, centralized counters.
//
// Example:
//
//	t, owner, err := table.New[string, int]("sessions").
//		WithReadConcurrency().
//		WithWriteConcurrency().
//		BuildOrdered(reg)
type Builder[K cmp.Ordered, V any] struct {
	name   string
	opts   Options
	tokens TokenSource
}

// New creates a Builder for a table with the given name. The name is
// validated at build time, not here.
func New[K cmp.Ordered, V any](name string) *Builder[K, V] {
	return &Builder[K, V]{
		name:   name,
		opts:   DefaultOptions(),
		tokens: UUIDv7Source{},
	}
}

// WithReadConcurrency sets the read-concurrency tuning hint.
func (b *Builder[K, V]) WithReadConcurrency() *Builder[K, V] {
	b.opts.ReadConcurrency = true
	return b
}

// WithWriteConcurrency sets the write-concurrency tuning hint, selecting
// striped storage.
func (b *Builder[K, V]) WithWriteConcurrency() *Builder[K, V] {
	b.opts.WriteConcurrency = true
	return b
}

// WithCompression records the compression hint.
func (b *Builder[K, V]) WithCompression() *Builder[K, V] {
	b.opts.Compressed = true
	return b
}

// WithDecentralizedCounters switches the size counter to per-shard counts.
func (b *Builder[K, V]) WithDecentralizedCounters() *Builder[K, V] {
	b.opts.CounterMode = Decentralized
	return b
}

// WithOptions replaces the builder's configuration wholesale, for callers
// that assemble Options elsewhere (e.g. from a manifest). The ordering field
// is still chosen by the terminal operation.
func (b *Builder[K, V]) WithOptions(opts Options) *Builder[K, V] {
	b.opts = opts
	return b
}

// WithPrivacy sets the table's privacy level.
func (b *Builder[K, V]) WithPrivacy(p Privacy) *Builder[K, V] {
	b.opts.Privacy = p
	return b
}

// WithTokenSource overrides the owner-token source. Used by tests that need
// deterministic tokens.
func (b *Builder[K, V]) WithTokenSource(src TokenSource) *Builder[K, V] {
	b.tokens = src
	return b
}

// BuildUnordered validates the configuration and creates an Unordered table.
func (b *Builder[K, V]) BuildUnordered(reg NameRegistry) (*Table[K, V], Token, error) {
	b.opts.Ordering = Unordered
	return b.build(reg)
}

// BuildOrdered validates the configuration and creates an Ordered table.
func (b *Builder[K, V]) BuildOrdered(reg NameRegistry) (*Table[K, V], Token, error) {
	b.opts.Ordering = Ordered
	return b.build(reg)
}

// build validates the name, constructs the table, and registers it. On any
// failure nothing is left registered. The returned Token is the owner
// credential; it is issued exactly once, here.
func (b *Builder[K, V]) build(reg NameRegistry) (*Table[K, V], Token, error) {
	name, err := CheckName(b.name)
	if err != nil {
		return nil, Anonymous, err
	}

	owner := b.tokens.Next()
	t := newTable[K, V](name, b.opts, owner, reg)

	if err := reg.Register(name, t); err != nil {
		return nil, Anonymous, err
	}
	return t, owner, nil
}
