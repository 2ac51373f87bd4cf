package table

import (
	"cmp"
	"fmt"
)

// resolveTable resolves name to a *Table[K, V]. A registered ref of a
// different table type is indistinguishable from no registration at the
// client, so both report ErrTableNotFound.
func resolveTable[K cmp.Ordered, V any](reg NameRegistry, name string) (*Table[K, V], error) {
	ref, err := reg.Resolve(NormalizeName(name))
	if err != nil {
		return nil, err
	}

	t, ok := ref.(*Table[K, V])
	if !ok {
		return nil, fmt.Errorf("%w: %s resolves to a different table type", ErrTableNotFound, name)
	}
	return t, nil
}

// Lookup resolves name through the registry and reads key directly from the
// table's storage. No message passing is involved: this path is safe to call
// concurrently from any number of callers and its latency is independent of
// write load. Private tables reject the anonymous read.
func Lookup[K cmp.Ordered, V any](reg NameRegistry, name string, key K) (V, error) {
	t, err := resolveTable[K, V](reg, name)
	if err != nil {
		var zero V
		return zero, err
	}
	return t.Get(Anonymous, key)
}

// ToList resolves name and returns a full snapshot of the table, sorted by
// key when the table is Ordered.
func ToList[K cmp.Ordered, V any](reg NameRegistry, name string) ([]Entry[K, V], error) {
	t, err := resolveTable[K, V](reg, name)
	if err != nil {
		return nil, err
	}
	return t.Snapshot(Anonymous)
}

// Whereis resolves a live table handle without performing any operation on
// it. Used by diagnostics and tests.
func Whereis[K cmp.Ordered, V any](reg NameRegistry, name string) (*Table[K, V], error) {
	return resolveTable[K, V](reg, name)
}
