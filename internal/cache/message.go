package cache

import (
	"cmp"

	"github.com/roach88/tabular/internal/table"
)

// Op distinguishes write-request kinds.
type Op int

const (
	// OpInsert stores one key-value pair.
	OpInsert Op = iota + 1
	// OpInsertMany applies an ordered batch of pairs.
	OpInsertMany
	// OpDelete removes one key.
	OpDelete
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpInsertMany:
		return "insert_many"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Message is a write request. Messages sent to one coordinator are applied
// in send order relative to each other; there is no priority.
type Message[K cmp.Ordered, V any] struct {
	Op      Op
	Key     K
	Value   V
	Entries []table.Entry[K, V]
}

// NewInsert builds an Insert message.
func NewInsert[K cmp.Ordered, V any](key K, value V) Message[K, V] {
	return Message[K, V]{Op: OpInsert, Key: key, Value: value}
}

// NewInsertMany builds an InsertMany message. Entry order is preserved;
// later duplicate keys win over earlier ones.
func NewInsertMany[K cmp.Ordered, V any](entries ...table.Entry[K, V]) Message[K, V] {
	return Message[K, V]{Op: OpInsertMany, Entries: entries}
}

// NewDelete builds a Delete message.
func NewDelete[K cmp.Ordered, V any](key K) Message[K, V] {
	return Message[K, V]{Op: OpDelete, Key: key}
}
