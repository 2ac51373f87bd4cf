// Package table implements the concurrent key-value table engine.
//
// A Table is a region of concurrent storage with a fixed key and value type,
// a configurable ordering mode, and a privacy level that gates who may read
// or write it. Tables are built through the fluent Builder, registered under
// a validated symbolic name, and resolved back through a NameRegistry.
//
// ARCHITECTURE:
//
// Striped storage:
// Each table is split into shards, each a plain map guarded by its own
// RWMutex. Readers take shard read locks only, so any number of concurrent
// readers proceed without contending with each other. The shard count is 1
// unless the write-concurrency hint is set, which trades memory for reduced
// writer contention.
//
// Ownership:
// Every table is created with an owner token. Privacy checks compare the
// token presented at the call boundary against the owner:
//   - Public: anyone may read and write
//   - Protected: anyone may read, only the owner may write
//   - Private: only the owner may read or write
//
// The owner token is returned once, by the Builder terminal, and is expected
// to be held by the table's coordinator. Anonymous callers present the zero
// Token.
//
// Consistency:
// InsertMany is NOT atomic across entries. Each entry takes its shard lock
// individually, so a concurrent reader may observe a partial batch. A reader
// never observes a torn entry: an individual key always maps to a value that
// was fully written.
package table
