// Package cache implements the single-writer coordinator over a table.
//
// A coordinator is the only path authorized to mutate the table it owns.
// Writers enqueue messages; one consumer goroutine dequeues them in FIFO
// order and applies the corresponding table mutation. Writes are serialized
// by construction (one consumer, one queue) rather than by a lock visible to
// callers, which removes write-write races and keeps read latency
// independent of write load.
//
// Reads bypass the coordinator entirely: Lookup and ToList resolve the name
// through the registry and read the table's storage directly. There is no
// ordering guarantee between a Send and a concurrently issued Lookup - a
// reader may observe the table before or after a pending write is applied.
//
// Lifecycle:
//   - Starting: the table is built and registered; on failure the caller
//     gets a *StartError and nothing is left registered.
//   - Running: messages applied one at a time. Apply errors are logged and
//     processing continues.
//   - Stopped: the queue is closed and drained, then the owned table is
//     dropped. Stale handles fail with ErrTableNotFound.
//
// StartCustom exposes the same queue/loop/stop machinery with a
// caller-supplied state constructor and per-message reducer, for richer
// coordinators such as a table paired with auxiliary counters. It claims its
// name in the registry like the table-owning path does, so a name maps to at
// most one coordinator at any time.
package cache
