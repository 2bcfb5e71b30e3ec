// Package cache implements the four store backends behind the uniform
// types.Store contract: an ephemeral in-process map, a synchronous
// persistent JSONL-backed file store, a transactional SQLite store, and a
// no-op store.
//
// All backends evict lazily: reading an expired entry deletes it and
// reports a miss. Memory, file, and SQLite additionally implement
// types.Sweeper for active cleanup.
package cache
