// Package store provides SQLite-backed durable storage for a single spell.
//
// One database file holds everything a spell keeps between invocations:
//   - kv: scalar strings, scalar u32 values and ordered string lists
//   - relay, trigger_config, script: singletons
//   - logs, mailbox, errors/particles: bounded journals
//   - config_table: journal capacities and running counts
//
// # KV Entries
//
// A key holds either one scalar row or a list of rows, never both. The kind
// column records which. Scalar writes and list pushes clear the other form in
// the same transaction. Callers see Entry values; the list_index = -1 scalar
// encoding never leaves this package.
//
// # Bounded Journals
//
// Every journal append runs in one transaction with its eviction pass: insert,
// then evict the oldest unit until count <= capacity. Logs and mailbox evict
// single rows. The error journal evicts whole particles together with all of
// their errors.
//
// # Authorization
//
// The store does not check who is calling. Guarding writes is the job of the
// spell service in front of it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
