// Package store provides SQLite-backed history of prelude generation runs.
//
// Each run records the hash of the boxed-type table it was generated from and
// the content hash of every artifact it produced. The CLI consults the latest
// record for an artifact path to skip rewriting files whose content has not
// changed.
//
// # Critical Patterns
//
// Logical ordering:
//   - Runs are ordered by seq INTEGER (logical clock), never by timestamps
//   - All queries include ORDER BY seq, id COLLATE BINARY for deterministic results
//
// Idempotency:
//   - Run IDs are UUIDv7; writing the same run twice is a no-op
//   - UNIQUE(run_id, path) on artifacts
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
