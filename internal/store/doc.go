// Package store provides SQLite-backed durable storage for statbook.
//
// The store keeps two tables:
//   - collections: the latest JSON state of each entity collection
//   - journal: an append-only record of ledger mutations
//
// # Ordering
//
// Every write is stamped with seq from a logical clock that resumes from the
// highest seq on disk. Journal reads are ORDER BY seq ASC, so history output
// is identical no matter when it is read.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
