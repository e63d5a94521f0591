// Package store provides the gradebook Record Store.
//
// Every logical collection (classes, students, subjects, categories, weights,
// scores, assessment names, attendance, journals, schedules) is one JSON
// document stored under a stable string key. The layout matches the original
// browser local-storage shape so exported data stays compatible.
//
// # Layers
//
//   - Backend: the key/document port (SQLite on disk, Memory for tests)
//   - Collection[T]: typed load/save of one document
//   - Records: every named collection plus fresh Snapshot reads
//
// # Guarantees
//
//   - Loading a missing key yields an empty collection, never an error
//   - Save overwrites the whole document; PutAll is atomic across keys
//   - Every write bumps a monotonic revision so callers can tell whether
//     derived results are stale
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
