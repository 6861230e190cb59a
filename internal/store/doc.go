// Package store persists a journal of dispatches to SQLite.
//
// A Journal is a core.Observer. Attached to a World with world.WithObserver
// it buffers one Entry per finished dispatch, in completion order, and writes
// them in a single transaction on Flush. Worlds never read the journal; it is
// an audit trail layered on top of the World contract.
//
// Entries of a session can be read back in order, folded into the final
// state of every identifier (FinalStates), and compared against a live World
// by fingerprint (Verify).
//
// # Identity and ordering
//
//   - Entry IDs are content-addressed (ir.EntryID), so flushing the same
//     entries twice is a no-op.
//   - pos is the completion order inside a session and the only column
//     queries order by. seq is the logical time a dispatch began.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
