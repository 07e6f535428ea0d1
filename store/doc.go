// Package store provides durable key-value persistence for session material:
// the opaque access token, the optional refresh token, and a cached identity
// snapshot used for optimistic hydration at startup.
//
// # Snapshot encoding
//
// Identity snapshots are stored as versioned JSON (schema version v1). The
// codec is append-only: new versions add fields but never reinterpret old
// ones. Unparseable snapshots are reported as [ErrSnapshotCorrupt] and
// treated by callers as absent, never as fatal.
//
// # Architecture boundaries
//
// This package owns storage and the snapshot codec. It holds no policy: it
// does NOT decide when a session is valid, when to revalidate, or when to
// clear — those responsibilities belong to the state machine in the root
// package.
//
// # What this package must NOT do
//
//   - Import sessync or any sibling package (no upward imports).
//   - Interpret token contents.
//   - Guard against concurrent writers in separate processes. Writes are
//     atomic per key within one process only; cross-process coordination is
//     explicitly out of scope.
package store
