package store

import (
	"encoding/json"
	"fmt"
)

const snapshotSchemaVersionCurrent = 1

// Snapshot is the persisted form of a user identity. It mirrors what the
// identity service returns so hydration at startup can rebuild the session
// without a network round-trip.
type Snapshot struct {
	SchemaVersion int    `json:"v"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
}

// EncodeSnapshot serializes snap, stamping the current schema version.
func EncodeSnapshot(snap Snapshot) (string, error) {
	snap.SchemaVersion = snapshotSchemaVersionCurrent
	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	return string(data), nil
}

// DecodeSnapshot parses a stored snapshot. Unknown schema versions, empty
// IDs, and malformed JSON all yield [ErrSnapshotCorrupt]: the caller falls
// back to treating the snapshot as absent.
func DecodeSnapshot(raw string) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	if snap.SchemaVersion < 1 || snap.SchemaVersion > snapshotSchemaVersionCurrent {
		return Snapshot{}, fmt.Errorf("%w: unsupported schema version %d", ErrSnapshotCorrupt, snap.SchemaVersion)
	}
	if snap.ID == "" {
		return Snapshot{}, fmt.Errorf("%w: missing identity id", ErrSnapshotCorrupt)
	}
	return snap, nil
}
