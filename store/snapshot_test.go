package store

import (
	"errors"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	in := Snapshot{ID: "u1", Email: "A@B.com", Name: "Alice Müller", Role: "Admin"}

	encoded, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	out, err := DecodeSnapshot(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if out.ID != in.ID || out.Email != in.Email || out.Name != in.Name || out.Role != in.Role {
		t.Fatalf("lossy round-trip: %+v != %+v", out, in)
	}
	if out.SchemaVersion != snapshotSchemaVersionCurrent {
		t.Fatalf("expected current schema version, got %d", out.SchemaVersion)
	}
}

func TestDecodeSnapshotRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "garbage"},
		{name: "empty object", raw: "{}"},
		{name: "missing id", raw: `{"v":1,"email":"a@b.com"}`},
		{name: "future schema version", raw: `{"v":99,"id":"u1"}`},
		{name: "zero schema version", raw: `{"v":0,"id":"u1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSnapshot(tt.raw); !errors.Is(err, ErrSnapshotCorrupt) {
				t.Fatalf("expected ErrSnapshotCorrupt, got %v", err)
			}
		})
	}
}
