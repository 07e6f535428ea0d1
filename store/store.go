package store

import (
	"context"
	"errors"
)

// Keys recognized by every [Store] implementation. Callers outside this
// package should use the typed helpers ([SaveSession], [LoadState], [Clear])
// rather than touching keys directly.
const (
	KeyToken            = "token"
	KeyRefreshToken     = "refresh_token"
	KeyIdentitySnapshot = "identity_snapshot"
)

// ErrUnavailable is returned when the storage backend cannot be reached.
var ErrUnavailable = errors.New("session store unavailable")

// ErrSnapshotCorrupt is returned when a persisted identity snapshot cannot
// be decoded. Callers treat a corrupt snapshot as absent.
var ErrSnapshotCorrupt = errors.New("identity snapshot corrupt")

// Store is durable per-user key-value storage for session material.
//
// Writes are atomic per key: a reader never observes a partial value. No
// atomicity is guaranteed across keys, and no locking is performed across
// processes — two processes writing the same backend concurrently is a known
// unguarded race.
type Store interface {
	// Get returns the value for key. The second result reports whether the
	// key was present; absence is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is a no-op.
	Remove(ctx context.Context, key string) error
}

// State is the typed view of everything a [Store] holds, as read by
// [LoadState]. Snapshot is nil when no snapshot was stored or when the
// stored snapshot failed to decode.
type State struct {
	Token        string
	RefreshToken string
	Snapshot     *Snapshot
}

// SaveSession persists a freshly established session: token, optional
// refresh token, and the identity snapshot, in that order. An empty
// refreshToken removes any previously stored one rather than storing an
// empty string.
func SaveSession(ctx context.Context, s Store, token, refreshToken string, snap Snapshot) error {
	if err := s.Set(ctx, KeyToken, token); err != nil {
		return err
	}

	if refreshToken == "" {
		if err := s.Remove(ctx, KeyRefreshToken); err != nil {
			return err
		}
	} else if err := s.Set(ctx, KeyRefreshToken, refreshToken); err != nil {
		return err
	}

	encoded, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyIdentitySnapshot, encoded)
}

// SaveSnapshot replaces only the persisted identity snapshot, leaving the
// tokens untouched. Used after a successful revalidation returns canonical
// identity data.
func SaveSnapshot(ctx context.Context, s Store, snap Snapshot) error {
	encoded, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	return s.Set(ctx, KeyIdentitySnapshot, encoded)
}

// LoadState reads all three keys. A snapshot that is present but corrupt is
// reported as nil Snapshot together with [ErrSnapshotCorrupt]; the returned
// State is still usable in that case.
func LoadState(ctx context.Context, s Store) (State, error) {
	var state State

	token, ok, err := s.Get(ctx, KeyToken)
	if err != nil {
		return State{}, err
	}
	if ok {
		state.Token = token
	}

	refresh, ok, err := s.Get(ctx, KeyRefreshToken)
	if err != nil {
		return State{}, err
	}
	if ok {
		state.RefreshToken = refresh
	}

	raw, ok, err := s.Get(ctx, KeyIdentitySnapshot)
	if err != nil {
		return State{}, err
	}
	if ok {
		snap, decodeErr := DecodeSnapshot(raw)
		if decodeErr != nil {
			return state, decodeErr
		}
		state.Snapshot = &snap
	}

	return state, nil
}

// Clear removes all session material. Used on logout and on forced teardown
// after the identity service rejects the stored token.
func Clear(ctx context.Context, s Store) error {
	for _, key := range []string{KeyToken, KeyRefreshToken, KeyIdentitySnapshot} {
		if err := s.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
