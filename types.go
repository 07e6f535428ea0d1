package sessync

import (
	"strings"

	"github.com/sessync/sessync/identity"
	"github.com/sessync/sessync/store"
)

// Status is the lifecycle state of the in-memory session.
type Status uint8

const (
	// StatusUnauthenticated is the resting state: no token, no identity.
	StatusUnauthenticated Status = iota
	// StatusPending means a token exists but its revalidation has not yet
	// resolved and no cached identity was available to hydrate from.
	StatusPending
	// StatusAuthenticated means both token and identity are present.
	StatusAuthenticated
)

// String returns the lowercase state name.
func (s Status) String() string {
	switch s {
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusPending:
		return "pending"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Identity is the canonical user profile returned by the identity service.
// It is an immutable snapshot: revalidation replaces it wholesale, never
// field by field.
type Identity struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// HasRole reports whether the identity carries role, compared
// case-insensitively.
func (i Identity) HasRole(role string) bool {
	return strings.EqualFold(i.Role, role)
}

// Session is the authoritative in-memory record of authentication state.
//
// Invariants maintained by [Machine]:
//
//	Status == StatusAuthenticated   ⇒ Token != "" && Identity != nil
//	Status == StatusUnauthenticated ⇒ Token == "" && Identity == nil
//	Status == StatusPending         ⇒ Token != ""
type Session struct {
	Status   Status
	Token    string
	Identity *Identity
}

func identityFromService(ident identity.Identity) Identity {
	return Identity{
		ID:    ident.ID,
		Email: ident.Email,
		Name:  ident.Name,
		Role:  ident.Role,
	}
}

func identityFromSnapshot(snap store.Snapshot) Identity {
	return Identity{
		ID:    snap.ID,
		Email: snap.Email,
		Name:  snap.Name,
		Role:  snap.Role,
	}
}

func snapshotFromIdentity(ident Identity) store.Snapshot {
	return store.Snapshot{
		ID:    ident.ID,
		Email: ident.Email,
		Name:  ident.Name,
		Role:  ident.Role,
	}
}
