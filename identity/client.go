package identity

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials is returned by Authenticate and Register when
	// the identity service rejects the supplied credentials.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthorized is returned by Revalidate when the identity service
	// explicitly rejects the token.
	ErrUnauthorized = errors.New("token unauthorized")

	// ErrNetwork is returned when a call could not complete: transport
	// failure, timeout, or a malformed/5xx answer from the service.
	ErrNetwork = errors.New("identity service unreachable")
)

// Identity is the canonical user profile as returned by the identity
// service. It is an immutable snapshot: revalidation replaces it wholesale,
// never field by field. Role comparisons are case-insensitive on read.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Payload is the result of a successful Authenticate or Register call.
// RefreshToken may be empty; not every deployment issues one.
type Payload struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	Identity     Identity `json:"user"`
}

// Client is the identity-service contract the session state machine depends
// on. Each method issues exactly one request; retry and backoff decisions
// belong to callers, and no caller in this module takes one.
type Client interface {
	// Authenticate exchanges credentials for a token and identity.
	Authenticate(ctx context.Context, email, password string) (Payload, error)

	// Register creates an account and logs it in, with the same result
	// shape as Authenticate.
	Register(ctx context.Context, email, name, password string) (Payload, error)

	// Revalidate confirms a stored token and returns the canonical
	// identity. Fails with ErrUnauthorized or ErrNetwork.
	Revalidate(ctx context.Context, token string) (Identity, error)

	// Invalidate revokes the token server-side. Callers treat failure as
	// ignorable; local logout proceeds regardless.
	Invalidate(ctx context.Context, token string) error
}
