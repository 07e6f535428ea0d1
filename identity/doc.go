// Package identity is the transport boundary to the remote identity service:
// credential authentication, registration, token revalidation, and
// best-effort remote logout.
//
// # Error taxonomy
//
// Every failure maps onto exactly one sentinel:
//
//   - [ErrInvalidCredentials] — authenticate/register rejected the credentials.
//   - [ErrUnauthorized] — the service explicitly rejected a token during
//     revalidation.
//   - [ErrNetwork] — the call could not complete (transport failure, timeout,
//     or a server-side fault that produced no usable answer).
//
// Callers classify with [errors.Is]; the concrete cause stays wrapped for
// audit metadata.
//
// # Architecture boundaries
//
// This package owns request construction, response decoding, and error
// classification. It does NOT retry (one request per call), cache results,
// or touch session state — those responsibilities belong to the state
// machine in the root package.
//
// # What this package must NOT do
//
//   - Import sessync or the store package (no upward imports).
//   - Retry or back off on failure.
//   - Validate token signatures; [TokenExpiry] is an unverified peek only.
package identity
