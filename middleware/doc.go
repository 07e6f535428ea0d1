// Package middleware adapts sessync route-guard decisions to net/http.
//
// # Guards
//
//   - [Guard] — evaluates the machine's current session against an optional
//     required role and maps the decision onto HTTP semantics.
//   - [RequireAuthenticated] — Guard with no role requirement.
//   - [RequireRole] — Guard with a role requirement.
//
// An allow decision injects the decided session into the request context;
// the redirect decisions answer 302 to the configured paths; show-loading
// answers 503 with Retry-After so clients poll instead of bouncing to the
// login page while revalidation is still in flight.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Machine calls. It does NOT
// implement access policy itself — every decision is delegated to
// Machine.Decide.
//
// # What this package must NOT do
//
//   - Inspect tokens or talk to the identity service.
//   - Override a guard decision.
//   - Mutate session state.
package middleware
