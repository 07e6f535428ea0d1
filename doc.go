// Package sessync keeps a client-side authentication session consistent
// across three independently updated sources: durable key-value storage, the
// in-memory session record, and an asynchronous identity revalidation call.
//
// The package is designed around one race: a login that completes while an
// older revalidation is still in flight must never be clobbered when that
// slower call resolves. The [Machine] owns the session, arms a time-bounded
// suppression window after every successful login or registration, and
// discards any revalidation result that lands inside the window or after the
// session has since transitioned.
//
// # Architecture boundaries
//
// sessync is the public surface. It exposes [Machine], [Builder], [Config],
// [Guard], [Broadcaster], and value types (Session, Identity, Decision).
// Storage lives in store/, identity-service transport in identity/, and the
// net/http adaptation of guard decisions in middleware/.
//
// # Ordering contract
//
// Within Login, Register, and Logout the durable write happens before the
// in-memory transition, which happens before the change publish. A
// subscriber that reacts to a publish by re-reading storage always sees the
// write that caused it.
//
// # What this package must NOT do
//
//   - Surface subsystem failures as errors to callers: login and
//     registration yield booleans, revalidation yields state transitions,
//     denied access yields redirect decisions.
//   - Retry identity-service calls. One request per operation; a failure is
//     surfaced once through the resulting transition.
//   - Distinguish a revalidation transport failure from an explicit
//     rejection. Both tear the session down, so an offline client is logged
//     out rather than left holding a token nobody confirmed.
//   - Coordinate multiple processes sharing one store. Cross-context
//     consistency of the durable store is a known, documented gap.
package sessync
