package sessync

import (
	"context"
	"errors"

	"github.com/sessync/sessync/identity"
	"github.com/sessync/sessync/store"
)

// Revalidate re-confirms the current token against the identity service,
// synchronously. Outcomes surface as state transitions, never as return
// values: an accepted result replaces the identity wholesale, a rejection
// tears the session down. The call is skipped entirely while a suppression
// window is armed and discarded when the session transitions while it was
// in flight. With no stored token it is a no-op.
func (m *Machine) Revalidate(ctx context.Context) {
	if m == nil || m.closedNow() {
		return
	}

	m.mu.Lock()
	token := m.session.Token
	gen := m.generation
	suppressed := m.suppress.active(m.now())
	m.mu.Unlock()

	if token == "" {
		return
	}
	if suppressed {
		m.metrics.Inc(MetricRevalidateSuppressed)
		m.emitAudit(ctx, auditEventRevalidateSuppressed, false, "", "", nil, nil)
		return
	}

	m.runRevalidation(ctx, token, gen)
}

// runRevalidation issues the revalidation request and applies its result
// under the race-avoidance rules. gen is the machine generation captured
// when the call was scheduled: any accepted mutation since then (login,
// logout, another accepted revalidation) makes this result stale, and a
// stale result is discarded no matter what it says. While the suppression
// window is armed, results are likewise discarded: the identity installed
// by the login that armed the window must win over this older call.
func (m *Machine) runRevalidation(ctx context.Context, token string, gen uint64) {
	ident, err := m.client.Revalidate(ctx, token)

	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return
	}
	if m.suppress.active(m.now()) {
		m.mu.Unlock()
		m.metrics.Inc(MetricRevalidateSuppressed)
		m.emitAudit(ctx, auditEventRevalidateSuppressed, false, "", "", nil, nil)
		return
	}
	if m.generation != gen {
		m.mu.Unlock()
		m.metrics.Inc(MetricRevalidateStale)
		m.emitAudit(ctx, auditEventRevalidateStale, false, "", "", nil, nil)
		return
	}

	if err != nil {
		m.applyRevalidationFailure(ctx, err)
		return
	}

	// Canonical identity replaces whatever was hydrated from the snapshot,
	// and the snapshot is refreshed to match. Store write precedes the
	// in-memory transition, transition precedes the publish.
	replaced := identityFromService(ident)
	_ = store.SaveSnapshot(ctx, m.store, snapshotFromIdentity(replaced))
	m.session = Session{
		Status:   StatusAuthenticated,
		Token:    token,
		Identity: &replaced,
	}
	m.generation++
	m.mu.Unlock()

	m.broadcaster.Publish()
	m.metrics.Inc(MetricRevalidateSuccess)
	m.emitAudit(ctx, auditEventRevalidateSuccess, true, replaced.ID, replaced.Email, nil, nil)
}

// applyRevalidationFailure tears the session down after the identity
// service failed to confirm the token. A transport failure is handled
// identically to an explicit rejection: both clear the store and force the
// session to unauthenticated, so a transient network outage logs the user
// out. Deliberate; see the package doc.
//
// Called with m.mu held; releases it.
func (m *Machine) applyRevalidationFailure(ctx context.Context, cause error) {
	unauthorized := errors.Is(cause, identity.ErrUnauthorized)

	_ = store.Clear(ctx, m.store)
	m.session = Session{Status: StatusUnauthenticated}
	m.generation++
	m.suppress.clear()
	m.mu.Unlock()

	m.broadcaster.Publish()
	if unauthorized {
		m.metrics.Inc(MetricRevalidateUnauthorized)
	} else {
		m.metrics.Inc(MetricRevalidateNetwork)
	}
	m.emitAudit(ctx, auditEventRevalidateRejected, false, "", "", cause, func() map[string]string {
		reason := "network"
		if unauthorized {
			reason = "unauthorized"
		}
		return map[string]string{"reason": reason}
	})
}
