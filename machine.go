package sessync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sessync/sessync/identity"
	"github.com/sessync/sessync/store"
)

// Machine owns the in-memory session and orchestrates every mutation of it:
// startup hydration, login, registration, logout, and asynchronous token
// revalidation. Methods are safe to call from multiple goroutines after
// construction through [Builder.Build].
//
// Mutation ordering within one operation is fixed: durable store write,
// then in-memory transition, then change publish.
type Machine struct {
	config      Config
	store       store.Store
	client      identity.Client
	guard       Guard
	broadcaster *Broadcaster
	metrics     *Metrics
	audit       *auditDispatcher
	now         func() time.Time

	mu          sync.Mutex
	session     Session
	suppress    suppressionWindow
	generation  uint64
	initialized bool
	closed      bool
}

// Init restores session state from the durable store, exactly once at
// startup.
//
// With no stored token the session rests at unauthenticated. With a token
// and a readable identity snapshot the session hydrates optimistically to
// authenticated, so protected views render without waiting on the network;
// without a snapshot it enters pending. Either way a revalidation of the
// token is started in the background unless a suppression window is armed,
// and its outcome is applied through the usual transition rules.
//
// ctx governs both the store reads and the background revalidation call.
func (m *Machine) Init(ctx context.Context) error {
	if m == nil {
		return ErrMachineNotReady
	}

	m.mu.Lock()

	if m.closed {
		m.mu.Unlock()
		return ErrMachineNotReady
	}
	if m.initialized {
		m.mu.Unlock()
		return ErrAlreadyInitialized
	}
	m.initialized = true

	state, err := store.LoadState(ctx, m.store)
	if errors.Is(err, store.ErrSnapshotCorrupt) {
		m.metrics.Inc(MetricSnapshotCorrupt)
		m.emitAudit(ctx, auditEventSnapshotCorrupt, false, "", "", err, nil)
		err = nil
	}
	if err != nil {
		m.mu.Unlock()
		return err
	}

	if state.Token == "" {
		m.session = Session{Status: StatusUnauthenticated}
		m.mu.Unlock()
		return nil
	}

	if state.Snapshot != nil {
		ident := identityFromSnapshot(*state.Snapshot)
		m.session = Session{
			Status:   StatusAuthenticated,
			Token:    state.Token,
			Identity: &ident,
		}
		m.metrics.Inc(MetricHydrateSnapshot)
		m.emitAudit(ctx, auditEventHydrateSnapshot, true, ident.ID, ident.Email, nil, nil)
	} else {
		m.session = Session{
			Status: StatusPending,
			Token:  state.Token,
		}
	}

	token := state.Token
	gen := m.generation
	suppressed := m.suppress.active(m.now())
	m.mu.Unlock()

	m.broadcaster.Publish()

	if suppressed {
		m.metrics.Inc(MetricRevalidateSuppressed)
	} else {
		go m.runRevalidation(ctx, token, gen)
	}

	return nil
}

// Login authenticates the credentials against the identity service. On
// success it persists the new session material, installs the authenticated
// session, arms the suppression window, publishes a change, and returns
// true. On any failure it mutates nothing and returns false; the cause is
// recorded in metrics and audit, not surfaced as an error.
func (m *Machine) Login(ctx context.Context, email, password string) bool {
	if m == nil || m.closedNow() {
		return false
	}

	payload, err := m.client.Authenticate(ctx, email, password)
	if err != nil {
		m.metrics.Inc(MetricLoginFailure)
		m.emitAudit(ctx, auditEventLoginFailure, false, "", email, err, nil)
		return false
	}

	if !m.installSession(ctx, payload) {
		m.metrics.Inc(MetricLoginFailure)
		m.emitAudit(ctx, auditEventLoginFailure, false, payload.Identity.ID, email, store.ErrUnavailable, func() map[string]string {
			return map[string]string{"reason": "store_write_failed"}
		})
		return false
	}

	m.broadcaster.Publish()
	m.metrics.Inc(MetricLoginSuccess)
	m.emitAudit(ctx, auditEventLoginSuccess, true, payload.Identity.ID, email, nil, nil)
	return true
}

// Register creates an account through the identity service and logs it in.
// The contract is identical to [Machine.Login]: boolean result, no state
// mutation on failure, suppression window armed on success.
func (m *Machine) Register(ctx context.Context, email, name, password string) bool {
	if m == nil || m.closedNow() {
		return false
	}

	payload, err := m.client.Register(ctx, email, name, password)
	if err != nil {
		m.metrics.Inc(MetricRegisterFailure)
		m.emitAudit(ctx, auditEventRegisterFailure, false, "", email, err, nil)
		return false
	}

	if !m.installSession(ctx, payload) {
		m.metrics.Inc(MetricRegisterFailure)
		m.emitAudit(ctx, auditEventRegisterFailure, false, payload.Identity.ID, email, store.ErrUnavailable, func() map[string]string {
			return map[string]string{"reason": "store_write_failed"}
		})
		return false
	}

	m.broadcaster.Publish()
	m.metrics.Inc(MetricRegisterSuccess)
	m.emitAudit(ctx, auditEventRegisterSuccess, true, payload.Identity.ID, email, nil, nil)
	return true
}

// installSession writes the payload to the durable store and, only after
// that write succeeds, installs the authenticated in-memory session and
// arms the suppression window. Returns false when the store write failed;
// the in-memory session is untouched in that case.
func (m *Machine) installSession(ctx context.Context, payload identity.Payload) bool {
	ident := identityFromService(payload.Identity)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := store.SaveSession(ctx, m.store, payload.Token, payload.RefreshToken, snapshotFromIdentity(ident)); err != nil {
		return false
	}

	m.session = Session{
		Status:   StatusAuthenticated,
		Token:    payload.Token,
		Identity: &ident,
	}
	m.generation++
	m.suppress.arm(m.now())
	return true
}

// Logout tears the session down. The remote invalidate call is best
// effort: its failure is counted and audited but never blocks the local
// teardown, and the user observes a successful logout either way. Calling
// Logout on an unauthenticated session is a no-op.
func (m *Machine) Logout(ctx context.Context) {
	if m == nil || m.closedNow() {
		return
	}

	m.mu.Lock()
	if m.session.Status == StatusUnauthenticated {
		m.mu.Unlock()
		return
	}
	token := m.session.Token
	userID := ""
	if m.session.Identity != nil {
		userID = m.session.Identity.ID
	}
	m.mu.Unlock()

	if err := m.client.Invalidate(ctx, token); err != nil {
		m.metrics.Inc(MetricRemoteLogoutFailure)
		m.emitAudit(ctx, auditEventRemoteLogoutFailure, false, userID, "", err, nil)
	}

	m.mu.Lock()
	// Store clear failure is tolerated: local teardown proceeds so the
	// user-visible logout cannot fail, and the next Init revalidation
	// catches any leftover token.
	_ = store.Clear(ctx, m.store)
	m.session = Session{Status: StatusUnauthenticated}
	m.generation++
	m.suppress.clear()
	m.mu.Unlock()

	m.broadcaster.Publish()
	m.metrics.Inc(MetricLogout)
	m.emitAudit(ctx, auditEventLogout, true, userID, "", nil, nil)
}

// Current returns a copy of the session. The identity pointer, when
// non-nil, points at a private copy; callers may hold it without
// observing later transitions.
func (m *Machine) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session
	if s.Identity != nil {
		ident := *s.Identity
		s.Identity = &ident
	}
	return s
}

// Decide evaluates the route-guard policy against the current session and
// records the outcome in metrics.
func (m *Machine) Decide(requiredRole string) Decision {
	d := m.guard.Decide(m.Current(), requiredRole)

	switch d.Kind {
	case DecisionAllow:
		m.metrics.Inc(MetricGuardAllow)
	case DecisionShowLoading:
		m.metrics.Inc(MetricGuardLoading)
	case DecisionRedirectLogin:
		m.metrics.Inc(MetricGuardRedirectLogin)
	case DecisionRedirectFallback:
		m.metrics.Inc(MetricGuardRedirectFallback)
	}
	return d
}

// Subscribe registers fn for change notifications. Notifications carry no
// payload and are not replayed: read [Machine.Current] at registration time
// to catch a transition that already happened.
func (m *Machine) Subscribe(fn func()) (cancel func()) {
	return m.broadcaster.Subscribe(fn)
}

// TokenExpiresAt peeks at the current token's expiry claim when the token
// is JWT-shaped. Advisory only; ok is false for opaque tokens and for
// unauthenticated sessions.
func (m *Machine) TokenExpiresAt() (expiry time.Time, ok bool) {
	m.mu.Lock()
	token := m.session.Token
	m.mu.Unlock()

	if token == "" {
		return time.Time{}, false
	}
	return identity.TokenExpiry(token)
}

// MetricsSnapshot deep-copies the machine's counters.
func (m *Machine) MetricsSnapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return m.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped by a saturated
// dispatcher buffer.
func (m *Machine) AuditDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.audit.droppedCount()
}

// Close stops the audit dispatcher after draining it and makes every later
// operation a no-op. Revalidations still in flight resolve silently.
func (m *Machine) Close() {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.audit.close()
}

func (m *Machine) closedNow() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
