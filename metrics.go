package sessync

import "sync/atomic"

// MetricID identifies one counter in the in-process metrics system.
type MetricID uint16

const (
	// MetricLoginSuccess counts logins accepted by the identity service.
	MetricLoginSuccess MetricID = iota
	// MetricLoginFailure counts rejected or failed login attempts.
	MetricLoginFailure
	// MetricRegisterSuccess counts accepted registrations.
	MetricRegisterSuccess
	// MetricRegisterFailure counts rejected or failed registrations.
	MetricRegisterFailure
	// MetricLogout counts local logouts.
	MetricLogout
	// MetricRemoteLogoutFailure counts ignored failures of the remote
	// invalidate call during logout.
	MetricRemoteLogoutFailure
	// MetricHydrateSnapshot counts startups that hydrated the session from
	// a cached identity snapshot.
	MetricHydrateSnapshot
	// MetricSnapshotCorrupt counts startups that found an unreadable
	// snapshot and fell back to pending.
	MetricSnapshotCorrupt
	// MetricRevalidateSuccess counts revalidations whose identity was
	// accepted into the session.
	MetricRevalidateSuccess
	// MetricRevalidateUnauthorized counts revalidations rejected by the
	// identity service, each forcing a local teardown.
	MetricRevalidateUnauthorized
	// MetricRevalidateNetwork counts revalidations that failed in
	// transport. Handled identically to unauthorized.
	MetricRevalidateNetwork
	// MetricRevalidateSuppressed counts revalidation results discarded by
	// an armed suppression window.
	MetricRevalidateSuppressed
	// MetricRevalidateStale counts revalidation results discarded because
	// the session transitioned while the call was in flight.
	MetricRevalidateStale
	// MetricGuardAllow counts allow decisions.
	MetricGuardAllow
	// MetricGuardLoading counts show-loading decisions.
	MetricGuardLoading
	// MetricGuardRedirectLogin counts redirect-to-login decisions.
	MetricGuardRedirectLogin
	// MetricGuardRedirectFallback counts role-mismatch redirects.
	MetricGuardRedirectFallback

	metricIDCount
)

// Metrics holds lock-free counters for session lifecycle outcomes. All
// methods are safe for concurrent use; when disabled, every operation is a
// no-op.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]atomic.Uint64
}

func newMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc adds one to the counter for id. Unknown IDs are ignored.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Get returns the current value of one counter.
func (m *Metrics) Get(id MetricID) uint64 {
	if m == nil || !m.enabled || id >= metricIDCount {
		return 0
	}
	return m.counters[id].Load()
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot deep-copies every counter. Counters that have never incremented
// are omitted.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{Counters: map[MetricID]uint64{}}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < metricIDCount; id++ {
		if v := m.counters[id].Load(); v > 0 {
			snap.Counters[id] = v
		}
	}
	return snap
}
