package sessync

import "testing"

func TestMetricsIncAndSnapshot(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLogout)

	if got := m.Get(MetricLoginSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 || snap.Counters[MetricLogout] != 1 {
		t.Fatalf("unexpected snapshot %v", snap.Counters)
	}
	if _, ok := snap.Counters[MetricLoginFailure]; ok {
		t.Fatal("zero counters must be omitted from the snapshot")
	}

	// Snapshot is a copy; later increments must not leak into it.
	m.Inc(MetricLogout)
	if snap.Counters[MetricLogout] != 1 {
		t.Fatal("snapshot mutated by later increment")
	}
}

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: false})

	m.Inc(MetricLoginSuccess)
	if got := m.Get(MetricLoginSuccess); got != 0 {
		t.Fatalf("disabled metrics recorded %d", got)
	}
	if len(m.Snapshot().Counters) != 0 {
		t.Fatal("disabled metrics produced a non-empty snapshot")
	}
}

func TestMetricsOutOfRangeIDIgnored(t *testing.T) {
	m := newMetrics(MetricsConfig{Enabled: true})
	m.Inc(metricIDCount + 10)
	if got := m.Get(metricIDCount + 10); got != 0 {
		t.Fatalf("out-of-range ID recorded %d", got)
	}
}
