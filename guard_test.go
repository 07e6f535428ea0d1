package sessync

import (
	"context"
	"testing"
)

func TestGuardDecide(t *testing.T) {
	guard := NewGuard(GuardConfig{LoginPath: "/login", FallbackPath: "/home"})

	admin := &Identity{ID: "1", Role: "admin"}
	user := &Identity{ID: "2", Role: "user"}

	tests := []struct {
		name         string
		session      Session
		requiredRole string
		wantKind     DecisionKind
		wantPath     string
	}{
		{
			name:     "pending without identity shows loading",
			session:  Session{Status: StatusPending, Token: "t"},
			wantKind: DecisionShowLoading,
		},
		{
			name:         "pending without identity never redirects even with role",
			session:      Session{Status: StatusPending, Token: "t"},
			requiredRole: "admin",
			wantKind:     DecisionShowLoading,
		},
		{
			name:     "unauthenticated redirects to login",
			session:  Session{Status: StatusUnauthenticated},
			wantKind: DecisionRedirectLogin,
			wantPath: "/login",
		},
		{
			name:     "authenticated without role requirement allows",
			session:  Session{Status: StatusAuthenticated, Token: "t", Identity: user},
			wantKind: DecisionAllow,
		},
		{
			name:         "role match is case-insensitive",
			session:      Session{Status: StatusAuthenticated, Token: "t", Identity: admin},
			requiredRole: "ADMIN",
			wantKind:     DecisionAllow,
		},
		{
			name:         "role mismatch redirects to fallback",
			session:      Session{Status: StatusAuthenticated, Token: "t", Identity: user},
			requiredRole: "admin",
			wantKind:     DecisionRedirectFallback,
			wantPath:     "/home",
		},
		{
			name:         "pending with stale identity still role-checked",
			session:      Session{Status: StatusPending, Token: "t", Identity: user},
			requiredRole: "admin",
			wantKind:     DecisionRedirectFallback,
			wantPath:     "/home",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := guard.Decide(tt.session, tt.requiredRole)
			if d.Kind != tt.wantKind {
				t.Fatalf("expected %v, got %v", tt.wantKind, d.Kind)
			}
			if d.Path != tt.wantPath {
				t.Fatalf("expected path %q, got %q", tt.wantPath, d.Path)
			}
		})
	}
}

func TestGuardDefaultsPaths(t *testing.T) {
	guard := NewGuard(GuardConfig{})

	d := guard.Decide(Session{Status: StatusUnauthenticated}, "")
	if d.Path != "/login" {
		t.Fatalf("expected default login path, got %q", d.Path)
	}

	user := &Identity{ID: "2", Role: "user"}
	d = guard.Decide(Session{Status: StatusAuthenticated, Token: "t", Identity: user}, "admin")
	if d.Path != "/" {
		t.Fatalf("expected default fallback path, got %q", d.Path)
	}
}

func TestMachineDecideCountsOutcomes(t *testing.T) {
	client := &mockIdentityClient{authPayload: testPayload()}
	machine, _, _ := newTestMachine(t, client)

	machine.Decide("") // redirect_login
	if !machine.Login(context.Background(), "a@b.com", "pw1") {
		t.Fatal("login failed")
	}
	machine.Decide("")      // allow
	machine.Decide("admin") // redirect_fallback

	counters := machine.MetricsSnapshot().Counters
	if counters[MetricGuardRedirectLogin] != 1 || counters[MetricGuardAllow] != 1 || counters[MetricGuardRedirectFallback] != 1 {
		t.Fatalf("unexpected guard counters: %v", counters)
	}
}
