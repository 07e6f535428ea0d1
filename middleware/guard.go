package middleware

import (
	"context"
	"net/http"

	"github.com/sessync/sessync"
)

type sessionContextKey struct{}

// SessionFromContext returns the session that passed the guard for this
// request.
func SessionFromContext(ctx context.Context) (sessync.Session, bool) {
	s, ok := ctx.Value(sessionContextKey{}).(sessync.Session)
	return s, ok
}

// Guard returns middleware that gates the wrapped handler on the machine's
// current session. requiredRole may be empty, in which case any
// authenticated identity passes.
func Guard(machine *sessync.Machine, requiredRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if machine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			switch d := machine.Decide(requiredRole); d.Kind {
			case sessync.DecisionAllow:
				ctx := context.WithValue(r.Context(), sessionContextKey{}, machine.Current())
				next.ServeHTTP(w, r.WithContext(ctx))
			case sessync.DecisionShowLoading:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "session pending", http.StatusServiceUnavailable)
			case sessync.DecisionRedirectLogin, sessync.DecisionRedirectFallback:
				http.Redirect(w, r, d.Path, http.StatusFound)
			default:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
		})
	}
}

// RequireAuthenticated gates the handler on any authenticated session.
func RequireAuthenticated(machine *sessync.Machine) func(http.Handler) http.Handler {
	return Guard(machine, "")
}

// RequireRole gates the handler on an authenticated session carrying role
// (case-insensitive).
func RequireRole(machine *sessync.Machine, role string) func(http.Handler) http.Handler {
	return Guard(machine, role)
}
