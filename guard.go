package sessync

// DecisionKind classifies the outcome of a route-guard evaluation.
type DecisionKind uint8

const (
	// DecisionAllow lets the protected view render.
	DecisionAllow DecisionKind = iota
	// DecisionShowLoading means a revalidation may still produce a valid
	// identity; render a loading state, never a redirect.
	DecisionShowLoading
	// DecisionRedirectLogin sends the visitor to the login route.
	DecisionRedirectLogin
	// DecisionRedirectFallback sends an authenticated visitor without the
	// required role to the configured fallback route.
	DecisionRedirectFallback
)

// String returns the lowercase decision name.
func (k DecisionKind) String() string {
	switch k {
	case DecisionAllow:
		return "allow"
	case DecisionShowLoading:
		return "show_loading"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectFallback:
		return "redirect_fallback"
	default:
		return "unknown"
	}
}

// Decision is the result of [Guard.Decide]. Path is set only for the
// redirect kinds.
type Decision struct {
	Kind DecisionKind
	Path string
}

// Guard is the pure access-control policy: it maps a session and an
// optional required role to a [Decision]. It holds only the two redirect
// targets and performs no I/O, so the same decision logic serves HTTP
// middleware, templated navigation, and tests alike.
type Guard struct {
	loginPath    string
	fallbackPath string
}

// NewGuard builds a Guard from cfg, falling back to "/login" and "/" for
// empty paths.
func NewGuard(cfg GuardConfig) Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = "/"
	}
	return Guard{
		loginPath:    cfg.LoginPath,
		fallbackPath: cfg.FallbackPath,
	}
}

// Decide evaluates the policy in order:
//
//  1. Pending with no identity yet → show loading. A redirect here would
//     flicker: the in-flight revalidation may still succeed.
//  2. No identity → redirect to login.
//  3. requiredRole set and the identity's role differs (case-insensitive)
//     → redirect to the fallback route.
//  4. Otherwise → allow.
//
// An empty requiredRole means any authenticated identity passes.
func (g Guard) Decide(s Session, requiredRole string) Decision {
	if s.Status == StatusPending && s.Identity == nil {
		return Decision{Kind: DecisionShowLoading}
	}
	if s.Identity == nil {
		return Decision{Kind: DecisionRedirectLogin, Path: g.loginPath}
	}
	if requiredRole != "" && !s.Identity.HasRole(requiredRole) {
		return Decision{Kind: DecisionRedirectFallback, Path: g.fallbackPath}
	}
	return Decision{Kind: DecisionAllow}
}
