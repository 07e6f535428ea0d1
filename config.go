package sessync

import (
	"errors"
	"strings"
	"time"
)

// Config groups all tuning parameters for a [Machine]. Configure once
// before [Builder.Build]; the machine treats its config as immutable.
type Config struct {
	Suppression SuppressionConfig
	Guard       GuardConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
SUPPRESSION CONFIG
====================================
*/

// SuppressionConfig tunes the window during which a just-established login
// is protected from being overwritten by a slower in-flight revalidation.
type SuppressionConfig struct {
	// Window is how long after a successful login or registration
	// revalidation results are discarded. Zero selects the 1s default.
	Window time.Duration
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig sets the redirect targets used by [Guard] decisions.
type GuardConfig struct {
	// LoginPath is where unauthenticated visitors are sent. Default "/login".
	LoginPath string
	// FallbackPath is where authenticated visitors lacking the required
	// role are sent. Default "/".
	FallbackPath string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the async audit event dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events rather than blocking the caller when the
	// buffer is saturated. Dropped counts are exposed via
	// [Machine.AuditDropped].
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process atomic counters.
type MetricsConfig struct {
	Enabled bool
}

const defaultSuppressionWindow = time.Second

func defaultConfig() Config {
	return Config{
		Suppression: SuppressionConfig{
			Window: defaultSuppressionWindow,
		},
		Guard: GuardConfig{
			LoginPath:    "/login",
			FallbackPath: "/",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the clone point exists so future
	// reference-typed config fields keep Build-time isolation.
	return cfg
}

// Validate checks the configuration for values the machine cannot operate
// with. Zero values that have documented defaults are filled in by
// [Builder.Build] before validation and are not errors here.
func (c Config) Validate() error {
	if c.Suppression.Window <= 0 {
		return errors.New("suppression window must be positive")
	}
	if !strings.HasPrefix(c.Guard.LoginPath, "/") {
		return errors.New("guard login path must be absolute")
	}
	if !strings.HasPrefix(c.Guard.FallbackPath, "/") {
		return errors.New("guard fallback path must be absolute")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("audit buffer size must be positive when audit is enabled")
	}
	return nil
}

func applyConfigDefaults(cfg Config) Config {
	def := defaultConfig()
	if cfg.Suppression.Window == 0 {
		cfg.Suppression.Window = def.Suppression.Window
	}
	if cfg.Guard.LoginPath == "" {
		cfg.Guard.LoginPath = def.Guard.LoginPath
	}
	if cfg.Guard.FallbackPath == "" {
		cfg.Guard.FallbackPath = def.Guard.FallbackPath
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
	return cfg
}
