package sessync

import (
	"errors"
	"time"

	"github.com/sessync/sessync/identity"
	"github.com/sessync/sessync/store"
)

// Builder assembles a [Machine]. Configure it with the With* methods and
// call [Builder.Build] exactly once; a builder is single-use.
type Builder struct {
	config Config
	store  store.Store
	client identity.Client

	auditSink AuditSink
	now       func() time.Time

	built bool
}

// New creates a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithStore sets the durable session store. When omitted, Build wires an
// in-process [store.Memory], which does not survive a restart.
func (b *Builder) WithStore(s store.Store) *Builder {
	b.store = s
	return b
}

// WithIdentityClient sets the identity-service client. Required.
func (b *Builder) WithIdentityClient(c identity.Client) *Builder {
	b.client = c
	return b
}

// WithAuditSink sets the audit event consumer and enables audit dispatch.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.config.Audit.Enabled = true
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithClock overrides the machine's time source. Intended for tests that
// need deterministic suppression-window expiry.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build validates the configuration, wires dependencies, and returns the
// machine. The machine performs no I/O until [Machine.Init].
func (b *Builder) Build() (*Machine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := applyConfigDefaults(cloneConfig(b.config))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.client == nil {
		return nil, errors.New("identity client required")
	}

	st := b.store
	if st == nil {
		st = store.NewMemory()
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	m := &Machine{
		config:      cfg,
		store:       st,
		client:      b.client,
		now:         now,
		guard:       NewGuard(cfg.Guard),
		broadcaster: NewBroadcaster(),
		metrics:     newMetrics(cfg.Metrics),
		audit:       newAuditDispatcher(cfg.Audit, b.auditSink),
	}
	m.suppress.window = cfg.Suppression.Window

	b.built = true

	return m, nil
}
