package sessync

import (
	"context"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventRegisterSuccess      = "register_success"
	auditEventRegisterFailure      = "register_failure"
	auditEventLogout               = "logout"
	auditEventRemoteLogoutFailure  = "remote_logout_failure"
	auditEventHydrateSnapshot      = "hydrate_snapshot"
	auditEventSnapshotCorrupt      = "snapshot_corrupt"
	auditEventRevalidateSuccess    = "revalidate_success"
	auditEventRevalidateRejected   = "revalidate_rejected"
	auditEventRevalidateSuppressed = "revalidate_suppressed"
	auditEventRevalidateStale      = "revalidate_stale"
)

// emitAudit builds and dispatches one audit event. metadata is lazy so
// disabled audit costs no map allocation.
func (m *Machine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID, email string,
	cause error,
	metadata func() map[string]string,
) {
	if m.audit == nil {
		return
	}

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: m.now(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		Success:   success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}

	m.audit.emit(ctx, event)
}
