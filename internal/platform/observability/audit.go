// Package observability joins structured logging with audit publishing so a
// service records an audit-worthy action with one call.
package observability

import (
	"context"
	"log/slog"

	"tally/pkg/attrs"
	id "tally/pkg/domain"
	"tally/pkg/platform/audit"
	"tally/pkg/requestcontext"
)

// Emitter persists compliance events fail-closed.
type Emitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Tracker records operations events best-effort.
type Tracker interface {
	Track(event audit.Event)
}

// LogAudit logs the event and emits it as a compliance event. The returned
// error must fail the caller's operation.
func LogAudit(ctx context.Context, logger *slog.Logger, emitter Emitter, tenant id.TenantID, event audit.AuditEvent, attrList ...any) error {
	e := buildEvent(ctx, logger, tenant, event, attrList)
	if emitter == nil {
		return nil
	}
	return emitter.Emit(ctx, e)
}

// TrackOps logs the event and hands it to the best-effort tracker.
func TrackOps(ctx context.Context, logger *slog.Logger, tracker Tracker, tenant id.TenantID, event audit.AuditEvent, attrList ...any) {
	e := buildEvent(ctx, logger, tenant, event, attrList)
	if tracker == nil {
		return
	}
	tracker.Track(e)
}

func buildEvent(ctx context.Context, logger *slog.Logger, tenant id.TenantID, event audit.AuditEvent, attrList []any) audit.Event {
	requestID := requestcontext.RequestID(ctx)
	actor := requestcontext.ActorID(ctx)

	args := append([]any{"tenant_id", tenant}, attrList...)
	if requestID != "" {
		args = append(args, "request_id", requestID)
	}
	args = append(args, "event", string(event), "log_type", "audit")
	if logger != nil {
		logger.InfoContext(ctx, string(event), args...)
	}

	return audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		TenantID:  tenant,
		Subject:   extractSubject(attrList),
		Action:    string(event),
		Reason:    attrs.ExtractString(attrList, "reason"),
		RequestID: requestID,
		ActorID:   actor,
		Details:   attrs.ToMap(attrList),
	}
}

func extractSubject(attrList []any) string {
	for _, key := range []string{"shift_id", "recount_id", "partial_result_id", "poll_id", "question_id"} {
		if val := attrs.ExtractString(attrList, key); val != "" {
			return key[:len(key)-3] + ":" + val
		}
	}
	return ""
}
