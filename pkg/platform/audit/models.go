package audit

import (
	"context"
	"time"

	id "tally/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events that alter the record of who counted
	// what: recount revisions, officer assignment derivation. These require
	// tamper-evident storage and are emitted fail-closed.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers maintenance runs and other operational
	// visibility. These are emitted asynchronously and may be dropped under
	// pressure.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	TenantID  id.TenantID
	Subject   string
	Action    string
	Reason    string
	// RequestID is the correlation ID from the HTTP request or CLI run.
	RequestID string
	// ActorID is the operator, officer user or system task that acted.
	ActorID string
	// Details carries small action-specific key/values (amounts, counts).
	Details map[string]string
}

type AuditEvent string

const (
	// Scheduling events
	EventShiftApplied   AuditEvent = "shift_applied"
	EventShiftRetracted AuditEvent = "shift_retracted"

	// Ledger events
	EventRecountRevised       AuditEvent = "recount_revised"
	EventPartialResultRevised AuditEvent = "partial_result_revised"

	// Maintenance events
	EventVotersDeduplicated  AuditEvent = "voters_deduplicated"
	EventAnswersDeduplicated AuditEvent = "answers_deduplicated"
	EventOptionsBackfilled   AuditEvent = "options_backfilled"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventShiftApplied:         CategoryCompliance,
	EventShiftRetracted:       CategoryCompliance,
	EventRecountRevised:       CategoryCompliance,
	EventPartialResultRevised: CategoryCompliance,

	EventVotersDeduplicated:  CategoryOperations,
	EventAnswersDeduplicated: CategoryOperations,
	EventOptionsBackfilled:   CategoryOperations,
}

// Category returns the category for an event. Unknown events default to
// operations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]Event, error)
}
