// Package compliance publishes audit events that change the record of who
// counted what: shift assignments and recount or partial result revisions.
//
// Events are written to the outbox inside the caller's transaction. A failed
// write fails the caller, so a revision never exists without its entry.
package compliance

import (
	"context"
	"log/slog"
	"time"

	dErrors "tally/pkg/domain-errors"
	audit "tally/pkg/platform/audit"
)

type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) { p.metrics = m }
}

// WithClock stamps events that arrive without a timestamp.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// validate rejects events that could not be traced back to the record they
// revise. Operations events belong on the ops publisher.
func validate(event audit.Event) error {
	switch {
	case event.TenantID.IsNil():
		return dErrors.New(dErrors.CodeInvalidInput, "compliance event requires a tenant")
	case event.Action == "":
		return dErrors.New(dErrors.CodeInvalidInput, "compliance event requires an action")
	case audit.AuditEvent(event.Action).Category() != audit.CategoryCompliance:
		return dErrors.New(dErrors.CodeInvalidInput, "action "+event.Action+" is not a compliance event")
	case event.Subject == "":
		return dErrors.New(dErrors.CodeInvalidInput, "compliance event requires a subject")
	}
	return nil
}

// Emit persists event and returns an error when it could not be written.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if err := validate(event); err != nil {
		return err
	}
	start := time.Now()
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	event.Category = audit.CategoryCompliance

	if err := p.store.Append(ctx, event); err != nil {
		p.metrics.observe(event.Action, false, start)
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "compliance audit write failed",
				"action", event.Action,
				"tenant_id", event.TenantID,
				"subject", event.Subject,
				"error", err,
			)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist compliance audit event")
	}
	p.metrics.observe(event.Action, true, start)
	return nil
}

// Close is a no-op; every Emit is synchronous.
func (p *Publisher) Close() error {
	return nil
}
