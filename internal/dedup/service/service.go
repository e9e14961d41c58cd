// Package service reconciles duplicate participation records. Every pass
// reads a snapshot, deletes only records proven redundant within it and
// keeps the earliest of each group, so reruns and concurrent runs converge.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"tally/internal/dedup/metrics"
	"tally/internal/dedup/models"
	participation "tally/internal/participation/models"
	"tally/internal/platform/observability"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/audit"
)

const (
	TaskDedupVoters     = "dedup_voters"
	TaskDedupAnswers    = "dedup_answers"
	TaskBackfillOptions = "backfill_options"
)

type Store interface {
	VoterPolls(ctx context.Context, tenant id.TenantID) ([]id.PollID, error)
	ListVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]participation.Voter, error)
	DeleteVoters(ctx context.Context, tenant id.TenantID, ids []id.VoterID) (int, error)
	ListQuestions(ctx context.Context, tenant id.TenantID, scope participation.Scope) ([]participation.Question, error)
	ListAnswers(ctx context.Context, tenant id.TenantID, questions []id.QuestionID) ([]participation.Answer, error)
	DeleteAnswers(ctx context.Context, tenant id.TenantID, ids []id.AnswerID) (int, error)
	SetAnswerOption(ctx context.Context, tenant id.TenantID, answer id.AnswerID, option id.OptionID) (bool, error)
}

// Tenants lists the partitions a maintenance run visits.
type Tenants interface {
	ListTenants(ctx context.Context) ([]id.TenantID, error)
}

type Service struct {
	store   Store
	tenants Tenants
	locales []string
	logger  *slog.Logger
	tracker observability.Tracker
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithOpsTracker sends a best-effort operations event after every pass that
// changed something.
func WithOpsTracker(tracker observability.Tracker) Option {
	return func(s *Service) {
		s.tracker = tracker
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithLocales restricts title matching to the given locales.
func WithLocales(locales []string) Option {
	return func(s *Service) {
		s.locales = locales
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(store Store, tenants Tenants, opts ...Option) *Service {
	s := &Service{
		store:   store,
		tenants: tenants,
		logger:  slog.Default(),
		tracer:  otel.Tracer("tally/internal/dedup"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, tenant id.TenantID, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("tenant_id", tenant.String()))
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func requireTenant(tenant id.TenantID) error {
	if tenant.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "tenant is required")
	}
	return nil
}

// DeduplicateVoters keeps one voter per user in the poll and deletes the
// rest. It returns how many voters were deleted.
func (s *Service) DeduplicateVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) (removed int, err error) {
	ctx, span := s.startSpan(ctx, "dedup.DeduplicateVoters", tenant, attribute.String("poll_id", poll.String()))
	defer func() { endSpan(span, err) }()

	if err := requireTenant(tenant); err != nil {
		return 0, err
	}
	if poll.IsNil() {
		return 0, dErrors.New(dErrors.CodeValidation, "poll is required")
	}

	voters, err := s.store.ListVoters(ctx, tenant, poll)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list voters")
	}
	redundant := models.Redundant(voters,
		func(v participation.Voter) id.UserID { return v.UserID },
		func(v participation.Voter) models.Stamp {
			return models.Stamp{CreatedAt: v.CreatedAt, ID: uuid.UUID(v.ID)}
		})
	if len(redundant) == 0 {
		return 0, nil
	}

	ids := make([]id.VoterID, len(redundant))
	for i, v := range redundant {
		ids[i] = v.ID
	}
	removed, err = s.store.DeleteVoters(ctx, tenant, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete duplicate voters")
	}
	span.SetAttributes(attribute.Int("removed", removed))
	if s.metrics != nil {
		s.metrics.IncrementRemoved("voters", removed)
	}
	observability.TrackOps(ctx, s.logger, s.tracker, tenant, audit.EventVotersDeduplicated,
		"poll_id", poll,
		"removed", removed,
	)
	return removed, nil
}

// DeduplicateAllVoters runs DeduplicateVoters for every poll the tenant has
// voters in.
func (s *Service) DeduplicateAllVoters(ctx context.Context, tenant id.TenantID) (int, error) {
	if err := requireTenant(tenant); err != nil {
		return 0, err
	}
	polls, err := s.store.VoterPolls(ctx, tenant)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list polls with voters")
	}
	total := 0
	for _, poll := range polls {
		n, err := s.DeduplicateVoters(ctx, tenant, poll)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// questionSet is the questions in scope and their title indexes.
type questionSet struct {
	ids     []id.QuestionID
	indexes map[id.QuestionID]*models.TitleIndex
}

func (s *Service) loadQuestions(ctx context.Context, tenant id.TenantID, scope participation.Scope) (*questionSet, error) {
	questions, err := s.store.ListQuestions(ctx, tenant, scope)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list questions")
	}
	set := &questionSet{indexes: make(map[id.QuestionID]*models.TitleIndex, len(questions))}
	for _, q := range questions {
		set.ids = append(set.ids, q.ID)
		set.indexes[q.ID] = models.NewTitleIndex(q, s.locales)
	}
	return set, nil
}

func (s *Service) listAnswers(ctx context.Context, tenant id.TenantID, set *questionSet) ([]participation.Answer, error) {
	if len(set.ids) == 0 {
		return nil, nil
	}
	answers, err := s.store.ListAnswers(ctx, tenant, set.ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list answers")
	}
	return answers, nil
}

// DeduplicateAnswers keeps one answer per author and choice for every
// question in scope. Answers naming the same option in different locales
// are the same choice. It returns how many answers were deleted.
func (s *Service) DeduplicateAnswers(ctx context.Context, tenant id.TenantID, scope participation.Scope) (removed int, err error) {
	ctx, span := s.startSpan(ctx, "dedup.DeduplicateAnswers", tenant)
	defer func() { endSpan(span, err) }()

	if err := requireTenant(tenant); err != nil {
		return 0, err
	}
	set, err := s.loadQuestions(ctx, tenant, scope)
	if err != nil {
		return 0, err
	}
	return s.deduplicateAnswers(ctx, tenant, set)
}

func (s *Service) deduplicateAnswers(ctx context.Context, tenant id.TenantID, set *questionSet) (int, error) {
	answers, err := s.listAnswers(ctx, tenant, set)
	if err != nil {
		return 0, err
	}
	redundant := models.Redundant(answers,
		func(a participation.Answer) models.AnswerKey { return set.indexes[a.QuestionID].KeyOf(a) },
		func(a participation.Answer) models.Stamp {
			return models.Stamp{CreatedAt: a.CreatedAt, ID: uuid.UUID(a.ID)}
		})
	if len(redundant) == 0 {
		return 0, nil
	}

	ids := make([]id.AnswerID, len(redundant))
	for i, a := range redundant {
		ids[i] = a.ID
	}
	removed, err := s.store.DeleteAnswers(ctx, tenant, ids)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete duplicate answers")
	}
	if s.metrics != nil {
		s.metrics.IncrementRemoved("answers", removed)
	}
	observability.TrackOps(ctx, s.logger, s.tracker, tenant, audit.EventAnswersDeduplicated,
		"questions", len(set.ids),
		"removed", removed,
	)
	return removed, nil
}

// BackfillOptionIDs deduplicates answers in scope, then sets the option of
// every answer without one whose text names exactly one option of its
// question. It returns how many answers were resolved.
func (s *Service) BackfillOptionIDs(ctx context.Context, tenant id.TenantID, scope participation.Scope) (resolved int, err error) {
	ctx, span := s.startSpan(ctx, "dedup.BackfillOptionIDs", tenant)
	defer func() { endSpan(span, err) }()

	if err := requireTenant(tenant); err != nil {
		return 0, err
	}
	set, err := s.loadQuestions(ctx, tenant, scope)
	if err != nil {
		return 0, err
	}
	removed, err := s.deduplicateAnswers(ctx, tenant, set)
	if err != nil {
		return 0, err
	}

	answers, err := s.listAnswers(ctx, tenant, set)
	if err != nil {
		return 0, err
	}
	unresolved := 0
	for _, a := range answers {
		if a.OptionID != nil {
			continue
		}
		option, ok := set.indexes[a.QuestionID].Resolve(a.Text)
		if !ok {
			unresolved++
			continue
		}
		updated, err := s.store.SetAnswerOption(ctx, tenant, a.ID, option)
		if err != nil {
			return resolved, dErrors.Wrap(err, dErrors.CodeInternal, "failed to set answer option")
		}
		if updated {
			resolved++
		}
	}

	span.SetAttributes(attribute.Int("resolved", resolved), attribute.Int("unresolved", unresolved))
	if s.metrics != nil {
		s.metrics.IncrementBackfill(resolved, unresolved)
	}
	if resolved > 0 {
		observability.TrackOps(ctx, s.logger, s.tracker, tenant, audit.EventOptionsBackfilled,
			"removed", removed,
			"resolved", resolved,
			"unresolved", unresolved,
		)
	}
	return resolved, nil
}

// Task is one maintenance pass over a single tenant.
type Task func(ctx context.Context, tenant id.TenantID) (int, error)

// TenantResult is the outcome of a task for one tenant.
type TenantResult struct {
	TenantID id.TenantID
	Count    int
	Err      error
}

// RunOnEachTenant runs task once per tenant. A failing tenant does not stop
// the others; the returned error joins every tenant failure.
func (s *Service) RunOnEachTenant(ctx context.Context, name string, task Task) ([]TenantResult, error) {
	tenants, err := s.tenants.ListTenants(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}

	results := make([]TenantResult, 0, len(tenants))
	var errs []error
	for _, tenant := range tenants {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		start := time.Now()
		n, err := task(ctx, tenant)
		if s.metrics != nil {
			s.metrics.ObserveRun(name, start)
		}
		results = append(results, TenantResult{TenantID: tenant, Count: n, Err: err})
		if err != nil {
			if s.metrics != nil {
				s.metrics.IncrementTenantFailed(name)
			}
			s.logger.ErrorContext(ctx, "maintenance task failed",
				"task", name,
				"tenant_id", tenant,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("tenant %s: %w", tenant, err))
			continue
		}
		s.logger.InfoContext(ctx, "maintenance task finished",
			"task", name,
			"tenant_id", tenant,
			"count", n,
		)
	}
	return results, errors.Join(errs...)
}
