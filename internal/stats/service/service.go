// Package service computes participation statistics for polls and
// participatory budgets. Reports are recomputed on every call from the
// canonical records and the recount ledger; nothing is cached.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	catalog "tally/internal/catalog/models"
	ledger "tally/internal/ledger/models"
	participation "tally/internal/participation/models"
	"tally/internal/stats/metrics"
	"tally/internal/stats/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/source-mocks.go -package=mocks Source

// Source reads everything a report is computed from.
type Source interface {
	FindPoll(ctx context.Context, tenant id.TenantID, poll id.PollID) (*catalog.Poll, error)
	PollsForBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Poll, error)
	FindBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) (*catalog.Budget, error)
	ListHeadings(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Heading, error)
	ListGeozones(ctx context.Context, tenant id.TenantID) ([]catalog.Geozone, error)
	UsersByID(ctx context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]catalog.User, error)
	ListVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]participation.Voter, error)
	ListRecounts(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]*ledger.Recount, error)
	ListInvestments(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Investment, error)
	ListSupports(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Support, error)
	ListBallotLines(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.BallotLine, error)
}

// Config carries the deployment switches a report depends on.
type Config struct {
	// Channels enabled for participation. Empty enables every channel.
	Channels []string
}

func (c Config) channelEnabled(origin id.Origin) bool {
	if len(c.Channels) == 0 {
		return true
	}
	for _, ch := range c.Channels {
		if strings.EqualFold(strings.TrimSpace(ch), string(origin)) {
			return true
		}
	}
	return false
}

// PollScope selects a poll. WebWhite is the number of blank web ballots,
// which the web channel records outside the voter table.
type PollScope struct {
	PollID   id.PollID
	WebWhite int
}

type BudgetScope struct {
	BudgetID id.BudgetID
}

type Service struct {
	source  Source
	config  Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

// WithClock sets the time used as reference date for budgets without phase
// end dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(source Source, cfg Config, opts ...Option) *Service {
	s := &Service{
		source: source,
		config: cfg,
		logger: slog.Default(),
		tracer: otel.Tracer("tally/internal/stats"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputePollStats reports participation in a poll across every channel.
func (s *Service) ComputePollStats(ctx context.Context, tenant id.TenantID, scope PollScope) (report *models.PollReport, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "stats.ComputePollStats", trace.WithAttributes(
		attribute.String("tenant_id", tenant.String()),
		attribute.String("poll_id", scope.PollID.String()),
	))
	defer func() {
		s.finish(ctx, span, "poll", start, err)
	}()

	if tenant.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant is required")
	}
	if scope.PollID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "poll is required")
	}
	if scope.WebWhite < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "web white votes cannot be negative")
	}

	in, err := s.loadPoll(ctx, tenant, scope)
	if err != nil {
		return nil, err
	}
	report = computePoll(in, s.config)
	span.SetAttributes(attribute.Int("participants", report.TotalParticipants))
	return report, nil
}

// ComputeBudgetStats reports participation in a budget's support and vote
// phases.
func (s *Service) ComputeBudgetStats(ctx context.Context, tenant id.TenantID, scope BudgetScope) (report *models.BudgetReport, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "stats.ComputeBudgetStats", trace.WithAttributes(
		attribute.String("tenant_id", tenant.String()),
		attribute.String("budget_id", scope.BudgetID.String()),
	))
	defer func() {
		s.finish(ctx, span, "budget", start, err)
	}()

	if tenant.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant is required")
	}
	if scope.BudgetID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "budget is required")
	}

	in, err := s.loadBudget(ctx, tenant, scope)
	if err != nil {
		return nil, err
	}
	report = computeBudget(in, s.now())
	span.SetAttributes(attribute.Int("participants", report.TotalParticipants))
	return report, nil
}

func (s *Service) finish(ctx context.Context, span trace.Span, scope string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.ObserveCompute(scope, start, err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "statistics computation failed",
			"scope", scope,
			"error", err,
		)
	}
	span.End()
}

// translate maps a load failure to a coded error.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var coded *dErrors.Error
	if errors.As(err, &coded) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, what+" not found")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "loading "+what+" timed out")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load "+what)
}
