package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	catalog "tally/internal/catalog/models"
	"tally/internal/ledger/metrics"
	"tally/internal/ledger/models"
	"tally/internal/lock"
	"tally/internal/platform/observability"
	scheduling "tally/internal/scheduling/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/audit"
	"tally/pkg/platform/sentinel"
	"tally/pkg/platform/tx"
)

type Store interface {
	FindRecount(ctx context.Context, tenant id.TenantID, recount id.RecountID) (*models.Recount, error)
	FindRecountBySlot(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID, date time.Time) (*models.Recount, error)
	SaveRecount(ctx context.Context, r *models.Recount) error
	FindPartialResult(ctx context.Context, tenant id.TenantID, pr id.PartialResultID) (*models.PartialResult, error)
	FindPartialResultBySlot(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID, question id.QuestionID, answer string, date time.Time) (*models.PartialResult, error)
	SavePartialResult(ctx context.Context, p *models.PartialResult) error
}

// Assignments resolves the officer assignment a report is made under.
type Assignments interface {
	FindAssignment(ctx context.Context, tenant id.TenantID, assignment id.OfficerAssignmentID) (*scheduling.OfficerAssignment, error)
}

type Catalog interface {
	FindBoothAssignment(ctx context.Context, tenant id.TenantID, ba id.BoothAssignmentID) (*catalog.BoothAssignment, error)
}

// Service records amount revisions on recounts and partial results. Every
// write holds the poll's lock for the whole read-revise-write cycle.
type Service struct {
	store          Store
	assignments    Assignments
	catalog        Catalog
	locker         lock.Locker
	tx             tx.Runner
	logger         *slog.Logger
	auditPublisher observability.Emitter
	metrics        *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher observability.Emitter) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTxRunner(runner tx.Runner) Option {
	return func(s *Service) {
		s.tx = runner
	}
}

func New(store Store, assignments Assignments, cat Catalog, locker lock.Locker, opts ...Option) *Service {
	s := &Service{
		store:       store,
		assignments: assignments,
		catalog:     cat,
		locker:      locker,
		tx:          tx.NoopRunner{},
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecountInput is one save of a booth recount. Nil amounts keep their
// current value.
type RecountInput struct {
	TenantID            id.TenantID
	OfficerAssignmentID id.OfficerAssignmentID
	AuthorID            id.UserID
	Origin              id.Origin
	Total               *int
	White               *int
	Null                *int
}

// PartialResultInput is one save of the count for a question's answer.
type PartialResultInput struct {
	TenantID            id.TenantID
	OfficerAssignmentID id.OfficerAssignmentID
	AuthorID            id.UserID
	Origin              id.Origin
	QuestionID          id.QuestionID
	Answer              string
	Amount              int
}

// reporter is the resolved context of a report: the final assignment and
// the poll it counts for.
type reporter struct {
	assignment *scheduling.OfficerAssignment
	pollID     id.PollID
}

func (s *Service) resolveReporter(ctx context.Context, tenant id.TenantID, assignmentID id.OfficerAssignmentID) (*reporter, error) {
	if assignmentID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "officer assignment is required")
	}
	a, err := s.assignments.FindAssignment(ctx, tenant, assignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "officer assignment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer assignment")
	}
	if !a.Final {
		return nil, dErrors.New(dErrors.CodeValidation, "results must be reported under a final officer assignment")
	}
	ba, err := s.catalog.FindBoothAssignment(ctx, tenant, a.BoothAssignmentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "booth assignment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booth assignment")
	}
	return &reporter{assignment: a, pollID: ba.PollID}, nil
}

// withPollLock runs fn inside a unit of work while holding the poll lock.
func (s *Service) withPollLock(ctx context.Context, tenant id.TenantID, poll id.PollID, fn func(ctx context.Context) error) error {
	release, err := s.locker.Acquire(ctx, lock.PollKey(tenant, poll))
	if err != nil {
		if s.metrics != nil {
			s.metrics.IncrementLockBusy()
		}
		return err
	}
	defer release()
	return s.tx.RunInTx(ctx, fn)
}

func validateAmount(name string, v int) error {
	if v < 0 {
		return dErrors.New(dErrors.CodeValidation, name+" must not be negative")
	}
	return nil
}

// SaveRecount creates or revises the recount for the assignment's booth and
// date. The authoring assignment must be final.
func (s *Service) SaveRecount(ctx context.Context, in RecountInput) (*models.Recount, error) {
	if s.metrics != nil {
		defer s.metrics.ObserveSave(time.Now())
	}
	if err := models.RecountOrigin(in.Origin); err != nil {
		return nil, err
	}
	var changes []models.Change[models.Recount]
	for _, c := range []struct {
		field models.Field[models.Recount]
		value *int
	}{
		{models.RecountTotal, in.Total},
		{models.RecountWhite, in.White},
		{models.RecountNull, in.Null},
	} {
		if c.value == nil {
			continue
		}
		if err := validateAmount(c.field.Name, *c.value); err != nil {
			return nil, err
		}
		changes = append(changes, models.Change[models.Recount]{Field: c.field, Value: *c.value})
	}

	rep, err := s.resolveReporter(ctx, in.TenantID, in.OfficerAssignmentID)
	if err != nil {
		return nil, err
	}

	var saved *models.Recount
	err = s.withPollLock(ctx, in.TenantID, rep.pollID, func(ctx context.Context) error {
		r, err := s.store.FindRecountBySlot(ctx, in.TenantID, rep.assignment.BoothAssignmentID, rep.assignment.Date)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			r = &models.Recount{
				ID:                id.RecountID(uuid.New()),
				TenantID:          in.TenantID,
				PollID:            rep.pollID,
				BoothAssignmentID: rep.assignment.BoothAssignmentID,
				Date:              rep.assignment.Date,
			}
		case err != nil:
			return err
		}
		r.Origin = in.Origin
		changed := models.Revise(r, &r.Attribution, changes, in.OfficerAssignmentID, in.AuthorID)
		if err := s.store.SaveRecount(ctx, r); err != nil {
			return err
		}
		saved = r
		return s.auditRevision(ctx, in.TenantID, audit.EventRecountRevised, "recount_id", r.ID, rep.pollID, changed, in.OfficerAssignmentID)
	})
	if err != nil {
		return nil, s.translate(err, "failed to save recount")
	}
	return saved, nil
}

// SavePartialResult creates or revises the count for one answer at the
// assignment's booth and date.
func (s *Service) SavePartialResult(ctx context.Context, in PartialResultInput) (*models.PartialResult, error) {
	if s.metrics != nil {
		defer s.metrics.ObserveSave(time.Now())
	}
	if err := models.RecountOrigin(in.Origin); err != nil {
		return nil, err
	}
	in.Answer = strings.TrimSpace(in.Answer)
	if in.QuestionID.IsNil() || in.Answer == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "question and answer are required")
	}
	if err := validateAmount("amount", in.Amount); err != nil {
		return nil, err
	}
	rep, err := s.resolveReporter(ctx, in.TenantID, in.OfficerAssignmentID)
	if err != nil {
		return nil, err
	}

	var saved *models.PartialResult
	err = s.withPollLock(ctx, in.TenantID, rep.pollID, func(ctx context.Context) error {
		p, err := s.store.FindPartialResultBySlot(ctx, in.TenantID, rep.assignment.BoothAssignmentID, in.QuestionID, in.Answer, rep.assignment.Date)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			p = &models.PartialResult{
				ID:                id.PartialResultID(uuid.New()),
				TenantID:          in.TenantID,
				PollID:            rep.pollID,
				QuestionID:        in.QuestionID,
				BoothAssignmentID: rep.assignment.BoothAssignmentID,
				Date:              rep.assignment.Date,
				Answer:            in.Answer,
			}
		case err != nil:
			return err
		}
		p.Origin = in.Origin
		changed := models.Revise(p, &p.Attribution,
			[]models.Change[models.PartialResult]{{Field: models.PartialResultAmount, Value: in.Amount}},
			in.OfficerAssignmentID, in.AuthorID)
		if err := s.store.SavePartialResult(ctx, p); err != nil {
			return err
		}
		saved = p
		return s.auditRevision(ctx, in.TenantID, audit.EventPartialResultRevised, "partial_result_id", p.ID, rep.pollID, changed, in.OfficerAssignmentID)
	})
	if err != nil {
		return nil, s.translate(err, "failed to save partial result")
	}
	return saved, nil
}

// RecordAmountChange sets one ledgered field of an existing record. The
// assignment must be final and staff the record's booth assignment.
func (s *Service) RecordAmountChange(ctx context.Context, ref models.Ref, field string, value int, assignment id.OfficerAssignmentID, author id.UserID) error {
	if s.metrics != nil {
		defer s.metrics.ObserveSave(time.Now())
	}
	if err := validateAmount(field, value); err != nil {
		return err
	}
	rep, err := s.resolveReporter(ctx, ref.TenantID, assignment)
	if err != nil {
		return err
	}

	switch ref.Kind {
	case models.KindRecount:
		f, ok := recountField(field)
		if !ok {
			return dErrors.New(dErrors.CodeValidation, "unknown recount field: "+field)
		}
		err = s.withPollLock(ctx, ref.TenantID, rep.pollID, func(ctx context.Context) error {
			r, err := s.store.FindRecount(ctx, ref.TenantID, ref.RecountID)
			if err != nil {
				return err
			}
			if r.BoothAssignmentID != rep.assignment.BoothAssignmentID {
				return dErrors.New(dErrors.CodeValidation, "officer assignment does not staff this recount's booth")
			}
			changed := models.Revise(r, &r.Attribution, []models.Change[models.Recount]{{Field: f, Value: value}}, assignment, author)
			if err := s.store.SaveRecount(ctx, r); err != nil {
				return err
			}
			return s.auditRevision(ctx, ref.TenantID, audit.EventRecountRevised, "recount_id", r.ID, r.PollID, changed, assignment)
		})
	case models.KindPartialResult:
		if field != models.PartialResultAmount.Name {
			return dErrors.New(dErrors.CodeValidation, "unknown partial result field: "+field)
		}
		err = s.withPollLock(ctx, ref.TenantID, rep.pollID, func(ctx context.Context) error {
			p, err := s.store.FindPartialResult(ctx, ref.TenantID, ref.PartialResultID)
			if err != nil {
				return err
			}
			if p.BoothAssignmentID != rep.assignment.BoothAssignmentID {
				return dErrors.New(dErrors.CodeValidation, "officer assignment does not staff this result's booth")
			}
			changed := models.Revise(p, &p.Attribution,
				[]models.Change[models.PartialResult]{{Field: models.PartialResultAmount, Value: value}}, assignment, author)
			if err := s.store.SavePartialResult(ctx, p); err != nil {
				return err
			}
			return s.auditRevision(ctx, ref.TenantID, audit.EventPartialResultRevised, "partial_result_id", p.ID, p.PollID, changed, assignment)
		})
	default:
		return dErrors.New(dErrors.CodeValidation, "unknown record kind")
	}
	if err != nil {
		return s.translate(err, "failed to record amount change")
	}
	return nil
}

// History returns the revision trail of a recount or partial result.
func (s *Service) History(ctx context.Context, ref models.Ref) (*models.History, error) {
	var h models.History
	switch ref.Kind {
	case models.KindRecount:
		r, err := s.store.FindRecount(ctx, ref.TenantID, ref.RecountID)
		if err != nil {
			return nil, s.translate(err, "failed to load recount")
		}
		h = r.History()
	case models.KindPartialResult:
		p, err := s.store.FindPartialResult(ctx, ref.TenantID, ref.PartialResultID)
		if err != nil {
			return nil, s.translate(err, "failed to load partial result")
		}
		h = p.History()
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "unknown record kind")
	}
	return &h, nil
}

func recountField(name string) (models.Field[models.Recount], bool) {
	for _, f := range models.RecountFields {
		if f.Name == name {
			return f, true
		}
	}
	return models.Field[models.Recount]{}, false
}

func (s *Service) auditRevision(ctx context.Context, tenant id.TenantID, event audit.AuditEvent, subjectKey string, subject any, poll id.PollID, changed []string, assignment id.OfficerAssignmentID) error {
	kind := string(models.KindRecount)
	if event == audit.EventPartialResultRevised {
		kind = string(models.KindPartialResult)
	}
	if s.metrics != nil {
		s.metrics.IncrementRevisions(kind, changed)
	}
	if len(changed) == 0 {
		return nil
	}
	return observability.LogAudit(ctx, s.logger, s.auditPublisher, tenant, event,
		subjectKey, subject,
		"poll_id", poll,
		"officer_assignment_id", assignment,
		"fields", strings.Join(changed, ","),
	)
}

// translate maps store and lock failures onto domain error codes. Errors
// that already carry a code pass through.
func (s *Service) translate(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "record not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "record was created concurrently, retry")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
