package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalog "tally/internal/catalog/models"
	"tally/internal/lock"
	"tally/internal/platform/observability"
	"tally/internal/scheduling/metrics"
	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/audit"
	"tally/pkg/platform/sentinel"
	"tally/pkg/platform/tx"
)

type Store interface {
	FindShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) (*models.Shift, error)
	FindShiftByTuple(ctx context.Context, shift models.Shift) (*models.Shift, error)
	AssignmentExists(ctx context.Context, tenant id.TenantID, key models.AssignmentKey) (bool, error)
	CreateShift(ctx context.Context, shift *models.Shift, assignments []*models.OfficerAssignment) error
	AssignmentsOwnedBy(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) ([]*models.OfficerAssignment, error)
	DeleteShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) (int, error)
	FindAssignment(ctx context.Context, tenant id.TenantID, assignment id.OfficerAssignmentID) (*models.OfficerAssignment, error)
	ListAssignments(ctx context.Context, tenant id.TenantID, officer id.OfficerID) ([]*models.OfficerAssignment, error)
	ShiftsForBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]*models.Shift, error)
}

// Catalog supplies the officers and booth/poll links maintained outside
// this module.
type Catalog interface {
	FindOfficer(ctx context.Context, tenant id.TenantID, officer id.OfficerID) (*catalog.Officer, error)
	PollsAtBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]catalog.BoothPoll, error)
}

// AttributionCounter counts recounts, partial results and booth voters that
// reference any of the given assignments.
type AttributionCounter interface {
	CountAttributed(ctx context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error)
}

// Service applies and retracts shifts. Writes on one booth are serialized
// through the locker so derive-then-insert cannot interleave.
type Service struct {
	store           Store
	catalog         Catalog
	attribution     AttributionCounter
	locker          lock.Locker
	tx              tx.Runner
	logger          *slog.Logger
	auditPublisher  observability.Emitter
	metrics         *metrics.Metrics
	recountDuration time.Duration
	now             func() time.Time
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

// WithRecountDuration sets how long after a poll ends recount scrutiny
// shifts still derive final assignments.
func WithRecountDuration(d time.Duration) Option {
	return func(s *Service) {
		s.recountDuration = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

const DefaultRecountDuration = 7 * 24 * time.Hour

func New(store Store, cat Catalog, attribution AttributionCounter, locker lock.Locker, opts ...Option) *Service {
	s := &Service{
		store:           store,
		catalog:         cat,
		attribution:     attribution,
		locker:          locker,
		tx:              tx.NoopRunner{},
		logger:          slog.Default(),
		recountDuration: DefaultRecountDuration,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ApplyShift records the shift and derives its officer assignments. Either
// everything is stored or nothing is. Applying a shift that already exists
// with the same id and tuple returns the assignments it owns.
func (s *Service) ApplyShift(ctx context.Context, shift models.Shift) ([]*models.OfficerAssignment, error) {
	if s.metrics != nil {
		defer s.metrics.ObserveApplyShift(time.Now())
	}
	if err := shift.Validate(); err != nil {
		return nil, err
	}
	if shift.ID.IsNil() {
		shift.ID = id.ShiftID(uuid.New())
	}

	release, err := s.locker.Acquire(ctx, lock.BoothKey(shift.TenantID, shift.BoothID))
	if err != nil {
		return nil, err
	}
	defer release()

	existing, err := s.store.FindShift(ctx, shift.TenantID, shift.ID)
	switch {
	case err == nil:
		if !existing.SameTuple(shift) {
			return nil, dErrors.New(dErrors.CodeConflict, "shift id already used for a different booth, officer, date or task")
		}
		owned, err := s.store.AssignmentsOwnedBy(ctx, shift.TenantID, shift.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shift assignments")
		}
		return owned, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shift")
	}

	if _, err := s.store.FindShiftByTuple(ctx, shift); err == nil {
		return nil, dErrors.New(dErrors.CodeConflict, "shift already exists for this booth, officer, date and task")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check shift uniqueness")
	}

	officer, err := s.catalog.FindOfficer(ctx, shift.TenantID, shift.OfficerID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeValidation, "officer not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer")
	}
	boothPolls, err := s.catalog.PollsAtBooth(ctx, shift.TenantID, shift.BoothID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load booth polls")
	}

	now := s.now()
	shift.OfficerName = officer.Name
	shift.OfficerEmail = officer.Email
	shift.CreatedAt = now

	var assignments []*models.OfficerAssignment
	for _, key := range models.Derive(shift, boothPolls, s.recountDuration) {
		exists, err := s.store.AssignmentExists(ctx, shift.TenantID, key)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check officer assignment")
		}
		if exists {
			continue
		}
		assignments = append(assignments, &models.OfficerAssignment{
			ID:                id.OfficerAssignmentID(uuid.New()),
			TenantID:          shift.TenantID,
			OfficerID:         key.OfficerID,
			BoothAssignmentID: key.BoothAssignmentID,
			Date:              key.Date,
			Final:             key.Final,
			OfficerName:       officer.Name,
			OfficerEmail:      officer.Email,
			ShiftID:           shift.ID,
			CreatedAt:         now,
		})
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.CreateShift(ctx, &shift, assignments); err != nil {
			return err
		}
		return observability.LogAudit(ctx, s.logger, s.auditPublisher, shift.TenantID, audit.EventShiftApplied,
			"shift_id", shift.ID,
			"booth_id", shift.BoothID,
			"officer_id", shift.OfficerID,
			"task", string(shift.Task),
			"date", shift.Date.Format(time.DateOnly),
			"derived", len(assignments),
		)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "shift conflicts with an existing shift or assignment")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to apply shift")
	}

	if s.metrics != nil {
		finals := make([]bool, len(assignments))
		for i, a := range assignments {
			finals[i] = a.Final
		}
		s.metrics.IncrementShiftApplied(string(shift.Task), finals)
	}
	return assignments, nil
}

// RetractShift deletes the shift and the assignments derived from it. It is
// refused while any of those assignments is referenced by ledger entries or
// booth voters.
func (s *Service) RetractShift(ctx context.Context, tenant id.TenantID, shiftID id.ShiftID) error {
	shift, err := s.store.FindShift(ctx, tenant, shiftID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "shift not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shift")
	}

	release, err := s.locker.Acquire(ctx, lock.BoothKey(tenant, shift.BoothID))
	if err != nil {
		return err
	}
	defer release()

	owned, err := s.store.AssignmentsOwnedBy(ctx, tenant, shiftID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "shift not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load shift assignments")
	}
	if len(owned) > 0 && s.attribution != nil {
		ids := make([]id.OfficerAssignmentID, len(owned))
		for i, a := range owned {
			ids[i] = a.ID
		}
		n, err := s.attribution.CountAttributed(ctx, tenant, ids)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check assignment attribution")
		}
		if n > 0 {
			if s.metrics != nil {
				s.metrics.IncrementRetractRefused()
			}
			return dErrors.New(dErrors.CodeConflict, "shift has assignments with recorded recounts or voters")
		}
	}

	var removed int
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		removed, err = s.store.DeleteShift(ctx, tenant, shiftID)
		if err != nil {
			return err
		}
		return observability.LogAudit(ctx, s.logger, s.auditPublisher, tenant, audit.EventShiftRetracted,
			"shift_id", shiftID,
			"booth_id", shift.BoothID,
			"officer_id", shift.OfficerID,
			"removed", removed,
		)
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "shift not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to retract shift")
	}
	if s.metrics != nil {
		s.metrics.IncrementShiftRetracted(removed)
	}
	return nil
}

func (s *Service) FindAssignment(ctx context.Context, tenant id.TenantID, assignment id.OfficerAssignmentID) (*models.OfficerAssignment, error) {
	a, err := s.store.FindAssignment(ctx, tenant, assignment)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "officer assignment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load officer assignment")
	}
	return a, nil
}

func (s *Service) ListAssignments(ctx context.Context, tenant id.TenantID, officer id.OfficerID) ([]*models.OfficerAssignment, error) {
	list, err := s.store.ListAssignments(ctx, tenant, officer)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list officer assignments")
	}
	return list, nil
}

func (s *Service) ShiftsForBooth(ctx context.Context, tenant id.TenantID, booth id.BoothID) ([]*models.Shift, error) {
	list, err := s.store.ShiftsForBooth(ctx, tenant, booth)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list shifts")
	}
	return list, nil
}
