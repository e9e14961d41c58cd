package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	catalogmodels "tally/internal/catalog/models"
	catalogstore "tally/internal/catalog/store"
	"tally/internal/lock"
	"tally/internal/scheduling/models"
	"tally/internal/scheduling/store"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/audit"
	"tally/pkg/platform/audit/publishers/compliance"
	auditmemory "tally/pkg/platform/audit/store/memory"
)

type stubAttribution struct {
	count int
	err   error
}

func (a *stubAttribution) CountAttributed(context.Context, id.TenantID, []id.OfficerAssignmentID) (int, error) {
	return a.count, a.err
}

type ServiceSuite struct {
	suite.Suite
	ctx         context.Context
	tenant      id.TenantID
	booth       id.BoothID
	officer     id.OfficerID
	poll        catalogmodels.Poll
	store       *store.InMemory
	catalog     *catalogstore.InMemory
	attribution *stubAttribution
	auditStore  *auditmemory.InMemoryStore
	service     *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func day(d int) time.Time {
	return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.tenant = id.TenantID(uuid.New())
	s.booth = id.BoothID(uuid.New())
	s.officer = id.OfficerID(uuid.New())
	s.store = store.NewInMemory()
	s.catalog = catalogstore.NewInMemory()
	s.attribution = &stubAttribution{}
	s.auditStore = auditmemory.NewInMemoryStore()

	s.catalog.PutTenant(s.tenant)
	s.catalog.PutBooth(catalogmodels.Booth{ID: s.booth, TenantID: s.tenant, Name: "Town hall"})
	s.catalog.PutOfficer(catalogmodels.Officer{ID: s.officer, TenantID: s.tenant, Name: "Ana", Email: "ana@example.org"})
	s.poll = catalogmodels.Poll{
		ID:       id.PollID(uuid.New()),
		TenantID: s.tenant,
		Name:     "Park renovation",
		StartsAt: day(1),
		EndsAt:   day(3).Add(20 * time.Hour),
	}
	s.catalog.PutPoll(s.poll)
	s.catalog.PutBoothAssignment(catalogmodels.BoothAssignment{
		ID: id.BoothAssignmentID(uuid.New()), TenantID: s.tenant, PollID: s.poll.ID, BoothID: s.booth,
	})

	s.service = New(s.store, s.catalog, s.attribution, lock.NewMemoryLocker(time.Second),
		WithAuditPublisher(compliance.New(s.auditStore)),
		WithClock(func() time.Time { return day(1) }),
	)
}

func (s *ServiceSuite) shift(date time.Time, task models.Task) models.Shift {
	return models.Shift{
		ID:        id.ShiftID(uuid.New()),
		TenantID:  s.tenant,
		BoothID:   s.booth,
		OfficerID: s.officer,
		Date:      date,
		Task:      task,
	}
}

func (s *ServiceSuite) TestApplyShift() {
	s.Run("vote collection derives a non-final assignment per open poll", func() {
		assignments, err := s.service.ApplyShift(s.ctx, s.shift(day(2), models.TaskVoteCollection))
		s.Require().NoError(err)
		s.Require().Len(assignments, 1)
		s.False(assignments[0].Final)
		s.Equal("Ana", assignments[0].OfficerName)
		s.Equal("ana@example.org", assignments[0].OfficerEmail)
	})

	s.Run("recount scrutiny derives a final assignment inside the recount window", func() {
		assignments, err := s.service.ApplyShift(s.ctx, s.shift(day(9), models.TaskRecountScrutiny))
		s.Require().NoError(err)
		s.Require().Len(assignments, 1)
		s.True(assignments[0].Final)
	})

	s.Run("no poll open means no assignments", func() {
		assignments, err := s.service.ApplyShift(s.ctx, s.shift(day(20), models.TaskVoteCollection))
		s.Require().NoError(err)
		s.Empty(assignments)
	})

	s.Run("compliance events are recorded", func() {
		events, err := s.auditStore.ListByTenant(s.ctx, s.tenant)
		s.Require().NoError(err)
		s.Len(events, 3)
		s.Equal(string(audit.EventShiftApplied), events[0].Action)
	})
}

func (s *ServiceSuite) TestApplyShiftIsAllOrNothing() {
	s.Run("duplicate tuple is a conflict", func() {
		_, err := s.service.ApplyShift(s.ctx, s.shift(day(2), models.TaskVoteCollection))
		s.Require().NoError(err)
		before := s.store.CountAssignments(s.tenant)

		_, err = s.service.ApplyShift(s.ctx, s.shift(day(2), models.TaskVoteCollection))
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Equal(before, s.store.CountAssignments(s.tenant))
	})

	s.Run("missing fields are validation errors", func() {
		sh := s.shift(day(2), models.TaskVoteCollection)
		sh.BoothID = id.BoothID{}
		_, err := s.service.ApplyShift(s.ctx, sh)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		sh = s.shift(time.Time{}, models.TaskVoteCollection)
		_, err = s.service.ApplyShift(s.ctx, sh)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		sh = s.shift(day(2), models.Task("sweeping"))
		_, err = s.service.ApplyShift(s.ctx, sh)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("unknown officer is a validation error", func() {
		sh := s.shift(day(2), models.TaskRecountScrutiny)
		sh.OfficerID = id.OfficerID(uuid.New())
		_, err := s.service.ApplyShift(s.ctx, sh)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestReapplyingSameShift() {
	sh := s.shift(day(5), models.TaskRecountScrutiny)
	first, err := s.service.ApplyShift(s.ctx, sh)
	s.Require().NoError(err)
	s.Require().Len(first, 1)

	second, err := s.service.ApplyShift(s.ctx, sh)
	s.Require().NoError(err)
	s.Require().Len(second, 1)
	s.Equal(first[0].ID, second[0].ID)
	s.Equal(1, s.store.CountAssignments(s.tenant))
}

func (s *ServiceSuite) TestRetractShift() {
	s.Run("retract after apply restores the assignment set", func() {
		other, err := s.service.ApplyShift(s.ctx, s.shift(day(1), models.TaskVoteCollection))
		s.Require().NoError(err)
		before := s.store.CountAssignments(s.tenant)

		sh := s.shift(day(3), models.TaskVoteCollection)
		_, err = s.service.ApplyShift(s.ctx, sh)
		s.Require().NoError(err)
		s.Equal(before+1, s.store.CountAssignments(s.tenant))

		s.Require().NoError(s.service.RetractShift(s.ctx, s.tenant, sh.ID))
		s.Equal(before, s.store.CountAssignments(s.tenant))

		kept, err := s.store.FindAssignment(s.ctx, s.tenant, other[0].ID)
		s.Require().NoError(err)
		s.Equal(other[0].ID, kept.ID)
	})

	s.Run("unknown shift is not found", func() {
		err := s.service.RetractShift(s.ctx, s.tenant, id.ShiftID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("refused while assignments are attributed", func() {
		sh := s.shift(day(6), models.TaskRecountScrutiny)
		_, err := s.service.ApplyShift(s.ctx, sh)
		s.Require().NoError(err)

		s.attribution.count = 2
		defer func() { s.attribution.count = 0 }()
		err = s.service.RetractShift(s.ctx, s.tenant, sh.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		_, err = s.store.FindShift(s.ctx, s.tenant, sh.ID)
		s.NoError(err)
	})

	s.Run("attribution lookup failure is internal", func() {
		sh := s.shift(day(7), models.TaskRecountScrutiny)
		_, err := s.service.ApplyShift(s.ctx, sh)
		s.Require().NoError(err)

		s.attribution.err = errors.New("db down")
		defer func() { s.attribution.err = nil }()
		err = s.service.RetractShift(s.ctx, s.tenant, sh.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestSnapshotSurvivesOfficerDeletion() {
	sh := s.shift(day(2), models.TaskVoteCollection)
	assignments, err := s.service.ApplyShift(s.ctx, sh)
	s.Require().NoError(err)
	s.Require().Len(assignments, 1)

	s.catalog.DeleteOfficer(s.tenant, s.officer)

	stored, err := s.service.FindAssignment(s.ctx, s.tenant, assignments[0].ID)
	s.Require().NoError(err)
	s.Equal("Ana", stored.OfficerName)
	s.Equal("ana@example.org", stored.OfficerEmail)

	shifts, err := s.service.ShiftsForBooth(s.ctx, s.tenant, s.booth)
	s.Require().NoError(err)
	s.Require().Len(shifts, 1)
	s.Equal("Ana", shifts[0].OfficerName)
}

func (s *ServiceSuite) TestTenantIsolation() {
	_, err := s.service.ApplyShift(s.ctx, s.shift(day(2), models.TaskVoteCollection))
	s.Require().NoError(err)

	list, err := s.service.ListAssignments(s.ctx, id.TenantID(uuid.New()), s.officer)
	s.Require().NoError(err)
	s.Empty(list)
}
