package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"tally/internal/ledger/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
)

type LedgerStoreSuite struct {
	suite.Suite
	store  *InMemory
	ctx    context.Context
	tenant id.TenantID
	poll   id.PollID
}

func TestLedgerStoreSuite(t *testing.T) {
	suite.Run(t, new(LedgerStoreSuite))
}

func (s *LedgerStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.tenant = id.TenantID(uuid.New())
	s.poll = id.PollID(uuid.New())
}

func (s *LedgerStoreSuite) recount(assignment id.OfficerAssignmentID) *models.Recount {
	return &models.Recount{
		ID:                id.RecountID(uuid.New()),
		TenantID:          s.tenant,
		PollID:            s.poll,
		BoothAssignmentID: id.BoothAssignmentID(uuid.New()),
		Date:              time.Date(2026, 6, 4, 9, 30, 0, 0, time.UTC),
		Origin:            id.OriginBooth,
		Attribution:       models.Attribution{AssignmentID: assignment},
	}
}

func (s *LedgerStoreSuite) TestSlots() {
	r := s.recount(id.OfficerAssignmentID(uuid.New()))
	s.Require().NoError(s.store.SaveRecount(s.ctx, r))

	s.Run("found by calendar date", func() {
		got, err := s.store.FindRecountBySlot(s.ctx, s.tenant, r.BoothAssignmentID, time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC))
		s.Require().NoError(err)
		s.Equal(r.ID, got.ID)
	})

	s.Run("second record for the slot conflicts", func() {
		dup := *r
		dup.ID = id.RecountID(uuid.New())
		s.ErrorIs(s.store.SaveRecount(s.ctx, &dup), sentinel.ErrConflict)
	})

	s.Run("other tenants see nothing", func() {
		_, err := s.store.FindRecount(s.ctx, id.TenantID(uuid.New()), r.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *LedgerStoreSuite) TestCountAttributed() {
	a := id.OfficerAssignmentID(uuid.New())
	b := id.OfficerAssignmentID(uuid.New())
	s.Require().NoError(s.store.SaveRecount(s.ctx, s.recount(a)))
	s.Require().NoError(s.store.SavePartialResult(s.ctx, &models.PartialResult{
		ID:                id.PartialResultID(uuid.New()),
		TenantID:          s.tenant,
		PollID:            s.poll,
		QuestionID:        id.QuestionID(uuid.New()),
		BoothAssignmentID: id.BoothAssignmentID(uuid.New()),
		Answer:            "Yes",
		Attribution:       models.Attribution{AssignmentID: a},
	}))

	n, err := s.store.CountAttributed(s.ctx, s.tenant, []id.OfficerAssignmentID{a})
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.CountAttributed(s.ctx, s.tenant, []id.OfficerAssignmentID{b})
	s.Require().NoError(err)
	s.Zero(n)

	n, err = s.store.CountAttributed(s.ctx, id.TenantID(uuid.New()), []id.OfficerAssignmentID{a})
	s.Require().NoError(err)
	s.Zero(n)
}
