package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tally/internal/scheduling/handler/mocks"
	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/middleware/tenant"
	"tally/pkg/testutil"
)

type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
	tenant  id.TenantID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.tenant = id.TenantID(uuid.New())

	s.router = chi.NewRouter()
	s.router.Use(tenant.RequireTenant(logger))
	New(s.service, logger).Register(s.router)
}

func (s *HandlerSuite) TestApplyShift() {
	booth := id.BoothID(uuid.New())
	officer := id.OfficerID(uuid.New())

	s.Run("returns derived assignments", func() {
		s.service.EXPECT().ApplyShift(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, shift models.Shift) ([]*models.OfficerAssignment, error) {
				s.Equal(s.tenant, shift.TenantID)
				s.Equal(models.TaskRecountScrutiny, shift.Task)
				return []*models.OfficerAssignment{{
					ID:        id.OfficerAssignmentID(uuid.New()),
					OfficerID: officer,
					Date:      shift.Date,
					Final:     true,
					ShiftID:   shift.ID,
				}}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/shifts", map[string]string{
			"booth_id":   booth.String(),
			"officer_id": officer.String(),
			"date":       "2026-06-04",
			"task":       "recount_scrutiny",
		})
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[struct {
			Assignments []AssignmentResponse `json:"assignments"`
		}](s.T(), rr)
		s.Require().Len(resp.Assignments, 1)
		s.True(resp.Assignments[0].Final)
		s.Equal("2026-06-04", resp.Assignments[0].Date)
	})

	s.Run("rejects an unknown task before calling the service", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/shifts", map[string]string{
			"booth_id":   booth.String(),
			"officer_id": officer.String(),
			"date":       "2026-06-04",
			"task":       "sweeping",
		})
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeValidation))
	})

	s.Run("maps conflicts to 409", func() {
		s.service.EXPECT().ApplyShift(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "shift already exists"))

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/shifts", map[string]string{
			"booth_id":   booth.String(),
			"officer_id": officer.String(),
			"date":       time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).Format(time.DateOnly),
			"task":       "vote_collection",
		})
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})

	s.Run("requires a tenant", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/shifts", map[string]string{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestRetractShift() {
	shiftID := id.ShiftID(uuid.New())

	s.Run("no content on success", func() {
		s.service.EXPECT().RetractShift(gomock.Any(), s.tenant, shiftID).Return(nil)
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/shifts/"+shiftID.String())
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
		testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
	})

	s.Run("not found", func() {
		s.service.EXPECT().RetractShift(gomock.Any(), s.tenant, shiftID).
			Return(dErrors.New(dErrors.CodeNotFound, "shift not found"))
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/shifts/"+shiftID.String())
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("malformed id", func() {
		req := testutil.NewRequest(s.T(), http.MethodDelete, "/shifts/not-a-uuid")
		rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *HandlerSuite) TestListings() {
	booth := id.BoothID(uuid.New())
	officer := id.OfficerID(uuid.New())

	s.service.EXPECT().ShiftsForBooth(gomock.Any(), s.tenant, booth).Return([]*models.Shift{{
		ID: id.ShiftID(uuid.New()), BoothID: booth, OfficerID: officer, OfficerName: "Ana",
		Date: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC), Task: models.TaskVoteCollection,
	}}, nil)
	req := testutil.NewRequest(s.T(), http.MethodGet, "/booths/"+booth.String()+"/shifts")
	rr := testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	shifts := testutil.UnmarshalResponse[struct {
		Shifts []ShiftResponse `json:"shifts"`
	}](s.T(), rr)
	s.Require().Len(shifts.Shifts, 1)
	s.Equal("Ana", shifts.Shifts[0].OfficerName)

	s.service.EXPECT().ListAssignments(gomock.Any(), s.tenant, officer).Return(nil, nil)
	req = testutil.NewRequest(s.T(), http.MethodGet, "/officers/"+officer.String()+"/assignments")
	rr = testutil.DoRequest(s.router, testutil.WithTenant(req, s.tenant))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}
