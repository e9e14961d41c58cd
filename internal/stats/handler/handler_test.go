package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tally/internal/stats/handler/mocks"
	"tally/internal/stats/models"
	"tally/internal/stats/service"
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

func (s *HandlerSuite) get(path string) *http.Request {
	return testutil.WithTenant(testutil.NewRequest(s.T(), http.MethodGet, path), s.tenant)
}

func (s *HandlerSuite) TestPollStats() {
	poll := id.PollID(uuid.New())

	s.Run("returns report", func() {
		s.service.EXPECT().ComputePollStats(gomock.Any(), s.tenant, service.PollScope{PollID: poll, WebWhite: 4}).
			Return(&models.PollReport{PollID: poll.String(), TotalParticipants: 12, Channels: []string{"web"}}, nil)

		rr := testutil.DoRequest(s.router, s.get("/polls/"+poll.String()+"/stats?web_white=4"))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		report := testutil.UnmarshalResponse[models.PollReport](s.T(), rr)
		s.Equal(12, report.TotalParticipants)
		s.Equal([]string{"web"}, report.Channels)
	})

	s.Run("web white defaults to zero", func() {
		s.service.EXPECT().ComputePollStats(gomock.Any(), s.tenant, service.PollScope{PollID: poll}).
			Return(&models.PollReport{PollID: poll.String()}, nil)

		rr := testutil.DoRequest(s.router, s.get("/polls/"+poll.String()+"/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("invalid web white", func() {
		for _, raw := range []string{"-1", "many"} {
			rr := testutil.DoRequest(s.router, s.get("/polls/"+poll.String()+"/stats?web_white="+raw))
			testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
		}
	})

	s.Run("invalid poll id", func() {
		rr := testutil.DoRequest(s.router, s.get("/polls/nope/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("unknown poll", func() {
		s.service.EXPECT().ComputePollStats(gomock.Any(), s.tenant, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "poll not found"))

		rr := testutil.DoRequest(s.router, s.get("/polls/"+poll.String()+"/stats"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *HandlerSuite) TestBudgetStats() {
	budget := id.BudgetID(uuid.New())

	s.Run("returns report", func() {
		s.service.EXPECT().ComputeBudgetStats(gomock.Any(), s.tenant, service.BudgetScope{BudgetID: budget}).
			Return(&models.BudgetReport{BudgetID: budget.String(), TotalParticipants: 7, Phases: []string{models.PhaseSupport}}, nil)

		rr := testutil.DoRequest(s.router, s.get("/budgets/"+budget.String()+"/stats"))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		report := testutil.UnmarshalResponse[models.BudgetReport](s.T(), rr)
		s.Equal(7, report.TotalParticipants)
		s.Equal([]string{models.PhaseSupport}, report.Phases)
	})

	s.Run("service failure", func() {
		s.service.EXPECT().ComputeBudgetStats(gomock.Any(), s.tenant, gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "failed to load supports"))

		rr := testutil.DoRequest(s.router, s.get("/budgets/"+budget.String()+"/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	})

	s.Run("missing tenant", func() {
		rr := testutil.DoRequest(s.router, testutil.NewRequest(s.T(), http.MethodGet, "/budgets/"+budget.String()+"/stats"))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}
