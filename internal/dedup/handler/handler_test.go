package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tally/internal/dedup/handler/mocks"
	participation "tally/internal/participation/models"
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

func (s *HandlerSuite) post(path string, body any) *http.Request {
	return testutil.WithTenant(testutil.NewJSONRequest(s.T(), http.MethodPost, path, body), s.tenant)
}

func (s *HandlerSuite) TestDedupVoters() {
	poll := id.PollID(uuid.New())

	s.Run("single poll", func() {
		s.service.EXPECT().DeduplicateVoters(gomock.Any(), s.tenant, poll).Return(3, nil)

		rr := testutil.DoRequest(s.router, s.post("/maintenance/voters/dedup", map[string]string{"poll_id": poll.String()}))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(3, testutil.UnmarshalResponse[RemovedResponse](s.T(), rr).Removed)
	})

	s.Run("every poll when none given", func() {
		s.service.EXPECT().DeduplicateAllVoters(gomock.Any(), s.tenant).Return(5, nil)

		rr := testutil.DoRequest(s.router, s.post("/maintenance/voters/dedup", map[string]string{}))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(5, testutil.UnmarshalResponse[RemovedResponse](s.T(), rr).Removed)
	})

	s.Run("invalid poll id", func() {
		rr := testutil.DoRequest(s.router, s.post("/maintenance/voters/dedup", map[string]string{"poll_id": "nope"}))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("service failure", func() {
		s.service.EXPECT().DeduplicateVoters(gomock.Any(), s.tenant, poll).
			Return(0, dErrors.New(dErrors.CodeInternal, "failed to list voters"))

		rr := testutil.DoRequest(s.router, s.post("/maintenance/voters/dedup", map[string]string{"poll_id": poll.String()}))
		testutil.AssertStatus(s.T(), rr, http.StatusInternalServerError)
	})
}

func (s *HandlerSuite) TestAnswers() {
	question := id.QuestionID(uuid.New())

	s.Run("dedup narrowed to a question", func() {
		s.service.EXPECT().DeduplicateAnswers(gomock.Any(), s.tenant, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ id.TenantID, scope participation.Scope) (int, error) {
				s.Require().NotNil(scope.QuestionID)
				s.Equal(question, *scope.QuestionID)
				s.Nil(scope.PollID)
				return 1, nil
			})

		rr := testutil.DoRequest(s.router, s.post("/maintenance/answers/dedup", map[string]string{"question_id": question.String()}))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(1, testutil.UnmarshalResponse[RemovedResponse](s.T(), rr).Removed)
	})

	s.Run("backfill over the whole tenant", func() {
		s.service.EXPECT().BackfillOptionIDs(gomock.Any(), s.tenant, participation.Scope{}).Return(4, nil)

		rr := testutil.DoRequest(s.router, s.post("/maintenance/answers/backfill-options", map[string]string{}))

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.Equal(4, testutil.UnmarshalResponse[ResolvedResponse](s.T(), rr).Resolved)
	})

	s.Run("missing tenant", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/maintenance/answers/dedup", map[string]string{})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}
