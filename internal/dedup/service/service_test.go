package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	catalogstore "tally/internal/catalog/store"
	participation "tally/internal/participation/models"
	participationstore "tally/internal/participation/store"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/audit"
	"tally/pkg/platform/audit/publishers/ops"
	auditmemory "tally/pkg/platform/audit/store/memory"
)

type ServiceSuite struct {
	suite.Suite
	ctx        context.Context
	tenant     id.TenantID
	poll       id.PollID
	t0         time.Time
	store      *participationstore.InMemory
	catalog    *catalogstore.InMemory
	auditStore *auditmemory.InMemoryStore
	tracker    *ops.Publisher
	service    *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.tenant = id.TenantID(uuid.New())
	s.poll = id.PollID(uuid.New())
	s.t0 = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	s.store = participationstore.NewInMemory()
	s.catalog = catalogstore.NewInMemory()
	s.catalog.PutTenant(s.tenant)
	s.auditStore = auditmemory.NewInMemoryStore()
	s.tracker = ops.New(s.auditStore)
	s.service = New(s.store, s.catalog,
		WithOpsTracker(s.tracker),
		WithLocales([]string{"en", "de", "es"}),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.Require().NoError(s.tracker.Close())
}

func (s *ServiceSuite) addVoter(tenant id.TenantID, poll id.PollID, user id.UserID, at time.Time) *participation.Voter {
	v := &participation.Voter{
		ID:        id.VoterID(uuid.New()),
		TenantID:  tenant,
		PollID:    poll,
		UserID:    user,
		Origin:    id.OriginWeb,
		CreatedAt: at,
	}
	s.Require().NoError(s.store.AddVoter(s.ctx, v))
	return v
}

func (s *ServiceSuite) addQuestion(titles ...map[string]string) participation.Question {
	q := participation.Question{ID: id.QuestionID(uuid.New()), TenantID: s.tenant, PollID: s.poll}
	for _, t := range titles {
		q.Options = append(q.Options, participation.Option{ID: id.OptionID(uuid.New()), QuestionID: q.ID, Titles: t})
	}
	s.Require().NoError(s.store.AddQuestion(s.ctx, &q))
	return q
}

func (s *ServiceSuite) addAnswer(q participation.Question, author id.UserID, text string, option *id.OptionID, at time.Time) *participation.Answer {
	a := &participation.Answer{
		ID:         id.AnswerID(uuid.New()),
		TenantID:   s.tenant,
		QuestionID: q.ID,
		AuthorID:   author,
		Text:       text,
		OptionID:   option,
		CreatedAt:  at,
	}
	s.Require().NoError(s.store.AddAnswer(s.ctx, a))
	return a
}

func (s *ServiceSuite) answers(q participation.Question) []participation.Answer {
	got, err := s.store.ListAnswers(s.ctx, s.tenant, []id.QuestionID{q.ID})
	s.Require().NoError(err)
	return got
}

func (s *ServiceSuite) abc() participation.Question {
	return s.addQuestion(
		map[string]string{"en": "Answer A"},
		map[string]string{"en": "Answer B"},
		map[string]string{"en": "Answer C"},
	)
}

func (s *ServiceSuite) TestDeduplicateVoters() {
	user := id.UserID(uuid.New())
	second := id.UserID(uuid.New())
	otherPoll := id.PollID(uuid.New())

	kept := s.addVoter(s.tenant, s.poll, user, s.t0)
	keptSecond := s.addVoter(s.tenant, s.poll, second, s.t0)
	other := s.addVoter(s.tenant, s.poll, id.UserID(uuid.New()), s.t0)
	elsewhere := s.addVoter(s.tenant, otherPoll, user, s.t0)
	s.addVoter(s.tenant, s.poll, user, s.t0.Add(time.Minute))
	s.addVoter(s.tenant, s.poll, user, s.t0.Add(2*time.Minute))
	s.addVoter(s.tenant, s.poll, second, s.t0.Add(time.Minute))

	removed, err := s.service.DeduplicateVoters(s.ctx, s.tenant, s.poll)
	s.Require().NoError(err)
	s.Equal(3, removed)

	got, err := s.store.ListVoters(s.ctx, s.tenant, s.poll)
	s.Require().NoError(err)
	var ids []id.VoterID
	for _, v := range got {
		ids = append(ids, v.ID)
	}
	s.ElementsMatch([]id.VoterID{kept.ID, keptSecond.ID, other.ID}, ids)

	untouched, err := s.store.ListVoters(s.ctx, s.tenant, otherPoll)
	s.Require().NoError(err)
	s.Require().Len(untouched, 1)
	s.Equal(elsewhere.ID, untouched[0].ID)

	s.Run("second run removes nothing", func() {
		removed, err := s.service.DeduplicateVoters(s.ctx, s.tenant, s.poll)
		s.Require().NoError(err)
		s.Zero(removed)
	})

	s.Run("operations event tracked", func() {
		s.Require().NoError(s.tracker.Close())
		events, err := s.auditStore.ListByTenant(s.ctx, s.tenant)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventVotersDeduplicated), events[0].Action)
		s.Equal("3", events[0].Details["removed"])
	})
}

func (s *ServiceSuite) TestDeduplicateVotersTieKeepsLowestID() {
	user := id.UserID(uuid.New())
	low := &participation.Voter{
		ID: id.VoterID(uuid.MustParse("00000000-0000-0000-0000-000000000001")), TenantID: s.tenant,
		PollID: s.poll, UserID: user, Origin: id.OriginBooth, CreatedAt: s.t0,
	}
	high := &participation.Voter{
		ID: id.VoterID(uuid.MustParse("00000000-0000-0000-0000-000000000002")), TenantID: s.tenant,
		PollID: s.poll, UserID: user, Origin: id.OriginWeb, CreatedAt: s.t0,
	}
	s.Require().NoError(s.store.AddVoter(s.ctx, high))
	s.Require().NoError(s.store.AddVoter(s.ctx, low))

	removed, err := s.service.DeduplicateVoters(s.ctx, s.tenant, s.poll)
	s.Require().NoError(err)
	s.Equal(1, removed)

	got, err := s.store.ListVoters(s.ctx, s.tenant, s.poll)
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(low.ID, got[0].ID)
}

func (s *ServiceSuite) TestDeduplicateVotersValidation() {
	_, err := s.service.DeduplicateVoters(s.ctx, s.tenant, id.PollID{})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.DeduplicateVoters(s.ctx, id.TenantID{}, s.poll)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestDeduplicateAnswers() {
	user := id.UserID(uuid.New())

	s.Run("same text", func() {
		q := s.abc()
		other := s.abc()
		kept := s.addAnswer(q, user, "Answer A", nil, s.t0)
		b := s.addAnswer(q, user, "Answer B", nil, s.t0)
		otherUser := s.addAnswer(q, id.UserID(uuid.New()), "Answer A", nil, s.t0)
		s.addAnswer(other, user, "Answer B", nil, s.t0)
		s.addAnswer(q, user, "Answer A", nil, s.t0.Add(time.Minute))
		s.addAnswer(q, user, "Answer A", nil, s.t0.Add(2*time.Minute))
		s.addAnswer(other, user, "Answer B", nil, s.t0.Add(time.Minute))

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{PollID: &s.poll})
		s.Require().NoError(err)
		s.Equal(3, removed)

		var ids []id.AnswerID
		for _, a := range s.answers(q) {
			ids = append(ids, a.ID)
		}
		s.ElementsMatch([]id.AnswerID{kept.ID, b.ID, otherUser.ID}, ids)
		s.Len(s.answers(other), 1)
	})

	s.Run("same text different options kept", func() {
		q := s.abc()
		s.addAnswer(q, user, "Answer A", &q.Options[0].ID, s.t0)
		s.addAnswer(q, user, "Answer A", &q.Options[1].ID, s.t0)

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Zero(removed)
		s.Len(s.answers(q), 2)
	})

	s.Run("stored option does not override different text", func() {
		q := s.abc()
		s.addAnswer(q, user, "Answer A", &q.Options[1].ID, s.t0)
		s.addAnswer(q, user, "Answer B", nil, s.t0.Add(time.Second))

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Zero(removed)
		s.Len(s.answers(q), 2)
	})

	s.Run("text with matching stored option merges with bare text", func() {
		q := s.abc()
		kept := s.addAnswer(q, user, "Answer B", &q.Options[1].ID, s.t0)
		s.addAnswer(q, user, "Answer B", nil, s.t0.Add(time.Second))

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Equal(1, removed)
		got := s.answers(q)
		s.Require().Len(got, 1)
		s.Equal(kept.ID, got[0].ID)
	})

	s.Run("same option in different languages", func() {
		q := s.addQuestion(
			map[string]string{"en": "Yes", "de": "Ja"},
			map[string]string{"en": "No", "de": "Nein"},
			map[string]string{"en": "Maybe", "de": "Vielleicht"},
		)
		yes := s.addAnswer(q, user, "Yes", nil, s.t0)
		s.addAnswer(q, user, "Ja", nil, s.t0.Add(time.Second))

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Equal(1, removed)
		got := s.answers(q)
		s.Require().Len(got, 1)
		s.Equal(yes.ID, got[0].ID)
	})

	s.Run("ambiguous text not merged", func() {
		q := s.addQuestion(
			map[string]string{"en": "A", "es": "EI"},
			map[string]string{"en": "E", "es": "I"},
			map[string]string{"en": "I", "es": "AI"},
		)
		s.addAnswer(q, user, "I", nil, s.t0)
		s.addAnswer(q, user, "AI", nil, s.t0)

		removed, err := s.service.DeduplicateAnswers(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Zero(removed)
		s.Len(s.answers(q), 2)
	})
}

func (s *ServiceSuite) TestBackfillOptionIDs() {
	user := id.UserID(uuid.New())

	s.Run("single match resolved", func() {
		yesNo := s.addQuestion(map[string]string{"en": "Yes"}, map[string]string{"en": "No"})
		abc := s.abc()
		answer := s.addAnswer(yesNo, user, "Yes", nil, s.t0)
		abcAnswer := s.addAnswer(abc, user, "Answer A", nil, s.t0)
		inconsistent := s.addAnswer(abc, user, "Answer A", &abc.Options[1].ID, s.t0)
		invalid := s.addAnswer(abc, user, "Non existing", nil, s.t0)

		resolved, err := s.service.BackfillOptionIDs(s.ctx, s.tenant, participation.Scope{PollID: &s.poll})
		s.Require().NoError(err)
		s.Equal(2, resolved)

		byID := map[id.AnswerID]participation.Answer{}
		for _, a := range append(s.answers(yesNo), s.answers(abc)...) {
			byID[a.ID] = a
		}
		s.Equal(yesNo.Options[0].ID, *byID[answer.ID].OptionID)
		s.Equal(abc.Options[0].ID, *byID[abcAnswer.ID].OptionID)
		s.Equal(abc.Options[1].ID, *byID[inconsistent.ID].OptionID)
		s.Nil(byID[invalid.ID].OptionID)
	})

	s.Run("several matches left unset", func() {
		q := s.addQuestion(
			map[string]string{"en": "A", "es": "EI"},
			map[string]string{"en": "E", "es": "I"},
			map[string]string{"en": "I", "es": "AI"},
		)
		s.addAnswer(q, user, "I", nil, s.t0)

		resolved, err := s.service.BackfillOptionIDs(s.ctx, s.tenant, participation.Scope{QuestionID: &q.ID})
		s.Require().NoError(err)
		s.Zero(resolved)
		s.Nil(s.answers(q)[0].OptionID)
	})

	s.Run("duplicates removed first", func() {
		abc := s.abc()
		localized := s.addQuestion(
			map[string]string{"en": "Yes", "de": "Ja"},
			map[string]string{"en": "No", "de": "Nein"},
		)
		s.addAnswer(abc, user, "Answer A", nil, s.t0)
		s.addAnswer(abc, user, "Answer A", nil, s.t0.Add(time.Second))
		s.addAnswer(localized, user, "Yes", nil, s.t0)
		s.addAnswer(localized, user, "Ja", nil, s.t0.Add(time.Second))

		scope := participation.Scope{}
		resolved, err := s.service.BackfillOptionIDs(s.ctx, s.tenant, scope)
		s.Require().NoError(err)
		s.Equal(2, resolved)

		a := s.answers(abc)
		s.Require().Len(a, 1)
		s.Equal(abc.Options[0].ID, *a[0].OptionID)
		l := s.answers(localized)
		s.Require().Len(l, 1)
		s.Equal("Yes", l[0].Text)
		s.Equal(localized.Options[0].ID, *l[0].OptionID)

		resolved, err = s.service.BackfillOptionIDs(s.ctx, s.tenant, scope)
		s.Require().NoError(err)
		s.Zero(resolved)
	})
}

func (s *ServiceSuite) TestRunOnEachTenant() {
	other := id.TenantID(uuid.New())
	s.catalog.PutTenant(other)
	user := id.UserID(uuid.New())
	otherPoll := id.PollID(uuid.New())

	s.addVoter(s.tenant, s.poll, user, s.t0)
	s.addVoter(s.tenant, s.poll, user, s.t0.Add(time.Minute))
	s.addVoter(other, otherPoll, user, s.t0)
	s.addVoter(other, otherPoll, user, s.t0.Add(time.Minute))
	s.addVoter(other, otherPoll, user, s.t0.Add(2*time.Minute))

	s.Run("every tenant visited", func() {
		results, err := s.service.RunOnEachTenant(s.ctx, TaskDedupVoters, s.service.DeduplicateAllVoters)
		s.Require().NoError(err)
		counts := map[id.TenantID]int{}
		for _, r := range results {
			counts[r.TenantID] = r.Count
		}
		s.Equal(map[id.TenantID]int{s.tenant: 1, other: 2}, counts)
	})

	s.Run("failure does not stop other tenants", func() {
		visited := 0
		failing := func(_ context.Context, tenant id.TenantID) (int, error) {
			visited++
			if tenant == s.tenant {
				return 0, errors.New("store down")
			}
			return 0, nil
		}
		results, err := s.service.RunOnEachTenant(s.ctx, TaskDedupVoters, failing)
		s.Require().Error(err)
		s.Contains(err.Error(), "store down")
		s.Equal(2, visited)
		s.Len(results, 2)
	})
}
