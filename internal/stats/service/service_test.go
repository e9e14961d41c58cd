package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	catalog "tally/internal/catalog/models"
	ledger "tally/internal/ledger/models"
	participation "tally/internal/participation/models"
	"tally/internal/stats/models"
	"tally/internal/stats/service/mocks"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	"tally/pkg/platform/sentinel"
)

// fixture is the data a mocked source serves for one report.
type fixture struct {
	t0          time.Time
	voters      []participation.Voter
	recounts    []*ledger.Recount
	users       map[id.UserID]catalog.User
	geozones    []catalog.Geozone
	headings    []catalog.Heading
	investments []participation.Investment
	supports    []participation.Support
	ballotLines []participation.BallotLine
}

func newFixture() *fixture {
	return &fixture{
		t0:    time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
		users: make(map[id.UserID]catalog.User),
	}
}

func (f *fixture) user(opts ...func(*catalog.User)) id.UserID {
	u := catalog.User{ID: id.UserID(uuid.New()), Gender: catalog.GenderFemale}
	for _, opt := range opts {
		opt(&u)
	}
	f.users[u.ID] = u
	return u.ID
}

func withGender(g string) func(*catalog.User) {
	return func(u *catalog.User) { u.Gender = g }
}

func withBirth(t time.Time) func(*catalog.User) {
	return func(u *catalog.User) { u.DateOfBirth = &t }
}

func withGeozone(g id.GeozoneID) func(*catalog.User) {
	return func(u *catalog.User) { u.GeozoneID = &g }
}

func hidden(u *catalog.User) { u.Hidden = true }

func (f *fixture) vote(origin id.Origin, user id.UserID) {
	f.voters = append(f.voters, participation.Voter{
		ID:        id.VoterID(uuid.New()),
		UserID:    user,
		Origin:    origin,
		CreatedAt: f.t0.Add(time.Duration(len(f.voters)) * time.Second),
	})
}

func (f *fixture) votes(n int, origin id.Origin) {
	for range n {
		f.vote(origin, f.user())
	}
}

func (f *fixture) recount(total, white, null int) {
	f.recounts = append(f.recounts, &ledger.Recount{
		ID:     id.RecountID(uuid.New()),
		Origin: id.OriginBooth,
		Total:  ledger.Amount{Value: total},
		White:  ledger.Amount{Value: white},
		Null:   ledger.Amount{Value: null},
	})
}

func (f *fixture) letterRecount(total, white, null int) {
	f.recount(total, white, null)
	f.recounts[len(f.recounts)-1].Origin = id.OriginLetter
}

type ServiceSuite struct {
	suite.Suite
	ctx    context.Context
	tenant id.TenantID
	poll   catalog.Poll
	budget catalog.Budget
	source *mocks.MockSource
	cfg    Config
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) reset() {
	s.ctx = context.Background()
	s.tenant = id.TenantID(uuid.New())
	s.poll = catalog.Poll{
		ID:       id.PollID(uuid.New()),
		TenantID: s.tenant,
		StartsAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 6, 3, 20, 0, 0, 0, time.UTC),
	}
	selecting := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	balloting := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	s.budget = catalog.Budget{
		ID:              id.BudgetID(uuid.New()),
		TenantID:        s.tenant,
		Phase:           catalog.PhaseFinished,
		SelectingEndsAt: &selecting,
		BallotingEndsAt: &balloting,
	}
	s.source = mocks.NewMockSource(gomock.NewController(s.T()))
	s.cfg = Config{}
}

func (s *ServiceSuite) SetupTest() {
	s.reset()
}

func (s *ServiceSuite) SetupSubTest() {
	s.reset()
}

func (s *ServiceSuite) service() *Service {
	return New(s.source, s.cfg, WithClock(func() time.Time { return time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC) }))
}

func (s *ServiceSuite) expectPoll(f *fixture) {
	s.source.EXPECT().FindPoll(gomock.Any(), s.tenant, s.poll.ID).Return(&s.poll, nil)
	s.source.EXPECT().ListVoters(gomock.Any(), s.tenant, s.poll.ID).Return(f.voters, nil)
	s.source.EXPECT().ListRecounts(gomock.Any(), s.tenant, s.poll.ID).Return(f.recounts, nil)
	s.source.EXPECT().ListGeozones(gomock.Any(), s.tenant).Return(f.geozones, nil)
	s.source.EXPECT().UsersByID(gomock.Any(), s.tenant, gomock.Any()).Return(f.users, nil).AnyTimes()
}

func (s *ServiceSuite) pollStats(f *fixture, webWhite int) *models.PollReport {
	s.expectPoll(f)
	report, err := s.service().ComputePollStats(s.ctx, s.tenant, PollScope{PollID: s.poll.ID, WebWhite: webWhite})
	s.Require().NoError(err)
	return report
}

func (s *ServiceSuite) TestPollParticipants() {
	s.Run("hidden users counted", func() {
		f := newFixture()
		f.vote(id.OriginWeb, f.user())
		f.vote(id.OriginWeb, f.user(hidden))

		r := s.pollStats(f, 0)
		s.Equal(2, r.TotalParticipants)
	})

	s.Run("duplicate voters counted once", func() {
		f := newFixture()
		u := f.user()
		f.vote(id.OriginWeb, u)
		f.vote(id.OriginWeb, u)

		r := s.pollStats(f, 0)
		s.Equal(1, r.Web.Participants)
	})

	s.Run("every channel", func() {
		f := newFixture()
		f.votes(3, id.OriginWeb)
		f.recount(8, 4, 1)

		r := s.pollStats(f, 1)
		s.Equal(3, r.Web.Participants)
		s.Equal(13, r.Booth.Participants)
		s.Equal(16, r.TotalParticipants)
	})

	s.Run("booth uses recounts over registered voters", func() {
		f := newFixture()
		f.recount(1, 0, 0)
		f.votes(2, id.OriginBooth)

		r := s.pollStats(f, 0)
		s.Equal(1, r.Booth.Participants)
	})

	s.Run("letter voters counted", func() {
		f := newFixture()
		f.votes(2, id.OriginLetter)
		f.votes(2, id.OriginWeb)

		r := s.pollStats(f, 0)
		s.Equal(2, r.Letter.Participants)
		s.Equal(50.0, r.Letter.ParticipantsPercentage)
	})

	s.Run("percentage relative to total participants", func() {
		f := newFixture()
		f.votes(1, id.OriginWeb)
		f.recount(5, 0, 0)

		r := s.pollStats(f, 0)
		s.Equal(16.667, r.Web.ParticipantsPercentage)
		s.Equal(83.333, r.Booth.ParticipantsPercentage)
	})
}

func (s *ServiceSuite) TestPollVotes() {
	s.Run("web valid excludes white", func() {
		f := newFixture()
		f.votes(3, id.OriginWeb)

		r := s.pollStats(f, 1)
		s.Equal(2, r.Web.Valid)
		s.Zero(r.Web.Null)
	})

	s.Run("booth sums recounts", func() {
		f := newFixture()
		f.recount(3, 120, 125)
		f.recount(4, 203, 34)

		r := s.pollStats(f, 0)
		s.Equal(7, r.Booth.Valid)
		s.Equal(323, r.Booth.White)
		s.Equal(159, r.Booth.Null)
	})

	s.Run("valid percentage by channel", func() {
		f := newFixture()
		f.recount(2, 0, 0)
		f.votes(1, id.OriginWeb)

		r := s.pollStats(f, 0)
		s.Equal(33.333, r.Web.ValidPercentage)
		s.Equal(66.667, r.Booth.ValidPercentage)
	})

	s.Run("white percentage by channel", func() {
		f := newFixture()
		f.recount(0, 70, 0)
		f.votes(10, id.OriginWeb)

		r := s.pollStats(f, 10)
		s.Equal(12.5, r.Web.WhitePercentage)
		s.Equal(87.5, r.Booth.WhitePercentage)
	})

	s.Run("web white capped at web participants", func() {
		f := newFixture()
		f.votes(2, id.OriginWeb)

		r := s.pollStats(f, 5)
		s.Equal(2, r.Web.White)
		s.Zero(r.Web.Valid)
		s.Equal(2, r.TotalWhiteVotes)
	})

	s.Run("web white without web voters", func() {
		f := newFixture()
		f.recount(3, 0, 0)

		r := s.pollStats(f, 4)
		s.Zero(r.Web.White)
		s.Zero(r.TotalWhiteVotes)
		s.Equal(100.0, r.TotalValidPercentage)
	})

	s.Run("letter-origin recounts summed with booth recounts", func() {
		f := newFixture()
		f.recount(3, 1, 0)
		f.letterRecount(5, 2, 1)

		r := s.pollStats(f, 0)
		s.Equal(8, r.Booth.Valid)
		s.Equal(3, r.Booth.White)
		s.Equal(1, r.Booth.Null)
		s.Equal(12, r.Booth.Participants)
		s.Equal(12, r.TotalParticipants)
		s.Equal([]string{"booth"}, r.Channels)
	})

	s.Run("null only from booth", func() {
		f := newFixture()
		f.recount(0, 0, 70)

		r := s.pollStats(f, 0)
		s.Zero(r.Web.NullPercentage)
		s.Equal(100.0, r.Booth.NullPercentage)
		s.Equal(70, r.TotalNullVotes)
	})

	s.Run("totals by type", func() {
		f := newFixture()
		f.votes(3, id.OriginWeb)
		f.recount(8, 5, 4)

		r := s.pollStats(f, 1)
		s.Equal(10, r.TotalValidVotes)
		s.Equal(6, r.TotalWhiteVotes)
		s.Equal(4, r.TotalNullVotes)
		s.Equal(50.0, r.TotalValidPercentage)
		s.Equal(30.0, r.TotalWhitePercentage)
		s.Equal(20.0, r.TotalNullPercentage)
	})

	s.Run("nothing to count", func() {
		r := s.pollStats(newFixture(), 0)
		s.Zero(r.TotalValidPercentage)
		s.Zero(r.Web.ParticipantsPercentage)
		s.Empty(r.Channels)
	})
}

func (s *ServiceSuite) TestPollDemographics() {
	s.Run("age relative to poll end", func() {
		f := newFixture()
		for i, age := range []int{16, 18, 32, 32, 33, 34, 64, 65, 71, 73, 90, 99, 105} {
			f.vote(id.OriginWeb, f.user(withBirth(s.poll.EndsAt.AddDate(-age, -(i%12), 0))))
		}

		r := s.pollStats(f, 0)
		counts := map[string]int{}
		for _, b := range r.Demographics.Age {
			counts[b.Label] = b.Count
		}
		s.Len(r.Demographics.Age, 16)
		s.Equal(2, counts["16 - 19"])
		s.Equal(0, counts["20 - 24"])
		s.Equal(4, counts["30 - 34"])
		s.Equal(1, counts["60 - 64"])
		s.Equal(1, counts["65 - 69"])
		s.Equal(2, counts["70 - 74"])
		s.Equal(3, counts["90 - 300"])
		s.Equal(s.poll.EndsAt, r.Demographics.ReferenceDate)
	})

	s.Run("age 23 in twenties band", func() {
		f := newFixture()
		f.vote(id.OriginWeb, f.user(withBirth(s.poll.EndsAt.AddDate(-23, -2, 0))))

		r := s.pollStats(f, 0)
		s.Equal("20 - 24", r.Demographics.Age[1].Label)
		s.Equal(1, r.Demographics.Age[1].Count)
		s.Equal(100.0, r.Demographics.Age[1].Percentage)
	})

	s.Run("geozones alphabetical including empty", func() {
		f := newFixture()
		for _, name := range []string{"Oceania", "Eurasia", "Eastasia"} {
			f.geozones = append(f.geozones, catalog.Geozone{ID: id.GeozoneID(uuid.New()), Name: name})
		}

		r := s.pollStats(f, 0)
		var labels []string
		for _, b := range r.Demographics.Geozones {
			labels = append(labels, b.Label)
		}
		s.Equal([]string{"Eastasia", "Eurasia", "Oceania"}, labels)
	})

	s.Run("geozone percentage relative to participants", func() {
		f := newFixture()
		hobbiton := catalog.Geozone{ID: id.GeozoneID(uuid.New()), Name: "Hobbiton"}
		rivendel := catalog.Geozone{ID: id.GeozoneID(uuid.New()), Name: "Rivendel"}
		f.geozones = []catalog.Geozone{rivendel, hobbiton}
		for range 3 {
			f.vote(id.OriginWeb, f.user(withGeozone(hobbiton.ID)))
		}
		for range 2 {
			f.vote(id.OriginWeb, f.user(withGeozone(rivendel.ID)))
		}

		r := s.pollStats(f, 0)
		s.Equal(models.Bucket{Label: "Hobbiton", Count: 3, Percentage: 60}, r.Demographics.Geozones[0])
		s.Equal(models.Bucket{Label: "Rivendel", Count: 2, Percentage: 40}, r.Demographics.Geozones[1])
	})

	s.Run("no demographic data with fewer recounted than registered", func() {
		f := newFixture()
		f.vote(id.OriginWeb, f.user(withGender("")))
		f.recount(1, 0, 0)
		f.votes(2, id.OriginBooth)

		r := s.pollStats(f, 0)
		s.Equal(1, r.Demographics.NoDemographicData)
	})

	s.Run("no demographic data adds unregistered booth ballots", func() {
		f := newFixture()
		f.vote(id.OriginWeb, f.user(withGender("")))
		f.recount(3, 0, 0)
		f.votes(2, id.OriginBooth)

		r := s.pollStats(f, 0)
		s.Equal(2, r.Demographics.NoDemographicData)
	})

	s.Run("gender split", func() {
		f := newFixture()
		for range 3 {
			f.vote(id.OriginWeb, f.user(withGender(catalog.GenderMale)))
		}
		for range 2 {
			f.vote(id.OriginWeb, f.user(withGender(catalog.GenderFemale)))
		}
		f.vote(id.OriginWeb, f.user(withGender("")))

		r := s.pollStats(f, 0)
		s.Equal(models.Gender{Male: 3, Female: 2, MalePercentage: 60, FemalePercentage: 40}, r.Demographics.Gender)
	})
}

func (s *ServiceSuite) TestPollChannels() {
	cases := []struct {
		name     string
		setup    func(f *fixture)
		channels []string
		expected []string
	}{
		{name: "web only", setup: func(f *fixture) { f.votes(1, id.OriginWeb) }, expected: []string{"web"}},
		{name: "booth only", setup: func(f *fixture) { f.recount(1, 0, 0) }, expected: []string{"booth"}},
		{name: "letter only", setup: func(f *fixture) { f.votes(1, id.OriginLetter) }, expected: []string{"letter"}},
		{
			name: "every channel in fixed order",
			setup: func(f *fixture) {
				f.votes(1, id.OriginLetter)
				f.recount(5, 0, 0)
				f.votes(1, id.OriginWeb)
			},
			expected: []string{"web", "booth", "letter"},
		},
		{
			name: "disabled channel omitted",
			setup: func(f *fixture) {
				f.votes(1, id.OriginLetter)
				f.votes(1, id.OriginWeb)
			},
			channels: []string{"web", "booth"},
			expected: []string{"web"},
		},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.cfg = Config{Channels: tc.channels}
			f := newFixture()
			tc.setup(f)

			r := s.pollStats(f, 0)
			s.Equal(tc.expected, r.Channels)
		})
	}
}

func (s *ServiceSuite) TestPollErrors() {
	s.Run("poll not found", func() {
		s.source.EXPECT().FindPoll(gomock.Any(), s.tenant, s.poll.ID).Return(nil, sentinel.ErrNotFound)

		_, err := s.service().ComputePollStats(s.ctx, s.tenant, PollScope{PollID: s.poll.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("load failure", func() {
		s.source.EXPECT().FindPoll(gomock.Any(), s.tenant, s.poll.ID).Return(&s.poll, nil)
		s.source.EXPECT().ListVoters(gomock.Any(), s.tenant, s.poll.ID).Return(nil, errors.New("connection reset"))
		s.source.EXPECT().ListRecounts(gomock.Any(), s.tenant, s.poll.ID).Return(nil, nil).AnyTimes()
		s.source.EXPECT().ListGeozones(gomock.Any(), s.tenant).Return(nil, nil).AnyTimes()

		_, err := s.service().ComputePollStats(s.ctx, s.tenant, PollScope{PollID: s.poll.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("validation", func() {
		_, err := s.service().ComputePollStats(s.ctx, id.TenantID{}, PollScope{PollID: s.poll.ID})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service().ComputePollStats(s.ctx, s.tenant, PollScope{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service().ComputePollStats(s.ctx, s.tenant, PollScope{PollID: s.poll.ID, WebWhite: -1})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// budget fixture helpers

func (f *fixture) heading(population *int) id.HeadingID {
	h := catalog.Heading{ID: id.HeadingID(uuid.New()), Name: "District", Population: population}
	f.headings = append(f.headings, h)
	return h.ID
}

func (f *fixture) investment(heading id.HeadingID, author *id.UserID, selected bool, feasibility participation.Feasibility) id.InvestmentID {
	inv := participation.Investment{
		ID:          id.InvestmentID(uuid.New()),
		HeadingID:   heading,
		AuthorID:    author,
		Selected:    selected,
		Feasibility: feasibility,
	}
	f.investments = append(f.investments, inv)
	return inv.ID
}

func (f *fixture) support(inv id.InvestmentID, heading id.HeadingID, user id.UserID) {
	f.supports = append(f.supports, participation.Support{InvestmentID: inv, HeadingID: heading, UserID: user})
}

func (f *fixture) ballot(inv id.InvestmentID, heading id.HeadingID, user id.UserID) {
	f.ballotLines = append(f.ballotLines, participation.BallotLine{
		ID: uuid.New(), InvestmentID: inv, HeadingID: heading, UserID: user,
	})
}

func (s *ServiceSuite) expectBudget(f *fixture, budgetPollVoters []participation.Voter) {
	budgetPoll := catalog.Poll{ID: id.PollID(uuid.New()), BudgetID: &s.budget.ID}
	s.source.EXPECT().FindBudget(gomock.Any(), s.tenant, s.budget.ID).Return(&s.budget, nil)
	s.source.EXPECT().ListHeadings(gomock.Any(), s.tenant, s.budget.ID).Return(f.headings, nil)
	s.source.EXPECT().ListInvestments(gomock.Any(), s.tenant, s.budget.ID).Return(f.investments, nil)
	s.source.EXPECT().ListSupports(gomock.Any(), s.tenant, s.budget.ID).Return(f.supports, nil)
	s.source.EXPECT().ListBallotLines(gomock.Any(), s.tenant, s.budget.ID).Return(f.ballotLines, nil)
	s.source.EXPECT().ListGeozones(gomock.Any(), s.tenant).Return(f.geozones, nil)
	s.source.EXPECT().PollsForBudget(gomock.Any(), s.tenant, s.budget.ID).Return([]catalog.Poll{budgetPoll}, nil)
	s.source.EXPECT().ListVoters(gomock.Any(), s.tenant, budgetPoll.ID).Return(budgetPollVoters, nil)
	s.source.EXPECT().UsersByID(gomock.Any(), s.tenant, gomock.Any()).Return(f.users, nil).AnyTimes()
}

func (s *ServiceSuite) budgetStats(f *fixture, pollVoters ...participation.Voter) *models.BudgetReport {
	s.expectBudget(f, pollVoters)
	report, err := s.service().ComputeBudgetStats(s.ctx, s.tenant, BudgetScope{BudgetID: s.budget.ID})
	s.Require().NoError(err)
	return report
}

func (s *ServiceSuite) TestBudgetParticipants() {
	s.Run("unique participants including authors and hidden users", func() {
		f := newFixture()
		heading := f.heading(nil)
		author := f.user()
		authorAndSupporter := f.user(hidden)
		supporter := f.user()
		supporterAndBalloter := f.user()
		balloter := f.user(hidden)
		pollBalloter := f.user()

		inv := f.investment(heading, &author, true, participation.FeasibilityFeasible)
		f.investment(heading, &authorAndSupporter, true, participation.FeasibilityFeasible)
		f.support(inv, heading, authorAndSupporter)
		f.support(inv, heading, supporter)
		f.support(inv, heading, supporterAndBalloter)
		f.ballot(inv, heading, supporterAndBalloter)
		f.ballot(inv, heading, balloter)

		r := s.budgetStats(f, participation.Voter{ID: id.VoterID(uuid.New()), UserID: pollBalloter, Origin: id.OriginBooth})
		s.Equal(6, r.TotalParticipants)
		s.Equal(6, r.TotalParticipantsEveryPhase)
	})

	s.Run("vote phase counts balloters and poll balloters once", func() {
		f := newFixture()
		heading := f.heading(nil)
		inv := f.investment(heading, nil, true, participation.FeasibilityFeasible)
		both := f.user()
		f.ballot(inv, heading, both)
		f.ballot(inv, heading, f.user())

		r := s.budgetStats(f,
			participation.Voter{ID: id.VoterID(uuid.New()), UserID: both, Origin: id.OriginBooth},
			participation.Voter{ID: id.VoterID(uuid.New()), UserID: f.user(), Origin: id.OriginBooth},
		)
		s.Equal(3, r.TotalParticipantsVotePhase)
	})

	s.Run("nil users not counted", func() {
		f := newFixture()
		heading := f.heading(nil)
		inv := f.investment(heading, nil, true, participation.FeasibilityFeasible)
		f.ballot(inv, heading, id.UserID{})

		r := s.budgetStats(f)
		s.Zero(r.TotalParticipantsVotePhase)
		s.Equal(1, r.TotalVotes)
	})

	s.Run("support phase counts authors and supporters", func() {
		f := newFixture()
		heading := f.heading(nil)
		author := f.user()
		inv := f.investment(heading, &author, true, participation.FeasibilityFeasible)
		f.support(inv, heading, f.user())
		f.support(inv, heading, f.user())
		f.ballot(inv, heading, f.user())

		r := s.budgetStats(f)
		s.Equal(3, r.TotalParticipantsSupportPhase)
		s.Equal(1, r.TotalParticipantsVotePhase)
	})
}

func (s *ServiceSuite) TestBudgetTotals() {
	f := newFixture()
	heading := f.heading(nil)
	for range 3 {
		f.investment(heading, nil, true, participation.FeasibilityFeasible)
	}
	for range 2 {
		f.investment(heading, nil, false, participation.FeasibilityUnfeasible)
	}
	f.ballot(f.investments[0].ID, heading, f.user())
	f.ballot(f.investments[1].ID, heading, f.user())

	r := s.budgetStats(f)
	s.Equal(5, r.TotalInvestments)
	s.Equal(3, r.TotalSelectedInvestments)
	s.Equal(2, r.TotalUnfeasibleInvestments)
	s.Equal(2, r.TotalVotes)
}

func (s *ServiceSuite) TestBudgetHeadings() {
	f := newFixture()
	population := 1234
	heading := f.heading(&population)
	other := f.heading(nil)
	inv := f.investment(heading, nil, true, participation.FeasibilityFeasible)
	f.investment(heading, nil, false, participation.FeasibilityUndecided)
	f.support(inv, heading, f.user())
	f.support(inv, heading, f.user())
	f.ballot(inv, heading, f.user())

	r := s.budgetStats(f)
	s.Require().Len(r.Headings, 2)
	h := r.Headings[0]
	s.Equal(heading.String(), h.HeadingID)
	s.Equal(2, h.TotalInvestments)
	s.Equal(models.PhaseTotals{Participants: 2, ParticipantsPercentage: 100, DistrictPopulationPercentage: 0.162}, h.Phases[models.PhaseSupport])
	s.Equal(models.PhaseTotals{Participants: 1, ParticipantsPercentage: 100, DistrictPopulationPercentage: 0.081}, h.Phases[models.PhaseVote])
	s.Equal(models.PhaseTotals{Participants: 3, ParticipantsPercentage: 100, DistrictPopulationPercentage: 0.243}, h.Phases[models.PhaseEvery])

	s.Equal(other.String(), r.Headings[1].HeadingID)
	s.Zero(r.Headings[1].Phases[models.PhaseEvery].Participants)
	s.Zero(r.Headings[1].Phases[models.PhaseEvery].DistrictPopulationPercentage)
}

func (s *ServiceSuite) TestBudgetPhases() {
	cases := []struct {
		phase    catalog.Phase
		expected []string
	}{
		{phase: catalog.PhaseSelecting, expected: []string{}},
		{phase: catalog.PhaseValuating, expected: []string{models.PhaseSupport}},
		{phase: catalog.PhaseReviewingBallots, expected: []string{models.PhaseSupport}},
		{phase: catalog.PhaseFinished, expected: []string{models.PhaseSupport, models.PhaseVote, models.PhaseEvery}},
	}
	for _, tc := range cases {
		s.Run(string(tc.phase), func() {
			s.budget.Phase = tc.phase
			f := newFixture()
			heading := f.heading(nil)
			author := f.user()
			f.investment(heading, &author, true, participation.FeasibilityFeasible)

			r := s.budgetStats(f)
			s.Equal(tc.expected, r.Phases)
			s.Len(r.Headings[0].Phases, len(tc.expected))
			if len(tc.expected) < 3 {
				s.Zero(r.TotalParticipantsEveryPhase)
			}
		})
	}
}

func (s *ServiceSuite) TestBudgetReferenceDate() {
	ages := []int{21, 22, 23, 23, 34, 42, 43, 44, 50, 51}

	s.Run("balloting end on finished budgets", func() {
		f := newFixture()
		heading := f.heading(nil)
		inv := f.investment(heading, nil, true, participation.FeasibilityFeasible)
		for i, age := range ages {
			f.ballot(inv, heading, f.user(withBirth(s.budget.BallotingEndsAt.AddDate(-age, -(i%12), 0))))
		}

		r := s.budgetStats(f)
		s.Equal(*s.budget.BallotingEndsAt, r.Demographics.ReferenceDate)
		counts := map[string]int{}
		for _, b := range r.Demographics.Age {
			counts[b.Label] = b.Count
		}
		s.Equal(0, counts["16 - 19"])
		s.Equal(4, counts["20 - 24"])
		s.Equal(1, counts["30 - 34"])
		s.Equal(3, counts["40 - 44"])
		s.Equal(2, counts["50 - 54"])
	})

	s.Run("selecting end on unfinished budgets", func() {
		s.budget.Phase = catalog.PhaseReviewingBallots
		r := s.budgetStats(newFixture())
		s.Equal(*s.budget.SelectingEndsAt, r.Demographics.ReferenceDate)
	})

	s.Run("clock when no phase dates", func() {
		s.budget.Phase = catalog.PhaseAccepting
		s.budget.SelectingEndsAt = nil
		r := s.budgetStats(newFixture())
		s.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), r.Demographics.ReferenceDate)
	})
}

func (s *ServiceSuite) TestBudgetNotFound() {
	s.source.EXPECT().FindBudget(gomock.Any(), s.tenant, s.budget.ID).Return(nil, sentinel.ErrNotFound)

	_, err := s.service().ComputeBudgetStats(s.ctx, s.tenant, BudgetScope{BudgetID: s.budget.ID})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
