package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	catalog "tally/internal/catalog/models"
	ledger "tally/internal/ledger/models"
	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
)

type pollInput struct {
	poll     catalog.Poll
	webWhite int
	voters   []participation.Voter
	recounts []*ledger.Recount
	geozones []catalog.Geozone
	users    map[id.UserID]catalog.User
}

func (s *Service) loadPoll(ctx context.Context, tenant id.TenantID, scope PollScope) (*pollInput, error) {
	poll, err := s.source.FindPoll(ctx, tenant, scope.PollID)
	if err != nil {
		return nil, translate(err, "poll")
	}
	in := &pollInput{poll: *poll, webWhite: scope.WebWhite}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		voters, err := s.source.ListVoters(gctx, tenant, poll.ID)
		in.voters = voters
		return translate(err, "voters")
	})
	g.Go(func() error {
		recounts, err := s.source.ListRecounts(gctx, tenant, poll.ID)
		in.recounts = recounts
		return translate(err, "recounts")
	})
	g.Go(func() error {
		geozones, err := s.source.ListGeozones(gctx, tenant)
		in.geozones = geozones
		return translate(err, "geozones")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.voters = canonicalVoters(in.voters)
	users, err := s.loadUsers(ctx, tenant, votersUsers(in.voters))
	if err != nil {
		return nil, err
	}
	in.users = users
	return in, nil
}

type budgetInput struct {
	budget      catalog.Budget
	headings    []catalog.Heading
	investments []participation.Investment
	supports    []participation.Support
	ballotLines []participation.BallotLine
	pollVoters  []participation.Voter
	geozones    []catalog.Geozone
	users       map[id.UserID]catalog.User
}

func (s *Service) loadBudget(ctx context.Context, tenant id.TenantID, scope BudgetScope) (*budgetInput, error) {
	budget, err := s.source.FindBudget(ctx, tenant, scope.BudgetID)
	if err != nil {
		return nil, translate(err, "budget")
	}
	in := &budgetInput{budget: *budget}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		headings, err := s.source.ListHeadings(gctx, tenant, budget.ID)
		in.headings = headings
		return translate(err, "headings")
	})
	g.Go(func() error {
		investments, err := s.source.ListInvestments(gctx, tenant, budget.ID)
		in.investments = investments
		return translate(err, "investments")
	})
	g.Go(func() error {
		supports, err := s.source.ListSupports(gctx, tenant, budget.ID)
		in.supports = supports
		return translate(err, "supports")
	})
	g.Go(func() error {
		lines, err := s.source.ListBallotLines(gctx, tenant, budget.ID)
		in.ballotLines = lines
		return translate(err, "ballot lines")
	})
	g.Go(func() error {
		geozones, err := s.source.ListGeozones(gctx, tenant)
		in.geozones = geozones
		return translate(err, "geozones")
	})
	g.Go(func() error {
		voters, err := s.budgetPollVoters(gctx, tenant, budget.ID)
		in.pollVoters = voters
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	users, err := s.loadUsers(ctx, tenant, budgetParticipants(in).ids())
	if err != nil {
		return nil, err
	}
	in.users = users
	return in, nil
}

// budgetPollVoters returns the canonical voters of every poll that carries
// the budget's booth ballots.
func (s *Service) budgetPollVoters(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Voter, error) {
	polls, err := s.source.PollsForBudget(ctx, tenant, budget)
	if err != nil {
		return nil, translate(err, "budget polls")
	}
	var out []participation.Voter
	for _, p := range polls {
		voters, err := s.source.ListVoters(ctx, tenant, p.ID)
		if err != nil {
			return nil, translate(err, "voters")
		}
		out = append(out, canonicalVoters(voters)...)
	}
	return out, nil
}

func (s *Service) loadUsers(ctx context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]catalog.User, error) {
	if len(ids) == 0 {
		return map[id.UserID]catalog.User{}, nil
	}
	users, err := s.source.UsersByID(ctx, tenant, ids)
	if err != nil {
		return nil, translate(err, "users")
	}
	return users, nil
}
