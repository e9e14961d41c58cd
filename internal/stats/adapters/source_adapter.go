package adapters

import (
	"context"
	"fmt"

	catalog "tally/internal/catalog/models"
	ledger "tally/internal/ledger/models"
	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
)

// Catalog reads the reference records a report needs.
type Catalog interface {
	FindPoll(ctx context.Context, tenant id.TenantID, poll id.PollID) (*catalog.Poll, error)
	PollsForBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Poll, error)
	FindBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) (*catalog.Budget, error)
	ListHeadings(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Heading, error)
	ListGeozones(ctx context.Context, tenant id.TenantID) ([]catalog.Geozone, error)
	UsersByID(ctx context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]catalog.User, error)
}

// Participation reads the records written by the voting channels.
type Participation interface {
	ListVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]participation.Voter, error)
	ListInvestments(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Investment, error)
	ListSupports(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Support, error)
	ListBallotLines(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.BallotLine, error)
}

type Recounts interface {
	ListRecounts(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]*ledger.Recount, error)
}

// SourceAdapter joins the catalog, participation and ledger stores into the
// single source the statistics service reads from.
type SourceAdapter struct {
	catalog       Catalog
	participation Participation
	recounts      Recounts
}

func NewSourceAdapter(c Catalog, p Participation, r Recounts) *SourceAdapter {
	return &SourceAdapter{catalog: c, participation: p, recounts: r}
}

func (a *SourceAdapter) FindPoll(ctx context.Context, tenant id.TenantID, poll id.PollID) (*catalog.Poll, error) {
	p, err := a.catalog.FindPoll(ctx, tenant, poll)
	if err != nil {
		return nil, fmt.Errorf("find poll: %w", err)
	}
	return p, nil
}

func (a *SourceAdapter) PollsForBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Poll, error) {
	polls, err := a.catalog.PollsForBudget(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("list budget polls: %w", err)
	}
	return polls, nil
}

func (a *SourceAdapter) FindBudget(ctx context.Context, tenant id.TenantID, budget id.BudgetID) (*catalog.Budget, error) {
	b, err := a.catalog.FindBudget(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("find budget: %w", err)
	}
	return b, nil
}

func (a *SourceAdapter) ListHeadings(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]catalog.Heading, error) {
	headings, err := a.catalog.ListHeadings(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("list headings: %w", err)
	}
	return headings, nil
}

func (a *SourceAdapter) ListGeozones(ctx context.Context, tenant id.TenantID) ([]catalog.Geozone, error) {
	geozones, err := a.catalog.ListGeozones(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("list geozones: %w", err)
	}
	return geozones, nil
}

func (a *SourceAdapter) UsersByID(ctx context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]catalog.User, error) {
	users, err := a.catalog.UsersByID(ctx, tenant, ids)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	return users, nil
}

func (a *SourceAdapter) ListVoters(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]participation.Voter, error) {
	voters, err := a.participation.ListVoters(ctx, tenant, poll)
	if err != nil {
		return nil, fmt.Errorf("list voters: %w", err)
	}
	return voters, nil
}

func (a *SourceAdapter) ListRecounts(ctx context.Context, tenant id.TenantID, poll id.PollID) ([]*ledger.Recount, error) {
	recounts, err := a.recounts.ListRecounts(ctx, tenant, poll)
	if err != nil {
		return nil, fmt.Errorf("list recounts: %w", err)
	}
	return recounts, nil
}

func (a *SourceAdapter) ListInvestments(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Investment, error) {
	investments, err := a.participation.ListInvestments(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("list investments: %w", err)
	}
	return investments, nil
}

func (a *SourceAdapter) ListSupports(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.Support, error) {
	supports, err := a.participation.ListSupports(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("list supports: %w", err)
	}
	return supports, nil
}

func (a *SourceAdapter) ListBallotLines(ctx context.Context, tenant id.TenantID, budget id.BudgetID) ([]participation.BallotLine, error) {
	lines, err := a.participation.ListBallotLines(ctx, tenant, budget)
	if err != nil {
		return nil, fmt.Errorf("list ballot lines: %w", err)
	}
	return lines, nil
}
