package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tally/internal/participation/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
)

// InMemory keeps participation records per tenant.
type InMemory struct {
	mu          sync.RWMutex
	voters      map[id.VoterID]*models.Voter
	questions   map[id.QuestionID]*models.Question
	answers     map[id.AnswerID]*models.Answer
	investments map[id.InvestmentID]*models.Investment
	supports    []models.Support
	ballotLines []models.BallotLine
}

func NewInMemory() *InMemory {
	return &InMemory{
		voters:      make(map[id.VoterID]*models.Voter),
		questions:   make(map[id.QuestionID]*models.Question),
		answers:     make(map[id.AnswerID]*models.Answer),
		investments: make(map[id.InvestmentID]*models.Investment),
	}
}

func (s *InMemory) AddVoter(_ context.Context, v *models.Voter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.voters[v.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *v
	s.voters[v.ID] = &cp
	return nil
}

// ListVoters returns the poll's voters ordered by creation time, then id.
func (s *InMemory) ListVoters(_ context.Context, tenant id.TenantID, poll id.PollID) ([]models.Voter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Voter
	for _, v := range s.voters {
		if v.TenantID == tenant && v.PollID == poll {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// VoterPolls returns the distinct polls the tenant has voters for.
func (s *InMemory) VoterPolls(_ context.Context, tenant id.TenantID) ([]id.PollID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[id.PollID]struct{})
	var out []id.PollID
	for _, v := range s.voters {
		if v.TenantID != tenant {
			continue
		}
		if _, ok := seen[v.PollID]; !ok {
			seen[v.PollID] = struct{}{}
			out = append(out, v.PollID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

// DeleteVoters removes the listed voters of tenant and returns how many
// existed.
func (s *InMemory) DeleteVoters(_ context.Context, tenant id.TenantID, ids []id.VoterID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, vid := range ids {
		if v, ok := s.voters[vid]; ok && v.TenantID == tenant {
			delete(s.voters, vid)
			n++
		}
	}
	return n, nil
}

func (s *InMemory) CountVotersByAssignments(_ context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error) {
	set := make(map[id.OfficerAssignmentID]struct{}, len(assignments))
	for _, a := range assignments {
		set[a] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, v := range s.voters {
		if v.TenantID != tenant || v.OfficerAssignmentID == nil {
			continue
		}
		if _, ok := set[*v.OfficerAssignmentID]; ok {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) AddQuestion(_ context.Context, q *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *q
	cp.Options = cloneOptions(q.Options)
	s.questions[q.ID] = &cp
	return nil
}

// ListQuestions returns the tenant's questions in scope with their options.
func (s *InMemory) ListQuestions(_ context.Context, tenant id.TenantID, scope models.Scope) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Question
	for _, q := range s.questions {
		if q.TenantID == tenant && scope.Covers(*q) {
			cp := *q
			cp.Options = cloneOptions(q.Options)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func cloneOptions(opts []models.Option) []models.Option {
	out := make([]models.Option, len(opts))
	for i, o := range opts {
		titles := make(map[string]string, len(o.Titles))
		for k, v := range o.Titles {
			titles[k] = v
		}
		out[i] = models.Option{ID: o.ID, QuestionID: o.QuestionID, Titles: titles}
	}
	return out
}

func (s *InMemory) AddAnswer(_ context.Context, a *models.Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.answers[a.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *a
	s.answers[a.ID] = &cp
	return nil
}

// ListAnswers returns answers to the given questions ordered by creation
// time, then id.
func (s *InMemory) ListAnswers(_ context.Context, tenant id.TenantID, questions []id.QuestionID) ([]models.Answer, error) {
	want := make(map[id.QuestionID]struct{}, len(questions))
	for _, q := range questions {
		want[q] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Answer
	for _, a := range s.answers {
		if _, ok := want[a.QuestionID]; ok && a.TenantID == tenant {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) DeleteAnswers(_ context.Context, tenant id.TenantID, ids []id.AnswerID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, aid := range ids {
		if a, ok := s.answers[aid]; ok && a.TenantID == tenant {
			delete(s.answers, aid)
			n++
		}
	}
	return n, nil
}

// SetAnswerOption sets the option of an answer that has none. It reports
// false when the answer is gone or was resolved concurrently.
func (s *InMemory) SetAnswerOption(_ context.Context, tenant id.TenantID, answer id.AnswerID, option id.OptionID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[answer]
	if !ok || a.TenantID != tenant || a.OptionID != nil {
		return false, nil
	}
	opt := option
	a.OptionID = &opt
	return true, nil
}

func (s *InMemory) AddInvestment(_ context.Context, inv *models.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *inv
	s.investments[inv.ID] = &cp
	return nil
}

func (s *InMemory) AddSupport(_ context.Context, sup models.Support) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[sup.InvestmentID]
	if !ok || inv.TenantID != sup.TenantID {
		return sentinel.ErrNotFound
	}
	for _, existing := range s.supports {
		if existing.TenantID == sup.TenantID && existing.InvestmentID == sup.InvestmentID && existing.UserID == sup.UserID {
			return sentinel.ErrConflict
		}
	}
	sup.HeadingID = inv.HeadingID
	s.supports = append(s.supports, sup)
	return nil
}

func (s *InMemory) AddBallotLine(_ context.Context, line models.BallotLine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if line.ID == uuid.Nil {
		line.ID = uuid.New()
	}
	s.ballotLines = append(s.ballotLines, line)
	return nil
}

func (s *InMemory) ListInvestments(_ context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Investment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Investment
	for _, inv := range s.investments {
		if inv.TenantID == tenant && inv.BudgetID == budget {
			out = append(out, *inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *InMemory) ListSupports(_ context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Support, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Support
	for _, sup := range s.supports {
		inv, ok := s.investments[sup.InvestmentID]
		if ok && sup.TenantID == tenant && inv.BudgetID == budget {
			out = append(out, sup)
		}
	}
	return out, nil
}

func (s *InMemory) ListBallotLines(_ context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.BallotLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BallotLine
	for _, line := range s.ballotLines {
		if line.TenantID == tenant && line.BudgetID == budget {
			out = append(out, line)
		}
	}
	return out, nil
}
