package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"tally/internal/ledger/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
)

type recountSlot struct {
	tenant id.TenantID
	ba     id.BoothAssignmentID
	date   time.Time
}

type resultSlot struct {
	tenant   id.TenantID
	ba       id.BoothAssignmentID
	question id.QuestionID
	answer   string
	date     time.Time
}

// InMemory stores recounts and partial results. Callers serialize writes per
// poll; the mutex only protects the maps.
type InMemory struct {
	mu           sync.RWMutex
	recounts     map[id.RecountID]*models.Recount
	recountSlots map[recountSlot]id.RecountID
	results      map[id.PartialResultID]*models.PartialResult
	resultSlots  map[resultSlot]id.PartialResultID
}

func NewInMemory() *InMemory {
	return &InMemory{
		recounts:     make(map[id.RecountID]*models.Recount),
		recountSlots: make(map[recountSlot]id.RecountID),
		results:      make(map[id.PartialResultID]*models.PartialResult),
		resultSlots:  make(map[resultSlot]id.PartialResultID),
	}
}

func (s *InMemory) FindRecount(_ context.Context, tenant id.TenantID, recount id.RecountID) (*models.Recount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.recounts[recount]
	if !ok || r.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *InMemory) FindRecountBySlot(_ context.Context, tenant id.TenantID, ba id.BoothAssignmentID, date time.Time) (*models.Recount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rid, ok := s.recountSlots[recountSlot{tenant: tenant, ba: ba, date: id.DateOf(date)}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.recounts[rid]
	return &cp, nil
}

// SaveRecount inserts or replaces the recount.
func (s *InMemory) SaveRecount(_ context.Context, r *models.Recount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := recountSlot{tenant: r.TenantID, ba: r.BoothAssignmentID, date: id.DateOf(r.Date)}
	if existing, ok := s.recountSlots[slot]; ok && existing != r.ID {
		return sentinel.ErrConflict
	}
	cp := *r
	s.recounts[r.ID] = &cp
	s.recountSlots[slot] = r.ID
	return nil
}

func (s *InMemory) ListRecounts(_ context.Context, tenant id.TenantID, poll id.PollID) ([]*models.Recount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Recount
	for _, r := range s.recounts {
		if r.TenantID == tenant && r.PollID == poll {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) FindPartialResult(_ context.Context, tenant id.TenantID, pr id.PartialResultID) (*models.PartialResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.results[pr]
	if !ok || p.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *InMemory) FindPartialResultBySlot(_ context.Context, tenant id.TenantID, ba id.BoothAssignmentID, question id.QuestionID, answer string, date time.Time) (*models.PartialResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pid, ok := s.resultSlots[resultSlot{tenant: tenant, ba: ba, question: question, answer: answer, date: id.DateOf(date)}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.results[pid]
	return &cp, nil
}

func (s *InMemory) SavePartialResult(_ context.Context, p *models.PartialResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := resultSlot{tenant: p.TenantID, ba: p.BoothAssignmentID, question: p.QuestionID, answer: p.Answer, date: id.DateOf(p.Date)}
	if existing, ok := s.resultSlots[slot]; ok && existing != p.ID {
		return sentinel.ErrConflict
	}
	cp := *p
	s.results[p.ID] = &cp
	s.resultSlots[slot] = p.ID
	return nil
}

func (s *InMemory) ListPartialResults(_ context.Context, tenant id.TenantID, poll id.PollID) ([]*models.PartialResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.PartialResult
	for _, p := range s.results {
		if p.TenantID == tenant && p.PollID == poll {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// CountAttributed counts records currently attributed to any of the given
// assignments.
func (s *InMemory) CountAttributed(_ context.Context, tenant id.TenantID, assignments []id.OfficerAssignmentID) (int, error) {
	set := make(map[id.OfficerAssignmentID]struct{}, len(assignments))
	for _, a := range assignments {
		set[a] = struct{}{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.recounts {
		if _, ok := set[r.Attribution.AssignmentID]; ok && r.TenantID == tenant {
			n++
		}
	}
	for _, p := range s.results {
		if _, ok := set[p.Attribution.AssignmentID]; ok && p.TenantID == tenant {
			n++
		}
	}
	return n, nil
}
