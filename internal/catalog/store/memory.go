package store

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"tally/internal/catalog/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory catalog, used by tests and by
// single-process deployments seeded from fixtures.
type InMemory struct {
	mu               sync.RWMutex
	tenants          map[id.TenantID]struct{}
	polls            map[id.PollID]models.Poll
	booths           map[id.BoothID]models.Booth
	boothAssignments map[id.BoothAssignmentID]models.BoothAssignment
	officers         map[id.OfficerID]models.Officer
	users            map[id.UserID]models.User
	geozones         map[id.GeozoneID]models.Geozone
	budgets          map[id.BudgetID]models.Budget
	headings         map[id.HeadingID]models.Heading
}

func NewInMemory() *InMemory {
	return &InMemory{
		tenants:          make(map[id.TenantID]struct{}),
		polls:            make(map[id.PollID]models.Poll),
		booths:           make(map[id.BoothID]models.Booth),
		boothAssignments: make(map[id.BoothAssignmentID]models.BoothAssignment),
		officers:         make(map[id.OfficerID]models.Officer),
		users:            make(map[id.UserID]models.User),
		geozones:         make(map[id.GeozoneID]models.Geozone),
		budgets:          make(map[id.BudgetID]models.Budget),
		headings:         make(map[id.HeadingID]models.Heading),
	}
}

func (s *InMemory) PutTenant(tenant id.TenantID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[tenant] = struct{}{}
}

func (s *InMemory) PutPoll(p models.Poll) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[p.TenantID] = struct{}{}
	s.polls[p.ID] = p
}

func (s *InMemory) PutBooth(b models.Booth) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.booths[b.ID] = b
}

func (s *InMemory) PutBoothAssignment(ba models.BoothAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boothAssignments[ba.ID] = ba
}

func (s *InMemory) PutOfficer(o models.Officer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.officers[o.ID] = o
}

func (s *InMemory) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

func (s *InMemory) PutGeozone(g models.Geozone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.geozones[g.ID] = g
}

func (s *InMemory) PutBudget(b models.Budget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[b.TenantID] = struct{}{}
	s.budgets[b.ID] = b
}

func (s *InMemory) PutHeading(h models.Heading) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.headings[h.ID] = h
}

// DeleteOfficer removes the officer record. Snapshots taken on shifts and
// assignments survive.
func (s *InMemory) DeleteOfficer(tenant id.TenantID, officer id.OfficerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.officers[officer]; ok && o.TenantID == tenant {
		delete(s.officers, officer)
	}
}

func (s *InMemory) ListTenants(_ context.Context) ([]id.TenantID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]id.TenantID, 0, len(s.tenants))
	for t := range s.tenants {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out, nil
}

func (s *InMemory) FindPoll(_ context.Context, tenant id.TenantID, poll id.PollID) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.polls[poll]
	if !ok || p.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemory) PollsForBudget(_ context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Poll
	for _, p := range s.polls {
		if p.TenantID == tenant && p.BudgetID != nil && *p.BudgetID == budget {
			out = append(out, p)
		}
	}
	sortBy(out, func(p models.Poll) uuid.UUID { return uuid.UUID(p.ID) })
	return out, nil
}

func (s *InMemory) PollsAtBooth(_ context.Context, tenant id.TenantID, booth id.BoothID) ([]models.BoothPoll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BoothPoll
	for _, ba := range s.boothAssignments {
		if ba.TenantID != tenant || ba.BoothID != booth {
			continue
		}
		p, ok := s.polls[ba.PollID]
		if !ok || p.TenantID != tenant {
			continue
		}
		out = append(out, models.BoothPoll{Assignment: ba, Poll: p})
	}
	sortBy(out, func(bp models.BoothPoll) uuid.UUID { return uuid.UUID(bp.Assignment.ID) })
	return out, nil
}

func (s *InMemory) FindBoothAssignment(_ context.Context, tenant id.TenantID, ba id.BoothAssignmentID) (*models.BoothAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.boothAssignments[ba]
	if !ok || a.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemory) ListBoothAssignments(_ context.Context, tenant id.TenantID, poll id.PollID) ([]models.BoothAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.BoothAssignment
	for _, a := range s.boothAssignments {
		if a.TenantID == tenant && a.PollID == poll {
			out = append(out, a)
		}
	}
	sortBy(out, func(a models.BoothAssignment) uuid.UUID { return uuid.UUID(a.ID) })
	return out, nil
}

func (s *InMemory) FindOfficer(_ context.Context, tenant id.TenantID, officer id.OfficerID) (*models.Officer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.officers[officer]
	if !ok || o.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	return &o, nil
}

func (s *InMemory) UsersByID(_ context.Context, tenant id.TenantID, ids []id.UserID) (map[id.UserID]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.UserID]models.User, len(ids))
	for _, uid := range ids {
		if u, ok := s.users[uid]; ok && u.TenantID == tenant {
			out[uid] = u
		}
	}
	return out, nil
}

func (s *InMemory) ListGeozones(_ context.Context, tenant id.TenantID) ([]models.Geozone, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Geozone
	for _, g := range s.geozones {
		if g.TenantID == tenant {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) FindBudget(_ context.Context, tenant id.TenantID, budget id.BudgetID) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.budgets[budget]
	if !ok || b.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	return &b, nil
}

func (s *InMemory) ListHeadings(_ context.Context, tenant id.TenantID, budget id.BudgetID) ([]models.Heading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Heading
	for _, h := range s.headings {
		if h.TenantID == tenant && h.BudgetID == budget {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// sortBy orders records by id so map iteration never leaks into results.
func sortBy[T any](items []T, key func(T) uuid.UUID) {
	slices.SortFunc(items, func(a, b T) int {
		ka, kb := key(a), key(b)
		return slices.Compare(ka[:], kb[:])
	})
}
