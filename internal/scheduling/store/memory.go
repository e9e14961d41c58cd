package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"tally/internal/scheduling/models"
	id "tally/pkg/domain"
	"tally/pkg/platform/sentinel"
)

type tupleKey struct {
	tenant  id.TenantID
	booth   id.BoothID
	officer id.OfficerID
	date    time.Time
	task    models.Task
}

type assignmentKey struct {
	tenant id.TenantID
	key    models.AssignmentKey
}

// InMemory keeps shifts, their derived assignments and the ownership index
// (shift id -> assignment ids) behind one mutex so a shift and its
// assignments appear and disappear together.
type InMemory struct {
	mu          sync.RWMutex
	shifts      map[id.ShiftID]*models.Shift
	assignments map[id.OfficerAssignmentID]*models.OfficerAssignment
	owned       map[id.ShiftID][]id.OfficerAssignmentID
	tuples      map[tupleKey]id.ShiftID
	keys        map[assignmentKey]id.OfficerAssignmentID
}

func NewInMemory() *InMemory {
	return &InMemory{
		shifts:      make(map[id.ShiftID]*models.Shift),
		assignments: make(map[id.OfficerAssignmentID]*models.OfficerAssignment),
		owned:       make(map[id.ShiftID][]id.OfficerAssignmentID),
		tuples:      make(map[tupleKey]id.ShiftID),
		keys:        make(map[assignmentKey]id.OfficerAssignmentID),
	}
}

func tupleOf(s *models.Shift) tupleKey {
	return tupleKey{
		tenant:  s.TenantID,
		booth:   s.BoothID,
		officer: s.OfficerID,
		date:    id.DateOf(s.Date),
		task:    s.Task,
	}
}

func (s *InMemory) FindShift(_ context.Context, tenant id.TenantID, shiftID id.ShiftID) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shifts[shiftID]
	if !ok || sh.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	cp := *sh
	return &cp, nil
}

func (s *InMemory) FindShiftByTuple(_ context.Context, shift models.Shift) (*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shiftID, ok := s.tuples[tupleOf(&shift)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.shifts[shiftID]
	return &cp, nil
}

func (s *InMemory) AssignmentExists(_ context.Context, tenant id.TenantID, key models.AssignmentKey) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[assignmentKey{tenant: tenant, key: key}]
	return ok, nil
}

// CreateShift stores the shift with its assignments. It fails with
// sentinel.ErrConflict, storing nothing, when the shift id or tuple is taken
// or an assignment key already exists.
func (s *InMemory) CreateShift(_ context.Context, shift *models.Shift, assignments []*models.OfficerAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[shift.ID]; ok {
		return fmt.Errorf("shift %s: %w", shift.ID, sentinel.ErrConflict)
	}
	tk := tupleOf(shift)
	if _, ok := s.tuples[tk]; ok {
		return fmt.Errorf("shift tuple: %w", sentinel.ErrConflict)
	}
	for _, a := range assignments {
		if _, ok := s.keys[assignmentKey{tenant: a.TenantID, key: a.Key()}]; ok {
			return fmt.Errorf("officer assignment: %w", sentinel.ErrConflict)
		}
	}

	cp := *shift
	s.shifts[shift.ID] = &cp
	s.tuples[tk] = shift.ID
	ids := make([]id.OfficerAssignmentID, 0, len(assignments))
	for _, a := range assignments {
		ac := *a
		s.assignments[a.ID] = &ac
		s.keys[assignmentKey{tenant: a.TenantID, key: a.Key()}] = a.ID
		ids = append(ids, a.ID)
	}
	s.owned[shift.ID] = ids
	return nil
}

func (s *InMemory) AssignmentsOwnedBy(_ context.Context, tenant id.TenantID, shiftID id.ShiftID) ([]*models.OfficerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.shifts[shiftID]
	if !ok || sh.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	out := make([]*models.OfficerAssignment, 0, len(s.owned[shiftID]))
	for _, aid := range s.owned[shiftID] {
		cp := *s.assignments[aid]
		out = append(out, &cp)
	}
	return out, nil
}

// DeleteShift removes the shift and exactly the assignments it owns.
func (s *InMemory) DeleteShift(_ context.Context, tenant id.TenantID, shiftID id.ShiftID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shifts[shiftID]
	if !ok || sh.TenantID != tenant {
		return 0, sentinel.ErrNotFound
	}
	removed := 0
	for _, aid := range s.owned[shiftID] {
		a := s.assignments[aid]
		delete(s.keys, assignmentKey{tenant: a.TenantID, key: a.Key()})
		delete(s.assignments, aid)
		removed++
	}
	delete(s.owned, shiftID)
	delete(s.tuples, tupleOf(sh))
	delete(s.shifts, shiftID)
	return removed, nil
}

func (s *InMemory) FindAssignment(_ context.Context, tenant id.TenantID, assignment id.OfficerAssignmentID) (*models.OfficerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[assignment]
	if !ok || a.TenantID != tenant {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *InMemory) ListAssignments(_ context.Context, tenant id.TenantID, officer id.OfficerID) ([]*models.OfficerAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.OfficerAssignment
	for _, a := range s.assignments {
		if a.TenantID == tenant && a.OfficerID == officer {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (s *InMemory) ShiftsForBooth(_ context.Context, tenant id.TenantID, booth id.BoothID) ([]*models.Shift, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Shift
	for _, sh := range s.shifts {
		if sh.TenantID == tenant && sh.BoothID == booth {
			cp := *sh
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

// CountAssignments returns the number of stored assignments in a tenant.
func (s *InMemory) CountAssignments(tenant id.TenantID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, a := range s.assignments {
		if a.TenantID == tenant {
			n++
		}
	}
	return n
}
