// Package memory keeps audit events in process for tests and the
// database-less server mode.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	id "tally/pkg/domain"
	audit "tally/pkg/platform/audit"
)

// InMemoryStore mirrors the outbox store: Append derives the category from
// the action and stamps missing timestamps, and events list in append order.
type InMemoryStore struct {
	mu       sync.RWMutex
	byTenant map[id.TenantID][]audit.Event
	now      func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byTenant: make(map[id.TenantID][]audit.Event),
		now:      time.Now,
	}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	event.Category = audit.AuditEvent(event.Action).Category()
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.Details = cloneDetails(event.Details)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.byTenant[event.TenantID] = append(s.byTenant[event.TenantID], event)
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.byTenant[tenantID]), nil
}

func cloneDetails(d map[string]string) map[string]string {
	if d == nil {
		return nil
	}
	out := make(map[string]string, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
