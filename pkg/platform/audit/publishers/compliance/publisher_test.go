package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
	audit "tally/pkg/platform/audit"
	auditmemory "tally/pkg/platform/audit/store/memory"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error {
	return errors.New("outbox unavailable")
}

func (failingStore) ListByTenant(context.Context, id.TenantID) ([]audit.Event, error) {
	return nil, nil
}

type PublisherSuite struct {
	suite.Suite
	store  *auditmemory.InMemoryStore
	tenant id.TenantID
	now    time.Time
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = auditmemory.NewInMemoryStore()
	s.tenant = id.TenantID(uuid.New())
	s.now = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
}

func (s *PublisherSuite) TestEmit() {
	s.Run("persists with compliance category and clock timestamp", func() {
		p := New(s.store, WithClock(func() time.Time { return s.now }))
		err := p.Emit(context.Background(), audit.Event{
			TenantID: s.tenant,
			Subject:  "recount:1",
			Action:   string(audit.EventRecountRevised),
		})
		require.NoError(s.T(), err)

		events, err := s.store.ListByTenant(context.Background(), s.tenant)
		require.NoError(s.T(), err)
		require.Len(s.T(), events, 1)
		assert.Equal(s.T(), audit.CategoryCompliance, events[0].Category)
		assert.Equal(s.T(), s.now, events[0].Timestamp)
	})

	s.Run("rejects incomplete events", func() {
		p := New(s.store)
		recount := string(audit.EventRecountRevised)
		for name, e := range map[string]audit.Event{
			"no tenant":  {Subject: "recount:1", Action: recount},
			"no action":  {TenantID: s.tenant, Subject: "recount:1"},
			"no subject": {TenantID: s.tenant, Action: recount},
			"ops action": {TenantID: s.tenant, Subject: "poll:1", Action: string(audit.EventVotersDeduplicated)},
		} {
			err := p.Emit(context.Background(), e)
			assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInvalidInput), name)
		}
		events, err := s.store.ListByTenant(context.Background(), s.tenant)
		require.NoError(s.T(), err)
		assert.Empty(s.T(), events)
	})

	s.Run("fails closed when the store fails", func() {
		p := New(failingStore{})
		err := p.Emit(context.Background(), audit.Event{
			TenantID: s.tenant,
			Subject:  "shift:1",
			Action:   string(audit.EventShiftApplied),
		})
		require.Error(s.T(), err)
		assert.True(s.T(), dErrors.HasCode(err, dErrors.CodeInternal))
		assert.ErrorContains(s.T(), err, "outbox unavailable")
	})
}
