package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalog "tally/internal/catalog/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

const week = 7 * 24 * time.Hour

func fixture() (Shift, []catalog.BoothPoll) {
	booth := id.BoothID(uuid.New())
	open := catalog.Poll{
		ID:       id.PollID(uuid.New()),
		StartsAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 6, 5, 20, 0, 0, 0, time.UTC),
	}
	past := catalog.Poll{
		ID:       id.PollID(uuid.New()),
		StartsAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 5, 30, 20, 0, 0, 0, time.UTC),
	}
	polls := []catalog.BoothPoll{
		{Assignment: catalog.BoothAssignment{ID: id.BoothAssignmentID(uuid.New()), BoothID: booth, PollID: open.ID}, Poll: open},
		{Assignment: catalog.BoothAssignment{ID: id.BoothAssignmentID(uuid.New()), BoothID: booth, PollID: past.ID}, Poll: past},
	}
	shift := Shift{
		TenantID:  id.TenantID(uuid.New()),
		BoothID:   booth,
		OfficerID: id.OfficerID(uuid.New()),
		Date:      time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		Task:      TaskVoteCollection,
	}
	return shift, polls
}

func TestDerive(t *testing.T) {
	t.Run("vote collection covers polls open on the date", func(t *testing.T) {
		shift, polls := fixture()
		keys := Derive(shift, polls, week)
		require.Len(t, keys, 1)
		assert.Equal(t, polls[0].Assignment.ID, keys[0].BoothAssignmentID)
		assert.False(t, keys[0].Final)
	})

	t.Run("recount scrutiny covers the recount window", func(t *testing.T) {
		shift, polls := fixture()
		shift.Task = TaskRecountScrutiny
		shift.Date = time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC)
		keys := Derive(shift, polls, week)
		require.Len(t, keys, 1, "the open poll's window starts on 5 June")
		assert.Equal(t, polls[1].Assignment.ID, keys[0].BoothAssignmentID)
		assert.True(t, keys[0].Final)
	})

	t.Run("window overlapping both polls yields both", func(t *testing.T) {
		shift, polls := fixture()
		shift.Task = TaskRecountScrutiny
		shift.Date = time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
		keys := Derive(shift, polls, week)
		assert.Len(t, keys, 2)
	})

	t.Run("assignments at other booths are ignored", func(t *testing.T) {
		shift, polls := fixture()
		shift.BoothID = id.BoothID(uuid.New())
		assert.Empty(t, Derive(shift, polls, week))
	})
}

func TestShiftValidate(t *testing.T) {
	shift, _ := fixture()
	shift.Date = time.Date(2026, 6, 3, 15, 30, 0, 0, time.UTC)
	require.NoError(t, shift.Validate())
	assert.Equal(t, time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC), shift.Date)

	missing := []func(*Shift){
		func(s *Shift) { s.BoothID = id.BoothID{} },
		func(s *Shift) { s.OfficerID = id.OfficerID{} },
		func(s *Shift) { s.Date = time.Time{} },
		func(s *Shift) { s.Task = "nap" },
	}
	for _, mutate := range missing {
		s, _ := fixture()
		mutate(&s)
		assert.True(t, dErrors.HasCode(s.Validate(), dErrors.CodeValidation))
	}
}
