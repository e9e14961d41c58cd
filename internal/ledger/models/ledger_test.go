package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "tally/pkg/domain"
)

func TestAmountLog(t *testing.T) {
	t.Run("three saves log the prior values oldest first", func(t *testing.T) {
		var a Amount
		for _, v := range []int{33, 32, 34} {
			a.Revise(v)
		}
		assert.Equal(t, Log(":0:33:32"), a.Log)
		assert.Equal(t, 34, a.Value)
		assert.Equal(t, []int{0, 33, 32}, a.Log.Ints())
	})

	t.Run("unchanged value leaves the log alone", func(t *testing.T) {
		a := Amount{Value: 5}
		assert.False(t, a.Revise(5))
		assert.Equal(t, Log(""), a.Log)
	})

	t.Run("empty log has no entries", func(t *testing.T) {
		assert.Empty(t, Log("").Entries())
	})
}

func TestReviseRecount(t *testing.T) {
	first := id.OfficerAssignmentID(uuid.New())
	second := id.OfficerAssignmentID(uuid.New())
	third := id.OfficerAssignmentID(uuid.New())
	fourth := id.OfficerAssignmentID(uuid.New())
	author := id.UserID(uuid.New())

	r := &Recount{Attribution: Attribution{AssignmentID: first, AuthorID: author}}

	changed := Revise(r, &r.Attribution, []Change[Recount]{{Field: RecountWhite, Value: 33}}, second, author)
	require.Equal(t, []string{"white_amount"}, changed)
	Revise(r, &r.Attribution, []Change[Recount]{{Field: RecountWhite, Value: 32}}, third, author)
	Revise(r, &r.Attribution, []Change[Recount]{{Field: RecountWhite, Value: 34}}, fourth, author)

	assert.Equal(t, Log(":0:33:32"), r.White.Log)
	assert.Equal(t, Log(":"+first.String()+":"+second.String()+":"+third.String()), r.Attribution.AssignmentLog)
	assert.Equal(t, fourth, r.Attribution.AssignmentID)
	assert.Equal(t, Log(""), r.Total.Log)
	assert.Equal(t, Log(""), r.Null.Log)

	t.Run("attribution-only change is not logged", func(t *testing.T) {
		before := r.Attribution.AssignmentLog
		changed := Revise(r, &r.Attribution, []Change[Recount]{{Field: RecountWhite, Value: 34}}, first, author)
		assert.Empty(t, changed)
		assert.Equal(t, before, r.Attribution.AssignmentLog)
		assert.Equal(t, first, r.Attribution.AssignmentID)
	})

	t.Run("one save changing several fields logs attribution once", func(t *testing.T) {
		authorsBefore := len(r.Attribution.AuthorLog.Entries())
		changed := Revise(r, &r.Attribution, []Change[Recount]{
			{Field: RecountTotal, Value: 10},
			{Field: RecountNull, Value: 2},
		}, first, author)
		assert.Equal(t, []string{"total_amount", "null_amount"}, changed)
		assert.Len(t, r.Attribution.AuthorLog.Entries(), authorsBefore+1)
	})
}

func TestFirstSaveLogsEmptyAttribution(t *testing.T) {
	pr := &PartialResult{}
	assignment := id.OfficerAssignmentID(uuid.New())
	Revise(pr, &pr.Attribution, []Change[PartialResult]{{Field: PartialResultAmount, Value: 7}}, assignment, id.UserID{})

	assert.Equal(t, Log(":0"), pr.Amount.Log)
	assert.Equal(t, Log(":"), pr.Attribution.AssignmentLog)
	assert.Equal(t, []string{""}, pr.Attribution.AssignmentLog.Entries())

	h := pr.History()
	require.Len(t, h.Fields, 1)
	assert.Equal(t, 7, h.Fields[0].Current)
	assert.Equal(t, []int{0}, h.Fields[0].Previous)
}

func TestRecountOrigin(t *testing.T) {
	assert.NoError(t, RecountOrigin(id.OriginBooth))
	assert.NoError(t, RecountOrigin(id.OriginLetter))
	assert.Error(t, RecountOrigin(id.OriginWeb))
}
