package models

import (
	"strings"
	"time"

	catalog "tally/internal/catalog/models"
	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

// Task is what an officer does during a shift.
type Task string

const (
	TaskVoteCollection  Task = "vote_collection"
	TaskRecountScrutiny Task = "recount_scrutiny"
)

func ParseTask(s string) (Task, error) {
	t := Task(strings.TrimSpace(s))
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "task must be vote_collection or recount_scrutiny")
	}
	return t, nil
}

func (t Task) IsValid() bool {
	return t == TaskVoteCollection || t == TaskRecountScrutiny
}

// Final reports whether assignments derived from this task may author
// authoritative recounts.
func (t Task) Final() bool {
	return t == TaskRecountScrutiny
}

// Shift declares that an officer staffs a booth on a date for a task. It is
// unique per (booth, officer, date, task) and owns the assignments derived
// from it.
type Shift struct {
	ID        id.ShiftID
	TenantID  id.TenantID
	BoothID   id.BoothID
	OfficerID id.OfficerID
	Date      time.Time
	Task      Task
	// Officer name and email as they were when the shift was applied.
	OfficerName  string
	OfficerEmail string
	CreatedAt    time.Time
}

// Validate checks the fields every shift needs. Date is normalised to a
// calendar date.
func (s *Shift) Validate() error {
	switch {
	case s.TenantID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "tenant is required")
	case s.BoothID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "booth is required")
	case s.OfficerID.IsNil():
		return dErrors.New(dErrors.CodeValidation, "officer is required")
	case s.Date.IsZero():
		return dErrors.New(dErrors.CodeValidation, "date is required")
	case !s.Task.IsValid():
		return dErrors.New(dErrors.CodeValidation, "task must be vote_collection or recount_scrutiny")
	}
	s.Date = id.DateOf(s.Date)
	return nil
}

// SameTuple reports whether two shifts declare the same booth, officer, date and task.
func (s Shift) SameTuple(other Shift) bool {
	return s.BoothID == other.BoothID &&
		s.OfficerID == other.OfficerID &&
		id.DateOf(s.Date).Equal(id.DateOf(other.Date)) &&
		s.Task == other.Task
}

// OfficerAssignment is derived from exactly one shift and is the record
// recounts and booth voters are attributed to.
type OfficerAssignment struct {
	ID                id.OfficerAssignmentID
	TenantID          id.TenantID
	OfficerID         id.OfficerID
	BoothAssignmentID id.BoothAssignmentID
	Date              time.Time
	Final             bool
	OfficerName       string
	OfficerEmail      string
	ShiftID           id.ShiftID
	CreatedAt         time.Time
}

func (a OfficerAssignment) Key() AssignmentKey {
	return AssignmentKey{
		OfficerID:         a.OfficerID,
		BoothAssignmentID: a.BoothAssignmentID,
		Date:              id.DateOf(a.Date),
		Final:             a.Final,
	}
}

// AssignmentKey identifies equivalent assignments.
type AssignmentKey struct {
	OfficerID         id.OfficerID
	BoothAssignmentID id.BoothAssignmentID
	Date              time.Time
	Final             bool
}

// Derive lists the assignment keys a shift produces given the polls at its
// booth. Vote collection covers polls open on the date; recount scrutiny
// covers polls whose recount window includes it.
func Derive(shift Shift, boothPolls []catalog.BoothPoll, recountDuration time.Duration) []AssignmentKey {
	var keys []AssignmentKey
	for _, bp := range boothPolls {
		if bp.Assignment.BoothID != shift.BoothID {
			continue
		}
		var covered bool
		switch shift.Task {
		case TaskVoteCollection:
			covered = bp.Poll.OpenOn(shift.Date)
		case TaskRecountScrutiny:
			covered = bp.Poll.RecountWindowCovers(shift.Date, recountDuration)
		}
		if !covered {
			continue
		}
		keys = append(keys, AssignmentKey{
			OfficerID:         shift.OfficerID,
			BoothAssignmentID: bp.Assignment.ID,
			Date:              id.DateOf(shift.Date),
			Final:             shift.Task.Final(),
		})
	}
	return keys
}
