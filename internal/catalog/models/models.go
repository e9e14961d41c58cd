// Package models holds the reference records the engine reads but never
// writes on its own: polls, booths, officers, users, geozones and budgets.
// The surrounding application owns their lifecycle.
package models

import (
	"time"

	id "tally/pkg/domain"
)

// Poll is a voting event open from StartsAt to EndsAt.
type Poll struct {
	ID       id.PollID
	TenantID id.TenantID
	Name     string
	StartsAt time.Time
	EndsAt   time.Time
	// BudgetID links the poll that carries a budget's booth ballots.
	BudgetID *id.BudgetID
}

// OpenOn reports whether the poll accepts votes on the given calendar date.
func (p Poll) OpenOn(date time.Time) bool {
	d := id.DateOf(date)
	return !d.Before(id.DateOf(p.StartsAt)) && !d.After(id.DateOf(p.EndsAt))
}

// RecountWindowCovers reports whether date falls between the poll's last day
// and recountDuration after it, inclusive.
func (p Poll) RecountWindowCovers(date time.Time, recountDuration time.Duration) bool {
	offset := id.DaysBetween(p.EndsAt, date)
	return offset >= 0 && offset <= id.DaysBetween(p.EndsAt, p.EndsAt.Add(recountDuration))
}

type Booth struct {
	ID       id.BoothID
	TenantID id.TenantID
	Name     string
}

// BoothAssignment links a poll to a booth.
type BoothAssignment struct {
	ID       id.BoothAssignmentID
	TenantID id.TenantID
	PollID   id.PollID
	BoothID  id.BoothID
}

// BoothPoll is a booth assignment joined with its poll.
type BoothPoll struct {
	Assignment BoothAssignment
	Poll       Poll
}

// Officer is a person who can staff a booth.
type Officer struct {
	ID       id.OfficerID
	TenantID id.TenantID
	UserID   *id.UserID
	Name     string
	Email    string
}

// Gender values recognised by the statistics breakdown. An empty Gender
// means the user never supplied one.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User is the demographic view of a participant. Hidden users are
// soft-deleted but still count as participants.
type User struct {
	ID          id.UserID
	TenantID    id.TenantID
	Gender      string
	DateOfBirth *time.Time
	GeozoneID   *id.GeozoneID
	Hidden      bool
}

// AgeOn returns the user's age in whole years at ref, or false when the
// date of birth is unknown.
func (u User) AgeOn(ref time.Time) (int, bool) {
	if u.DateOfBirth == nil {
		return 0, false
	}
	dob := u.DateOfBirth.UTC()
	ref = ref.UTC()
	age := ref.Year() - dob.Year()
	if ref.Month() < dob.Month() || (ref.Month() == dob.Month() && ref.Day() < dob.Day()) {
		age--
	}
	return age, true
}

type Geozone struct {
	ID       id.GeozoneID
	TenantID id.TenantID
	Name     string
}
