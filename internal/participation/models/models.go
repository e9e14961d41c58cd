// Package models holds the raw participation records written by the voting
// channels: voters, answers and budget supports and ballots.
package models

import (
	"time"

	"github.com/google/uuid"

	id "tally/pkg/domain"
)

// Voter records that a user voted in a poll through one channel. Duplicate
// (poll, user) rows are tolerated on write and removed by deduplication.
type Voter struct {
	ID                  id.VoterID
	TenantID            id.TenantID
	PollID              id.PollID
	UserID              id.UserID
	Origin              id.Origin
	BoothAssignmentID   *id.BoothAssignmentID
	OfficerAssignmentID *id.OfficerAssignmentID
	CreatedAt           time.Time
}

// Question belongs to a poll and offers options.
type Question struct {
	ID       id.QuestionID
	TenantID id.TenantID
	PollID   id.PollID
	Options  []Option
}

// Option carries its title in each translated locale.
type Option struct {
	ID         id.OptionID
	QuestionID id.QuestionID
	Titles     map[string]string
}

// Answer is a user's response to a question. Text is always set; OptionID is
// set once the text is resolved to an option.
type Answer struct {
	ID         id.AnswerID
	TenantID   id.TenantID
	QuestionID id.QuestionID
	AuthorID   id.UserID
	Text       string
	OptionID   *id.OptionID
	CreatedAt  time.Time
}

// Scope narrows maintenance and listing to one poll or one question. The
// zero Scope covers every question of the tenant.
type Scope struct {
	PollID     *id.PollID
	QuestionID *id.QuestionID
}

func (s Scope) Covers(q Question) bool {
	if s.QuestionID != nil && *s.QuestionID != q.ID {
		return false
	}
	if s.PollID != nil && *s.PollID != q.PollID {
		return false
	}
	return true
}

type Feasibility string

const (
	FeasibilityUndecided  Feasibility = "undecided"
	FeasibilityFeasible   Feasibility = "feasible"
	FeasibilityUnfeasible Feasibility = "unfeasible"
)

// Investment is a budget project proposed under a heading.
type Investment struct {
	ID          id.InvestmentID
	TenantID    id.TenantID
	BudgetID    id.BudgetID
	HeadingID   id.HeadingID
	AuthorID    *id.UserID
	Selected    bool
	Feasibility Feasibility
}

// Support is a user's direct vote for an investment during selection.
type Support struct {
	TenantID     id.TenantID
	InvestmentID id.InvestmentID
	HeadingID    id.HeadingID
	UserID       id.UserID
}

// BallotLine is one investment on a user's final ballot.
type BallotLine struct {
	ID           uuid.UUID
	TenantID     id.TenantID
	BudgetID     id.BudgetID
	HeadingID    id.HeadingID
	InvestmentID id.InvestmentID
	UserID       id.UserID
}
