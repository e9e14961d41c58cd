package domain

import (
	"github.com/google/uuid"

	dErrors "tally/pkg/domain-errors"
)

// Typed identifiers. Each entity gets its own named UUID type so the compiler
// rejects passing a PollID where a BoothID is expected.
//
// Usage: construct via the ParseXxxID functions at trust boundaries (handlers,
// CLI flags, store scans). Converting a raw uuid.UUID directly bypasses the
// nil-UUID check and is reserved for stores and tests.
type (
	TenantID            uuid.UUID
	BoothID             uuid.UUID
	PollID              uuid.UUID
	BoothAssignmentID   uuid.UUID
	OfficerID           uuid.UUID
	ShiftID             uuid.UUID
	OfficerAssignmentID uuid.UUID
	UserID              uuid.UUID
	RecountID           uuid.UUID
	PartialResultID     uuid.UUID
	VoterID             uuid.UUID
	QuestionID          uuid.UUID
	OptionID            uuid.UUID
	AnswerID            uuid.UUID
	BudgetID            uuid.UUID
	InvestmentID        uuid.UUID
	HeadingID           uuid.UUID
	GeozoneID           uuid.UUID
)

// maxIDLength rejects oversized input before handing it to uuid.Parse.
const maxIDLength = 64

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be empty")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s, "tenant_id")
	return TenantID(u), err
}

func ParseBoothID(s string) (BoothID, error) {
	u, err := parseUUID(s, "booth_id")
	return BoothID(u), err
}

func ParsePollID(s string) (PollID, error) {
	u, err := parseUUID(s, "poll_id")
	return PollID(u), err
}

func ParseBoothAssignmentID(s string) (BoothAssignmentID, error) {
	u, err := parseUUID(s, "booth_assignment_id")
	return BoothAssignmentID(u), err
}

func ParseOfficerID(s string) (OfficerID, error) {
	u, err := parseUUID(s, "officer_id")
	return OfficerID(u), err
}

func ParseShiftID(s string) (ShiftID, error) {
	u, err := parseUUID(s, "shift_id")
	return ShiftID(u), err
}

func ParseOfficerAssignmentID(s string) (OfficerAssignmentID, error) {
	u, err := parseUUID(s, "officer_assignment_id")
	return OfficerAssignmentID(u), err
}

func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	return UserID(u), err
}

func ParseRecountID(s string) (RecountID, error) {
	u, err := parseUUID(s, "recount_id")
	return RecountID(u), err
}

func ParsePartialResultID(s string) (PartialResultID, error) {
	u, err := parseUUID(s, "partial_result_id")
	return PartialResultID(u), err
}

func ParseQuestionID(s string) (QuestionID, error) {
	u, err := parseUUID(s, "question_id")
	return QuestionID(u), err
}

func ParseBudgetID(s string) (BudgetID, error) {
	u, err := parseUUID(s, "budget_id")
	return BudgetID(u), err
}

func (id TenantID) String() string            { return uuid.UUID(id).String() }
func (id BoothID) String() string             { return uuid.UUID(id).String() }
func (id PollID) String() string              { return uuid.UUID(id).String() }
func (id BoothAssignmentID) String() string   { return uuid.UUID(id).String() }
func (id OfficerID) String() string           { return uuid.UUID(id).String() }
func (id ShiftID) String() string             { return uuid.UUID(id).String() }
func (id OfficerAssignmentID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string              { return uuid.UUID(id).String() }
func (id RecountID) String() string           { return uuid.UUID(id).String() }
func (id PartialResultID) String() string     { return uuid.UUID(id).String() }
func (id VoterID) String() string             { return uuid.UUID(id).String() }
func (id QuestionID) String() string          { return uuid.UUID(id).String() }
func (id OptionID) String() string            { return uuid.UUID(id).String() }
func (id AnswerID) String() string            { return uuid.UUID(id).String() }
func (id BudgetID) String() string            { return uuid.UUID(id).String() }
func (id InvestmentID) String() string        { return uuid.UUID(id).String() }
func (id HeadingID) String() string           { return uuid.UUID(id).String() }
func (id GeozoneID) String() string           { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id BoothID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id PollID) IsNil() bool              { return uuid.UUID(id) == uuid.Nil }
func (id BoothAssignmentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OfficerID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id ShiftID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id OfficerAssignmentID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool              { return uuid.UUID(id) == uuid.Nil }
func (id RecountID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id PartialResultID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id VoterID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id QuestionID) IsNil() bool          { return uuid.UUID(id) == uuid.Nil }
func (id OptionID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id AnswerID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id BudgetID) IsNil() bool            { return uuid.UUID(id) == uuid.Nil }
func (id InvestmentID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id HeadingID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id GeozoneID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }

func ParseOptionID(s string) (OptionID, error) {
	u, err := parseUUID(s, "option_id")
	return OptionID(u), err
}

func ParseGeozoneID(s string) (GeozoneID, error) {
	u, err := parseUUID(s, "geozone_id")
	return GeozoneID(u), err
}
