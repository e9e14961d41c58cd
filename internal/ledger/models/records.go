package models

import (
	"time"

	id "tally/pkg/domain"
	dErrors "tally/pkg/domain-errors"
)

// Recount is the tally an officer reports for a booth on one day. Its three
// amounts are ledgered independently and share one attribution.
type Recount struct {
	ID                id.RecountID
	TenantID          id.TenantID
	PollID            id.PollID
	BoothAssignmentID id.BoothAssignmentID
	Date              time.Time
	Origin            id.Origin
	Total             Amount
	White             Amount
	Null              Amount
	Attribution       Attribution
}

var (
	RecountTotal = NewField("total_amount", func(r *Recount) *Amount { return &r.Total })
	RecountWhite = NewField("white_amount", func(r *Recount) *Amount { return &r.White })
	RecountNull  = NewField("null_amount", func(r *Recount) *Amount { return &r.Null })
)

// RecountFields lists the ledgered fields of a recount in column order.
var RecountFields = []Field[Recount]{RecountTotal, RecountWhite, RecountNull}

// PartialResult is the count for one answer of a question at a booth on one
// day. Only Amount is ledgered.
type PartialResult struct {
	ID                id.PartialResultID
	TenantID          id.TenantID
	PollID            id.PollID
	QuestionID        id.QuestionID
	BoothAssignmentID id.BoothAssignmentID
	Date              time.Time
	Answer            string
	Origin            id.Origin
	Amount            Amount
	Attribution       Attribution
}

var PartialResultAmount = NewField("amount", func(p *PartialResult) *Amount { return &p.Amount })

// RecountOrigin reports whether o may author a recount or partial result.
// Web votes are counted from voter records, never reported.
func RecountOrigin(o id.Origin) error {
	if o != id.OriginBooth && o != id.OriginLetter {
		return dErrors.New(dErrors.CodeValidation, "origin must be booth or letter")
	}
	return nil
}

// Kind distinguishes the ledgered record types.
type Kind string

const (
	KindRecount       Kind = "recount"
	KindPartialResult Kind = "partial_result"
)

// Ref points at one ledgered record.
type Ref struct {
	TenantID        id.TenantID
	Kind            Kind
	RecountID       id.RecountID
	PartialResultID id.PartialResultID
}

func RecountRef(tenant id.TenantID, recount id.RecountID) Ref {
	return Ref{TenantID: tenant, Kind: KindRecount, RecountID: recount}
}

func PartialResultRef(tenant id.TenantID, pr id.PartialResultID) Ref {
	return Ref{TenantID: tenant, Kind: KindPartialResult, PartialResultID: pr}
}

// FieldHistory is the current value of a ledgered field and the values it
// replaced, oldest first.
type FieldHistory struct {
	Field    string
	Current  int
	Previous []int
}

// History is the revision trail of one record.
type History struct {
	Ref         Ref
	Fields      []FieldHistory
	Assignments []string
	Authors     []string
}

func historyOf[E any](e *E, fields []Field[E], attr Attribution) ([]FieldHistory, []string, []string) {
	out := make([]FieldHistory, 0, len(fields))
	for _, f := range fields {
		a := f.Of(e)
		out = append(out, FieldHistory{Field: f.Name, Current: a.Value, Previous: a.Log.Ints()})
	}
	return out, attr.AssignmentLog.Entries(), attr.AuthorLog.Entries()
}

func (r *Recount) History() History {
	fields, assignments, authors := historyOf(r, RecountFields, r.Attribution)
	return History{Ref: RecountRef(r.TenantID, r.ID), Fields: fields, Assignments: assignments, Authors: authors}
}

func (p *PartialResult) History() History {
	fields, assignments, authors := historyOf(p, []Field[PartialResult]{PartialResultAmount}, p.Attribution)
	return History{Ref: PartialResultRef(p.TenantID, p.ID), Fields: fields, Assignments: assignments, Authors: authors}
}
