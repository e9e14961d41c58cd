// Package models holds the ledgered amount abstraction and the records that
// carry it.
package models

import (
	"strconv"
	"strings"

	id "tally/pkg/domain"
)

// logSeparator both separates entries and leads the log.
const logSeparator = ":"

// Log is an append-only trail of prior values, oldest first. Every entry is
// preceded by ":" so a log holding the values 0 and 33 reads ":0:33".
type Log string

// Append returns the log with prev added as the newest entry.
func (l Log) Append(prev string) Log {
	return l + Log(logSeparator+prev)
}

// Entries returns the recorded values, oldest first. An empty log has none.
func (l Log) Entries() []string {
	if l == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(string(l), logSeparator), logSeparator)
}

// Ints parses the entries as integers. Entries that are not integers are
// skipped; amount logs never contain them.
func (l Log) Ints() []int {
	entries := l.Entries()
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		n, err := strconv.Atoi(e)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Amount is a mutable count paired with the log of its previous values.
type Amount struct {
	Value int
	Log   Log
}

// Revise sets the value and logs the one it replaces. It reports whether the
// value changed; an unchanged value leaves the log untouched.
func (a *Amount) Revise(next int) bool {
	if a.Value == next {
		return false
	}
	a.Log = a.Log.Append(strconv.Itoa(a.Value))
	a.Value = next
	return true
}

// Field names one ledgered amount on a record of type E and knows how to
// reach it.
type Field[E any] struct {
	Name   string
	amount func(*E) *Amount
}

func NewField[E any](name string, amount func(*E) *Amount) Field[E] {
	return Field[E]{Name: name, amount: amount}
}

// Of returns the field's amount on e.
func (f Field[E]) Of(e *E) *Amount {
	return f.amount(e)
}

// Change is one requested value for a field.
type Change[E any] struct {
	Field Field[E]
	Value int
}

// Revise applies changes to e as one save. When at least one amount changed
// the attribution logs record who held the record before this save; the new
// assignment and author are set either way. It returns the names of the
// fields that changed.
func Revise[E any](e *E, attr *Attribution, changes []Change[E], assignment id.OfficerAssignmentID, author id.UserID) []string {
	var changed []string
	for _, c := range changes {
		if c.Field.Of(e).Revise(c.Value) {
			changed = append(changed, c.Field.Name)
		}
	}
	if len(changed) > 0 {
		attr.AssignmentLog = attr.AssignmentLog.Append(idEntry(attr.AssignmentID))
		attr.AuthorLog = attr.AuthorLog.Append(idEntry(attr.AuthorID))
	}
	attr.AssignmentID = assignment
	attr.AuthorID = author
	return changed
}

// Attribution tracks the officer assignment and author behind the current
// amounts, with logs of the ones behind previous amounts.
type Attribution struct {
	AssignmentID  id.OfficerAssignmentID
	AssignmentLog Log
	AuthorID      id.UserID
	AuthorLog     Log
}

// idEntry renders an id for a log; a nil id is logged as an empty entry.
func idEntry[T interface {
	IsNil() bool
	String() string
}](v T) string {
	if v.IsNil() {
		return ""
	}
	return v.String()
}
