// Package models holds the matching rules used to reconcile duplicate
// participation records.
package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"

	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
	pstrings "tally/pkg/platform/strings"
)

// TitleIndex maps every translated title of a question's options to the
// options carrying it. Only titles in the index's locales are included.
type TitleIndex struct {
	question id.QuestionID
	byTitle  map[string][]id.OptionID
}

// NewTitleIndex indexes q's option titles in the given locales. An empty
// locale list indexes every translation.
func NewTitleIndex(q participation.Question, locales []string) *TitleIndex {
	allowed := pstrings.LocaleSet(locales)

	ix := &TitleIndex{question: q.ID, byTitle: make(map[string][]id.OptionID)}
	for _, opt := range q.Options {
		for locale, title := range opt.Titles {
			if !pstrings.Accepts(allowed, locale) {
				continue
			}
			ix.add(title, opt.ID)
		}
	}
	return ix
}

func (ix *TitleIndex) add(title string, option id.OptionID) {
	for _, existing := range ix.byTitle[title] {
		if existing == option {
			return
		}
	}
	ix.byTitle[title] = append(ix.byTitle[title], option)
}

// Matches returns the options whose title equals text in any indexed locale.
func (ix *TitleIndex) Matches(text string) []id.OptionID {
	return ix.byTitle[text]
}

// Resolve returns the option text names, or false when text matches no
// option or more than one.
func (ix *TitleIndex) Resolve(text string) (id.OptionID, bool) {
	m := ix.byTitle[text]
	if len(m) != 1 {
		return id.OptionID{}, false
	}
	return m[0], true
}

// AnswerKey identifies answers that record the same choice. The choice
// comes from the text: OptionID when the text names exactly one option,
// otherwise the literal Text. Stored is set only when the answer's stored
// option disagrees with that choice.
type AnswerKey struct {
	QuestionID id.QuestionID
	AuthorID   id.UserID
	OptionID   id.OptionID
	Text       string
	Stored     id.OptionID
}

// KeyOf groups an answer by what its text names. An answer whose stored
// option is unset or matches the text joins the text's group; any other
// stored option keeps it apart.
func (ix *TitleIndex) KeyOf(a participation.Answer) AnswerKey {
	key := AnswerKey{QuestionID: a.QuestionID, AuthorID: a.AuthorID}
	opt, resolved := ix.Resolve(a.Text)
	if resolved {
		key.OptionID = opt
	} else {
		key.Text = a.Text
	}
	if a.OptionID != nil && (!resolved || *a.OptionID != opt) {
		key.Stored = *a.OptionID
	}
	return key
}

// Stamp orders records for the keep rule.
type Stamp struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Before reports whether s is kept over other: the earliest wins and ties go
// to the lowest id.
func (s Stamp) Before(other Stamp) bool {
	if !s.CreatedAt.Equal(other.CreatedAt) {
		return s.CreatedAt.Before(other.CreatedAt)
	}
	return bytes.Compare(s.ID[:], other.ID[:]) < 0
}

// Redundant groups records by key and returns every record except the one
// kept per group, in input order. The result does not depend on input order.
func Redundant[T any, K comparable](records []T, key func(T) K, stamp func(T) Stamp) []T {
	kept := make(map[K]int, len(records))
	for i, r := range records {
		k := key(r)
		j, ok := kept[k]
		if !ok || stamp(r).Before(stamp(records[j])) {
			kept[k] = i
		}
	}
	keep := make(map[int]struct{}, len(kept))
	for _, i := range kept {
		keep[i] = struct{}{}
	}
	out := make([]T, 0, len(records)-len(keep))
	for i, r := range records {
		if _, ok := keep[i]; !ok {
			out = append(out, r)
		}
	}
	return out
}
