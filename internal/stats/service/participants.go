package service

import (
	"sort"

	"github.com/google/uuid"

	dedup "tally/internal/dedup/models"
	participation "tally/internal/participation/models"
	id "tally/pkg/domain"
)

// userSet is an insertion-ordered set of users. Nil users are never added.
type userSet struct {
	order []id.UserID
	seen  map[id.UserID]struct{}
}

func newUserSet() *userSet {
	return &userSet{seen: make(map[id.UserID]struct{})}
}

func (s *userSet) add(u id.UserID) {
	if u.IsNil() {
		return
	}
	if _, ok := s.seen[u]; ok {
		return
	}
	s.seen[u] = struct{}{}
	s.order = append(s.order, u)
}

func (s *userSet) union(others ...*userSet) *userSet {
	out := newUserSet()
	for _, set := range append([]*userSet{s}, others...) {
		for _, u := range set.order {
			out.add(u)
		}
	}
	return out
}

func (s *userSet) len() int {
	return len(s.order)
}

func (s *userSet) ids() []id.UserID {
	return s.order
}

// canonicalVoters keeps the earliest voter of each user, as deduplication
// would. Voters without a user are all kept.
func canonicalVoters(voters []participation.Voter) []participation.Voter {
	sorted := make([]participation.Voter, len(voters))
	copy(sorted, voters)
	stamp := func(v participation.Voter) dedup.Stamp {
		return dedup.Stamp{CreatedAt: v.CreatedAt, ID: uuid.UUID(v.ID)}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return stamp(sorted[i]).Before(stamp(sorted[j])) })

	seen := make(map[id.UserID]struct{}, len(sorted))
	out := sorted[:0]
	for _, v := range sorted {
		if !v.UserID.IsNil() {
			if _, ok := seen[v.UserID]; ok {
				continue
			}
			seen[v.UserID] = struct{}{}
		}
		out = append(out, v)
	}
	return out
}

func votersUsers(voters []participation.Voter) []id.UserID {
	set := newUserSet()
	for _, v := range voters {
		set.add(v.UserID)
	}
	return set.ids()
}

// supportParticipants are the investment authors and supporters, limited
// to one heading when heading is set.
func supportParticipants(in *budgetInput, heading *id.HeadingID) *userSet {
	set := newUserSet()
	for _, inv := range in.investments {
		if inv.AuthorID == nil || (heading != nil && inv.HeadingID != *heading) {
			continue
		}
		set.add(*inv.AuthorID)
	}
	for _, sup := range in.supports {
		if heading != nil && sup.HeadingID != *heading {
			continue
		}
		set.add(sup.UserID)
	}
	return set
}

// voteParticipants are the ballot-line authors plus, budget-wide only, the
// booth voters of the budget's polls.
func voteParticipants(in *budgetInput, heading *id.HeadingID) *userSet {
	set := newUserSet()
	for _, line := range in.ballotLines {
		if heading != nil && line.HeadingID != *heading {
			continue
		}
		set.add(line.UserID)
	}
	if heading == nil {
		for _, v := range in.pollVoters {
			set.add(v.UserID)
		}
	}
	return set
}

func budgetParticipants(in *budgetInput) *userSet {
	return supportParticipants(in, nil).union(voteParticipants(in, nil))
}
