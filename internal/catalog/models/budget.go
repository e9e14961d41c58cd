package models

import (
	"time"

	id "tally/pkg/domain"
)

// Phase is a participatory budget's lifecycle stage.
type Phase string

const (
	PhaseDrafting         Phase = "drafting"
	PhaseInforming        Phase = "informing"
	PhaseAccepting        Phase = "accepting"
	PhaseReviewing        Phase = "reviewing"
	PhaseSelecting        Phase = "selecting"
	PhaseValuating        Phase = "valuating"
	PhasePublishingPrices Phase = "publishing_prices"
	PhaseBalloting        Phase = "balloting"
	PhaseReviewingBallots Phase = "reviewing_ballots"
	PhaseFinished         Phase = "finished"
)

var phaseOrder = []Phase{
	PhaseDrafting,
	PhaseInforming,
	PhaseAccepting,
	PhaseReviewing,
	PhaseSelecting,
	PhaseValuating,
	PhasePublishingPrices,
	PhaseBalloting,
	PhaseReviewingBallots,
	PhaseFinished,
}

// Index returns the phase's position in the lifecycle, or -1 if unknown.
func (p Phase) Index() int {
	for i, ph := range phaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

func (p Phase) IsValid() bool {
	return p.Index() >= 0
}

// After reports whether p comes strictly later in the lifecycle than other.
func (p Phase) After(other Phase) bool {
	return p.Index() > other.Index()
}

// Budget is a participatory budget. SelectingEndsAt and BallotingEndsAt are
// the reference dates for its demographic statistics.
type Budget struct {
	ID              id.BudgetID
	TenantID        id.TenantID
	Name            string
	Phase           Phase
	SelectingEndsAt *time.Time
	BallotingEndsAt *time.Time
}

// SupportFinished reports whether the support (selection) phase is over.
func (b Budget) SupportFinished() bool {
	return b.Phase.After(PhaseSelecting)
}

// VoteFinished reports whether the final vote is over.
func (b Budget) VoteFinished() bool {
	return b.Phase == PhaseFinished
}

// Heading is a budget group (district or city-wide). Population is set for
// districts only.
type Heading struct {
	ID         id.HeadingID
	TenantID   id.TenantID
	BudgetID   id.BudgetID
	Name       string
	Population *int
}
