// Package models holds the participation statistics reports and the
// arithmetic shared by them.
package models

import (
	"fmt"
	"math"
	"time"
)

// Percentage returns count/total*100 rounded to three decimals. A zero
// total yields 0.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*1000) / 1000
}

// Bucket is a labelled participant count.
type Bucket struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

const (
	minAge       = 16
	firstBandEnd = 19
	bandWidth    = 5
	openBandAge  = 90
	maxAge       = 300
)

// AgeBand is a closed range of ages.
type AgeBand struct {
	From, To int
}

func (b AgeBand) Label() string {
	return fmt.Sprintf("%d - %d", b.From, b.To)
}

func (b AgeBand) Contains(age int) bool {
	return age >= b.From && age <= b.To
}

// AgeBands returns "16 - 19", then five-year bands up to "85 - 89", then
// the open band "90 - 300".
func AgeBands() []AgeBand {
	bands := []AgeBand{{From: minAge, To: firstBandEnd}}
	for from := firstBandEnd + 1; from < openBandAge; from += bandWidth {
		bands = append(bands, AgeBand{From: from, To: from + bandWidth - 1})
	}
	return append(bands, AgeBand{From: openBandAge, To: maxAge})
}

// Gender splits participants who gave a gender. Percentages are relative to
// Male+Female.
type Gender struct {
	Male             int     `json:"male"`
	Female           int     `json:"female"`
	MalePercentage   float64 `json:"male_percentage"`
	FemalePercentage float64 `json:"female_percentage"`
}

// Demographics breaks the distinct participants down by gender, age and
// geozone.
type Demographics struct {
	ReferenceDate     time.Time `json:"reference_date"`
	Gender            Gender    `json:"gender"`
	Age               []Bucket  `json:"age"`
	Geozones          []Bucket  `json:"geozones"`
	NoDemographicData int       `json:"no_demographic_data"`
}

// Channel totals for one participation channel.
type Channel struct {
	Participants           int     `json:"participants"`
	ParticipantsPercentage float64 `json:"participants_percentage"`
	Valid                  int     `json:"valid"`
	White                  int     `json:"white"`
	Null                   int     `json:"null"`
	ValidPercentage        float64 `json:"valid_percentage"`
	WhitePercentage        float64 `json:"white_percentage"`
	NullPercentage         float64 `json:"null_percentage"`
}

// PollReport is the statistics of one poll across every channel.
type PollReport struct {
	PollID            string  `json:"poll_id"`
	TotalParticipants int     `json:"total_participants"`
	Web               Channel `json:"web"`
	Booth             Channel `json:"booth"`
	Letter            Channel `json:"letter"`

	TotalValidVotes      int     `json:"total_valid_votes"`
	TotalWhiteVotes      int     `json:"total_white_votes"`
	TotalNullVotes       int     `json:"total_null_votes"`
	TotalValidPercentage float64 `json:"total_valid_percentage"`
	TotalWhitePercentage float64 `json:"total_white_percentage"`
	TotalNullPercentage  float64 `json:"total_null_percentage"`

	Demographics Demographics `json:"demographics"`
	// Channels lists the enabled channels with participants, in web, booth,
	// letter order.
	Channels []string `json:"channels"`
}

// Phase names of a budget report.
const (
	PhaseSupport = "support"
	PhaseVote    = "vote"
	PhaseEvery   = "every"
)

// PhaseTotals counts participants of one phase for a heading.
type PhaseTotals struct {
	Participants                 int     `json:"participants"`
	ParticipantsPercentage       float64 `json:"participants_percentage"`
	DistrictPopulationPercentage float64 `json:"district_population_percentage"`
}

// HeadingReport is a budget heading's share of each reported phase.
type HeadingReport struct {
	HeadingID        string                 `json:"heading_id"`
	Name             string                 `json:"name"`
	TotalInvestments int                    `json:"total_investments"`
	Phases           map[string]PhaseTotals `json:"phases"`
}

// BudgetReport is the statistics of one participatory budget.
type BudgetReport struct {
	BudgetID          string `json:"budget_id"`
	TotalParticipants int    `json:"total_participants"`

	TotalParticipantsSupportPhase int `json:"total_participants_support_phase"`
	TotalParticipantsVotePhase    int `json:"total_participants_vote_phase"`
	TotalParticipantsEveryPhase   int `json:"total_participants_every_phase"`

	TotalInvestments           int `json:"total_investments"`
	TotalSelectedInvestments   int `json:"total_selected_investments"`
	TotalUnfeasibleInvestments int `json:"total_unfeasible_investments"`
	TotalVotes                 int `json:"total_votes"`

	// Phases lists the finished phases, plus "every" once both are finished.
	Phases   []string        `json:"phases"`
	Headings []HeadingReport `json:"headings"`

	Demographics Demographics `json:"demographics"`
}
