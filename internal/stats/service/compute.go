package service

import (
	"sort"
	"time"

	catalog "tally/internal/catalog/models"
	participation "tally/internal/participation/models"
	"tally/internal/stats/models"
	id "tally/pkg/domain"
)

func computePoll(in *pollInput, cfg Config) *models.PollReport {
	r := &models.PollReport{PollID: in.poll.ID.String()}

	var webVoters, boothVoters, letterVoters int
	for _, v := range in.voters {
		switch v.Origin {
		case id.OriginWeb:
			webVoters++
		case id.OriginBooth:
			boothVoters++
		case id.OriginLetter:
			letterVoters++
		}
	}

	// White ballots are a subset of the web participants.
	r.Web.Participants = webVoters
	r.Web.White = min(in.webWhite, webVoters)
	r.Web.Valid = webVoters - r.Web.White

	// Booth figures come from every recount in scope, letter-origin ones
	// included, never from booth voter rows.
	for _, rc := range in.recounts {
		r.Booth.Valid += rc.Total.Value
		r.Booth.White += rc.White.Value
		r.Booth.Null += rc.Null.Value
	}
	r.Booth.Participants = r.Booth.Valid + r.Booth.White + r.Booth.Null

	r.Letter.Participants = letterVoters

	r.TotalParticipants = r.Web.Participants + r.Booth.Participants + r.Letter.Participants
	r.TotalValidVotes = r.Web.Valid + r.Booth.Valid
	r.TotalWhiteVotes = r.Web.White + r.Booth.White
	r.TotalNullVotes = r.Booth.Null

	for _, ch := range []*models.Channel{&r.Web, &r.Booth, &r.Letter} {
		ch.ParticipantsPercentage = models.Percentage(ch.Participants, r.TotalParticipants)
		ch.ValidPercentage = models.Percentage(ch.Valid, r.TotalValidVotes)
		ch.WhitePercentage = models.Percentage(ch.White, r.TotalWhiteVotes)
		ch.NullPercentage = models.Percentage(ch.Null, r.TotalNullVotes)
	}

	votes := r.TotalValidVotes + r.TotalWhiteVotes + r.TotalNullVotes
	r.TotalValidPercentage = models.Percentage(r.TotalValidVotes, votes)
	r.TotalWhitePercentage = models.Percentage(r.TotalWhiteVotes, votes)
	r.TotalNullPercentage = models.Percentage(r.TotalNullVotes, votes)

	participants := newUserSet()
	for _, v := range in.voters {
		participants.add(v.UserID)
	}
	r.Demographics = demographics(participants, in.users, in.geozones, in.poll.EndsAt, r.TotalParticipants)
	// Recounted ballots nobody registered for have no demographic data either.
	r.Demographics.NoDemographicData += max(r.Booth.Participants-boothVoters, 0)

	r.Channels = []string{}
	counts := map[id.Origin]int{
		id.OriginWeb:    r.Web.Participants,
		id.OriginBooth:  r.Booth.Participants,
		id.OriginLetter: r.Letter.Participants,
	}
	for _, origin := range id.Origins {
		if cfg.channelEnabled(origin) && counts[origin] > 0 {
			r.Channels = append(r.Channels, string(origin))
		}
	}
	return r
}

// referenceDate is when balloting ended for a finished budget and when
// selecting ended otherwise.
func referenceDate(b catalog.Budget, now time.Time) time.Time {
	if b.VoteFinished() && b.BallotingEndsAt != nil {
		return *b.BallotingEndsAt
	}
	if b.SelectingEndsAt != nil {
		return *b.SelectingEndsAt
	}
	return now
}

func computeBudget(in *budgetInput, now time.Time) *models.BudgetReport {
	r := &models.BudgetReport{BudgetID: in.budget.ID.String()}

	support := supportParticipants(in, nil)
	vote := voteParticipants(in, nil)
	every := support.union(vote)

	r.TotalParticipants = every.len()
	r.TotalParticipantsSupportPhase = support.len()
	r.TotalParticipantsVotePhase = vote.len()

	r.Phases = []string{}
	supportDone, voteDone := in.budget.SupportFinished(), in.budget.VoteFinished()
	if supportDone {
		r.Phases = append(r.Phases, models.PhaseSupport)
	}
	if voteDone {
		r.Phases = append(r.Phases, models.PhaseVote)
	}
	if supportDone && voteDone {
		r.Phases = append(r.Phases, models.PhaseEvery)
		r.TotalParticipantsEveryPhase = every.len()
	}

	r.TotalInvestments = len(in.investments)
	for _, inv := range in.investments {
		if inv.Selected {
			r.TotalSelectedInvestments++
		}
		if inv.Feasibility == participation.FeasibilityUnfeasible {
			r.TotalUnfeasibleInvestments++
		}
	}
	r.TotalVotes = len(in.ballotLines)

	phaseTotals := map[string]int{
		models.PhaseSupport: support.len(),
		models.PhaseVote:    vote.len(),
		models.PhaseEvery:   every.len(),
	}
	r.Headings = make([]models.HeadingReport, 0, len(in.headings))
	for _, h := range in.headings {
		heading := h.ID
		hs := supportParticipants(in, &heading)
		hv := voteParticipants(in, &heading)
		counts := map[string]int{
			models.PhaseSupport: hs.len(),
			models.PhaseVote:    hv.len(),
			models.PhaseEvery:   hs.union(hv).len(),
		}

		hr := models.HeadingReport{
			HeadingID: h.ID.String(),
			Name:      h.Name,
			Phases:    make(map[string]models.PhaseTotals, len(r.Phases)),
		}
		for _, inv := range in.investments {
			if inv.HeadingID == h.ID {
				hr.TotalInvestments++
			}
		}
		population := 0
		if h.Population != nil {
			population = *h.Population
		}
		for _, phase := range r.Phases {
			hr.Phases[phase] = models.PhaseTotals{
				Participants:                 counts[phase],
				ParticipantsPercentage:       models.Percentage(counts[phase], phaseTotals[phase]),
				DistrictPopulationPercentage: models.Percentage(counts[phase], population),
			}
		}
		r.Headings = append(r.Headings, hr)
	}

	r.Demographics = demographics(every, in.users, in.geozones, referenceDate(in.budget, now), r.TotalParticipants)
	return r
}

// demographics breaks participants down by gender, age band and geozone.
// Bucket percentages are relative to total.
func demographics(participants *userSet, users map[id.UserID]catalog.User, geozones []catalog.Geozone, ref time.Time, total int) models.Demographics {
	d := models.Demographics{ReferenceDate: ref}

	bands := models.AgeBands()
	ageCounts := make([]int, len(bands))
	zoneCounts := make(map[id.GeozoneID]int)

	for _, uid := range participants.ids() {
		u, ok := users[uid]
		switch {
		case !ok || u.Gender == "":
			d.NoDemographicData++
		case u.Gender == catalog.GenderMale:
			d.Gender.Male++
		case u.Gender == catalog.GenderFemale:
			d.Gender.Female++
		}
		if !ok {
			continue
		}
		if age, known := u.AgeOn(ref); known {
			for i, b := range bands {
				if b.Contains(age) {
					ageCounts[i]++
					break
				}
			}
		}
		if u.GeozoneID != nil {
			zoneCounts[*u.GeozoneID]++
		}
	}

	gendered := d.Gender.Male + d.Gender.Female
	d.Gender.MalePercentage = models.Percentage(d.Gender.Male, gendered)
	d.Gender.FemalePercentage = models.Percentage(d.Gender.Female, gendered)

	d.Age = make([]models.Bucket, len(bands))
	for i, b := range bands {
		d.Age[i] = models.Bucket{
			Label:      b.Label(),
			Count:      ageCounts[i],
			Percentage: models.Percentage(ageCounts[i], total),
		}
	}

	zones := make([]catalog.Geozone, len(geozones))
	copy(zones, geozones)
	sort.SliceStable(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	d.Geozones = make([]models.Bucket, len(zones))
	for i, z := range zones {
		d.Geozones[i] = models.Bucket{
			Label:      z.Name,
			Count:      zoneCounts[z.ID],
			Percentage: models.Percentage(zoneCounts[z.ID], total),
		}
	}
	return d
}
