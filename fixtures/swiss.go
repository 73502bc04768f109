package fixtures

import (
	"sort"

	"github.com/Dosada05/cricket-fixtures/models"
)

// SwissEntry is one team's standing going into a swiss round. For round one,
// entries arrive in seed order with zero points and empty history.
type SwissEntry struct {
	TeamID    int
	Seed      int
	Points    int
	TieBreaks [3]float64
	Opponents map[int]bool // team ids already played
}

// GenerateSwissRound pairs one swiss round greedily: teams are sorted by
// points, then the three tie-break numbers, then team id; the top remaining
// team takes the first opponent below it that it has not yet played, falling
// back to the very next team when none exists (a forced repeat pairing). This
// is deliberately not a constraint-satisfying swiss pairing — no seed or
// colour balancing, and with an odd team count the lowest-ranked leftover team
// is simply not paired this round.
func GenerateSwissRound(entries []SwissEntry, roundNumber int) ([]PlanMatch, error) {
	if len(entries) < 2 {
		return nil, ErrNotEnoughTeams
	}

	pool := make([]SwissEntry, len(entries))
	copy(pool, entries)
	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		for k := 0; k < 3; k++ {
			if a.TieBreaks[k] != b.TieBreaks[k] {
				return a.TieBreaks[k] > b.TieBreaks[k]
			}
		}
		return a.TeamID < b.TeamID
	})

	var matches []PlanMatch
	slot := 0
	for len(pool) >= 2 {
		top := pool[0]

		oppIdx := -1
		for j := 1; j < len(pool); j++ {
			if !top.Opponents[pool[j].TeamID] {
				oppIdx = j
				break
			}
		}
		if oppIdx == -1 {
			// Everyone left has been played already; repeat against the
			// nearest-ranked opponent.
			oppIdx = 1
		}

		matches = append(matches, PlanMatch{
			Round: roundNumber,
			Slot:  slot,
			Home:  TeamRef(top.TeamID),
			Away:  TeamRef(pool[oppIdx].TeamID),
		})
		slot++

		pool = append(pool[:oppIdx], pool[oppIdx+1:]...)
		pool = pool[1:]
	}

	return matches, nil
}

// SwissPlan wraps one generated round as a Plan for the shared persistence path.
func SwissPlan(matches []PlanMatch) *Plan {
	return &Plan{Matches: matches, PairingMethod: models.PairingSwiss}
}
