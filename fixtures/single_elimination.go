package fixtures

import "github.com/Dosada05/cricket-fixtures/models"

// GenerateSingleElimination builds a knockout plan from teams in seed order.
// Each round pairs the surviving participants two at a time in order; an
// unpaired trailing participant advances directly without a match (a bye).
// Every real pairing feeds the next round as a MatchWinner(round, slot) ref,
// slot being the 0-based creation index within the round. For N teams with N a
// power of two the plan has exactly N-1 matches.
//
// Double elimination currently resolves to the same structure: a loser bracket
// is not generated.
func GenerateSingleElimination(teamIDs []int) (*Plan, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}
	seeds := make([]ParticipantRef, len(teamIDs))
	for i, id := range teamIDs {
		seeds[i] = TeamRef(id)
	}
	return GenerateEliminationFromRefs(seeds)
}

// GenerateEliminationFromRefs is the elimination pass over arbitrary
// participant refs. It exists so a playoff stage can be bracketed before its
// feeder stage finishes, seeding from group positions instead of team ids.
func GenerateEliminationFromRefs(seeds []ParticipantRef) (*Plan, error) {
	if len(seeds) < 2 {
		return nil, ErrNotEnoughTeams
	}

	plan := &Plan{PairingMethod: models.PairingSingleElimination}
	current := seeds
	round := 0

	for len(current) > 1 {
		round++
		next := make([]ParticipantRef, 0, (len(current)+1)/2)
		slot := 0

		i := 0
		for ; i+1 < len(current); i += 2 {
			plan.Matches = append(plan.Matches, PlanMatch{
				Round: round,
				Slot:  slot,
				Home:  current[i],
				Away:  current[i+1],
			})
			next = append(next, MatchWinnerRef(round, slot))
			slot++
		}
		if i < len(current) {
			// Trailing participant has a bye: no match row, straight through.
			next = append(next, current[i])
		}

		current = next
	}

	return plan, nil
}
