package fixtures

import "github.com/Dosada05/cricket-fixtures/models"

// byeSentinel pads an odd team list to an even length; the team paired with it
// simply sits the round out.
const byeSentinel = -1

// GenerateRoundRobin builds a round-robin plan with the circle method: the
// first position stays fixed while the rest rotate each round, position i
// pairing with position len-1-i. Teams arrive in seed order. For an even team
// count N the plan has N-1 rounds of N/2 matches and every unordered pair
// appears exactly once; for odd N a bye is inserted and every team sits out
// exactly one of the N rounds.
//
// With double set, the full pairing set is replayed with home and away swapped
// and every round number shifted by N-1, so every ordered pair appears exactly
// once across both halves.
func GenerateRoundRobin(teamIDs []int, double bool) (*Plan, error) {
	if len(teamIDs) < 2 {
		return nil, ErrNotEnoughTeams
	}

	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 == 1 {
		ids = append(ids, byeSentinel)
	}

	n := len(ids)
	rounds := n - 1
	half := n / 2

	plan := &Plan{PairingMethod: models.PairingRoundRobin}
	for r := 0; r < rounds; r++ {
		slot := 0
		for i := 0; i < half; i++ {
			home, away := ids[i], ids[n-1-i]
			if home == byeSentinel || away == byeSentinel {
				continue
			}
			plan.Matches = append(plan.Matches, PlanMatch{
				Round: r + 1,
				Slot:  slot,
				Home:  TeamRef(home),
				Away:  TeamRef(away),
			})
			slot++
		}

		// Rotate everything but the first element one step clockwise.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}

	if double {
		firstLeg := len(plan.Matches)
		for i := 0; i < firstLeg; i++ {
			m := plan.Matches[i]
			plan.Matches = append(plan.Matches, PlanMatch{
				Round: m.Round + rounds,
				Slot:  m.Slot,
				Home:  m.Away,
				Away:  m.Home,
			})
		}
	}

	return plan, nil
}
