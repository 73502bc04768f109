package fixtures

import (
	"errors"
	"time"

	"github.com/Dosada05/cricket-fixtures/models"
)

// MatchDurationMinutes is the fixed slot length used when stacking matches at
// one venue.
const MatchDurationMinutes = 180

var ErrNoVenues = errors.New("no venues available for scheduling")

// ScheduledMatch is a plan match annotated with a calendar slot and a venue.
type ScheduledMatch struct {
	PlanMatch
	VenueID  int
	StartsAt time.Time
}

// AllocateSchedule assigns dates, venues and start times to a plan. Round k
// (0-indexed over the plan's distinct rounds) lands on startDate + k days.
// Within a round, match i goes to venue i mod len(venues); matches sharing a
// venue stack sequentially from the venue's opening time in fixed
// MatchDurationMinutes slots.
func AllocateSchedule(plan *Plan, venues []models.Venue, startDate time.Time) ([]ScheduledMatch, error) {
	if len(venues) == 0 {
		return nil, ErrNoVenues
	}

	var out []ScheduledMatch
	for k, round := range plan.RoundNumbers() {
		day := startDate.AddDate(0, 0, k)
		midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

		for i, m := range plan.MatchesInRound(round) {
			venue := venues[i%len(venues)]
			stack := i / len(venues)
			startMinutes := venue.OpeningMinutes + stack*MatchDurationMinutes

			out = append(out, ScheduledMatch{
				PlanMatch: m,
				VenueID:   venue.ID,
				StartsAt:  midnight.Add(time.Duration(startMinutes) * time.Minute),
			})
		}
	}
	return out, nil
}
