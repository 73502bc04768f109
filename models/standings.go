package models

// MatchOutcome — исход матча с точки зрения одной команды.
type MatchOutcome string

const (
	OutcomeWon       MatchOutcome = "W"
	OutcomeLost      MatchOutcome = "L"
	OutcomeTied      MatchOutcome = "T"
	OutcomeDrawn     MatchOutcome = "D"
	OutcomeAbandoned MatchOutcome = "A"
)

// StandingRow — строка итоговой таблицы этапа или турнира.
type StandingRow struct {
	Rank          int     `json:"rank"`
	TeamID        int     `json:"team_id"`
	TeamName      string  `json:"team_name,omitempty"`
	Seed          int     `json:"seed"`
	MatchesPlayed int     `json:"matches_played"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	Tied          int     `json:"tied"`
	Drawn         int     `json:"drawn"`
	Abandoned     int     `json:"abandoned"`
	Points        int     `json:"points"`
	NetRunRate    float64 `json:"net_run_rate"`
	RecentForm    string  `json:"recent_form"`
}
