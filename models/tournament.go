package models

import "time"

// Tournament представляет турнир. Здесь только срез полей, которыми владеет
// ядро фикстур: указатели на активную версию и время последней публикации.
type Tournament struct {
	ID                     int        `json:"id" db:"id"`
	Name                   string     `json:"name" db:"name"`
	StartDate              time.Time  `json:"start_date" db:"start_date"`
	ActiveFixtureVersionID *int       `json:"active_fixture_version_id,omitempty" db:"active_fixture_version_id"`
	FixturePublishedAt     *time.Time `json:"fixture_published_at,omitempty" db:"fixture_published_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
}

type Team struct {
	ID        int     `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	ShortName *string `json:"short_name,omitempty" db:"short_name"`
	LogoURL   *string `json:"logo_url,omitempty" db:"logo_url"`
}

// Venue — площадка. Часы работы хранятся в минутах от полуночи.
type Venue struct {
	ID             int     `json:"id" db:"id"`
	Name           string  `json:"name" db:"name"`
	City           *string `json:"city,omitempty" db:"city"`
	OpeningMinutes int     `json:"opening_minutes" db:"opening_minutes"`
	ClosingMinutes int     `json:"closing_minutes" db:"closing_minutes"`
}

// Innings — итог иннингса матча, принадлежит подсистеме скоринга.
// Движок таблицы читает эти строки для подсчёта net run rate.
type Innings struct {
	ID            int `json:"id" db:"id"`
	MatchID       int `json:"match_id" db:"match_id"`
	BattingTeamID int `json:"batting_team_id" db:"batting_team_id"`
	BowlingTeamID int `json:"bowling_team_id" db:"bowling_team_id"`
	Runs          int `json:"runs" db:"runs"`
	Wickets       int `json:"wickets" db:"wickets"`
	Balls         int `json:"balls" db:"balls"`
}
