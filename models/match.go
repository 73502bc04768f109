package models

import "time"

// FixtureStatus — жизненный цикл фикстуры. Переход только draft -> published.
type FixtureStatus string

const (
	FixtureStatusDraft     FixtureStatus = "draft"
	FixtureStatusPublished FixtureStatus = "published"
)

// TemporalStatus is derived at read time from match outcome flags and the
// scheduled start, it is never persisted.
type TemporalStatus string

const (
	TemporalStatusLive     TemporalStatus = "live"
	TemporalStatusPast     TemporalStatus = "past"
	TemporalStatusUpcoming TemporalStatus = "upcoming"
)

type ParticipantSourceType string

const (
	SourceTypeMatch    ParticipantSourceType = "match"
	SourceTypePosition ParticipantSourceType = "position"
	SourceTypeTeam     ParticipantSourceType = "team"
)

// Match представляет матч фикстуры. Ядро пишет только слоты команд, площадку,
// расписание, привязку к этапу и статус фикстуры; поля исхода (IsCompleted,
// IsAbandoned, IsTied, WinnerID, Result) принадлежат подсистеме скоринга и
// здесь только читаются.
type Match struct {
	ID               int           `json:"id" db:"id"`
	TournamentID     int           `json:"tournament_id" db:"tournament_id"`
	StageID          *int          `json:"stage_id,omitempty" db:"stage_id"`
	StageGroupID     *int          `json:"stage_group_id,omitempty" db:"stage_group_id"`
	FixtureRoundID   *int          `json:"fixture_round_id,omitempty" db:"fixture_round_id"`
	RoundNumber      *int          `json:"round_number,omitempty" db:"round_number"`
	Team1ID          *int          `json:"team1_id,omitempty" db:"team1_id"`
	Team2ID          *int          `json:"team2_id,omitempty" db:"team2_id"`
	VenueID          *int          `json:"venue_id,omitempty" db:"venue_id"`
	ScheduledAt      *time.Time    `json:"scheduled_at,omitempty" db:"scheduled_at"`
	FixtureStatus    FixtureStatus `json:"fixture_status" db:"fixture_status"`
	FixtureVersionID *int          `json:"fixture_version_id,omitempty" db:"fixture_version_id"`
	TossWinnerID     *int          `json:"toss_winner_id,omitempty" db:"toss_winner_id"`
	TossDecision     *string       `json:"toss_decision,omitempty" db:"toss_decision"`

	// Исход матча — read-only для этого сервиса.
	IsLive      bool    `json:"is_live" db:"is_live"`
	IsCompleted bool    `json:"is_completed" db:"is_completed"`
	IsAbandoned bool    `json:"is_abandoned" db:"is_abandoned"`
	IsTied      bool    `json:"is_tied" db:"is_tied"`
	WinnerID    *int    `json:"winner_id,omitempty" db:"winner_id"`
	Result      *string `json:"result,omitempty" db:"result"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Производные / связанные данные (не мапятся напрямую)
	TemporalStatus TemporalStatus           `json:"temporal_status,omitempty" db:"-"`
	Sources        []MatchParticipantSource `json:"participant_sources,omitempty" db:"-"`
}

// Concrete reports whether both team slots are resolved. A match is either
// concrete (two teams, no sources) or deferred (no teams, one source per slot).
func (m *Match) Concrete() bool {
	return m.Team1ID != nil && m.Team2ID != nil
}

// Finalized reports whether the match carries a terminal outcome and may be
// counted by the standings engine.
func (m *Match) Finalized() bool {
	if m.IsCompleted || m.IsAbandoned || m.IsTied {
		return true
	}
	if m.WinnerID != nil {
		return true
	}
	return m.Result != nil && *m.Result != ""
}

// MatchParticipantSource is the persisted form of a deferred participant
// reference: which future match, stage position or fixed team will fill the
// slot once known.
type MatchParticipantSource struct {
	ID                 int                   `json:"id" db:"id"`
	MatchID            int                   `json:"match_id" db:"match_id"`
	TeamSlot           int                   `json:"team_slot" db:"team_slot"`
	SourceType         ParticipantSourceType `json:"source_type" db:"source_type"`
	SourceMatchID      *int                  `json:"source_match_id,omitempty" db:"source_match_id"`
	SourceStageID      *int                  `json:"source_stage_id,omitempty" db:"source_stage_id"`
	SourceStageGroupID *int                  `json:"source_stage_group_id,omitempty" db:"source_stage_group_id"`
	SourcePosition     *int                  `json:"source_position,omitempty" db:"source_position"`
	SourceTeamID       *int                  `json:"source_team_id,omitempty" db:"source_team_id"`
}
