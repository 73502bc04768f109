package models

import "time"

// FixtureVersionStatus представляет статусы версии фикстур, соответствующие ENUM в БД.
type FixtureVersionStatus string

const (
	VersionStatusDraft     FixtureVersionStatus = "draft"
	VersionStatusPublished FixtureVersionStatus = "published"
	VersionStatusArchived  FixtureVersionStatus = "archived"
)

type PairingMethod string

const (
	PairingRoundRobin        PairingMethod = "round_robin"
	PairingSingleElimination PairingMethod = "single_elimination"
	PairingSwiss             PairingMethod = "swiss"
	PairingManual            PairingMethod = "manual"
)

type ChangeLogAction string

const (
	ChangeActionDraftCreated   ChangeLogAction = "draft_match_created"
	ChangeActionDraftUpdated   ChangeLogAction = "draft_match_updated"
	ChangeActionDraftDeleted   ChangeLogAction = "draft_match_deleted"
	ChangeActionAutoGenerated  ChangeLogAction = "fixtures_auto_generated"
	ChangeActionSwissGenerated ChangeLogAction = "swiss_round_generated"
	ChangeActionPublished      ChangeLogAction = "fixtures_published"
	ChangeActionConfigUpdated  ChangeLogAction = "points_config_updated"
)

// FixtureVersion — неизменяемый нумерованный снимок набора фикстур.
// VersionNumber строго возрастает в рамках турнира и не переиспользуется.
// В любой момент у турнира не более одной версии в статусе published.
type FixtureVersion struct {
	ID            int                  `json:"id" db:"id"`
	TournamentID  int                  `json:"tournament_id" db:"tournament_id"`
	StageID       *int                 `json:"stage_id,omitempty" db:"stage_id"`
	VersionNumber int                  `json:"version_number" db:"version_number"`
	Status        FixtureVersionStatus `json:"status" db:"status"`
	Label         *string              `json:"label,omitempty" db:"label"`
	PublishedAt   *time.Time           `json:"published_at,omitempty" db:"published_at"`
	ArchivedAt    *time.Time           `json:"archived_at,omitempty" db:"archived_at"`
	CreatedAt     time.Time            `json:"created_at" db:"created_at"`
}

type FixtureRound struct {
	ID               int           `json:"id" db:"id"`
	TournamentID     int           `json:"tournament_id" db:"tournament_id"`
	StageID          int           `json:"stage_id" db:"stage_id"`
	FixtureVersionID int           `json:"fixture_version_id" db:"fixture_version_id"`
	RoundNumber      int           `json:"round_number" db:"round_number"`
	RoundName        string        `json:"round_name" db:"round_name"`
	PairingMethod    PairingMethod `json:"pairing_method" db:"pairing_method"`
}

// FixtureVersionMatch — append-only мост версия-матч со снимком состояния
// матча на момент генерации или публикации.
type FixtureVersionMatch struct {
	ID               int       `json:"id" db:"id"`
	FixtureVersionID int       `json:"fixture_version_id" db:"fixture_version_id"`
	MatchID          int       `json:"match_id" db:"match_id"`
	Sequence         int       `json:"sequence" db:"sequence"`
	Snapshot         string    `json:"snapshot" db:"snapshot"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// FixtureChangeLog — append-only журнал событий жизненного цикла фикстур.
// Строки никогда не удаляются; при удалении матча ссылка на него отвязывается.
type FixtureChangeLog struct {
	ID               int             `json:"id" db:"id"`
	TournamentID     int             `json:"tournament_id" db:"tournament_id"`
	StageID          *int            `json:"stage_id,omitempty" db:"stage_id"`
	MatchID          *int            `json:"match_id,omitempty" db:"match_id"`
	FixtureVersionID *int            `json:"fixture_version_id,omitempty" db:"fixture_version_id"`
	Action           ChangeLogAction `json:"action" db:"action"`
	Payload          *string         `json:"payload,omitempty" db:"payload"`
	Reason           *string         `json:"reason,omitempty" db:"reason"`
	CreatedAt        time.Time       `json:"created_at" db:"created_at"`
}
