package models

import "time"

// Stage type and format are stored as free text; канонизация выполняется при
// генерации, а не при записи. Константы ниже покрывают распознаваемые значения.
type StageType string

const (
	StageTypeLeague   StageType = "league"
	StageTypeKnockout StageType = "knockout"
	StageTypePlayoff  StageType = "playoff"
	StageTypeSwiss    StageType = "swiss"
	StageTypeCustom   StageType = "custom"
)

type StageFormat string

const (
	FormatSingleRoundRobin  StageFormat = "single_round_robin"
	FormatDoubleRoundRobin  StageFormat = "double_round_robin"
	FormatSingleElimination StageFormat = "single_elimination"
	FormatDoubleElimination StageFormat = "double_elimination"
	FormatSwiss             StageFormat = "swiss"
	FormatCustom            StageFormat = "custom"
)

type EntrySource string

const (
	EntrySourceDirect    EntrySource = "direct"
	EntrySourceQualified EntrySource = "qualified"
	EntrySourceWildcard  EntrySource = "wildcard"
)

type QualificationType string

const (
	QualificationWinner   QualificationType = "winner"
	QualificationRunnerUp QualificationType = "runner_up"
	QualificationPosition QualificationType = "position"
)

// Stage — этап турнира. Metadata хранит JSON с конфигурацией очков этапа и
// произвольными ключами других подсистем; см. ParsePointsConfig.
type Stage struct {
	ID                 int       `json:"id" db:"id"`
	TournamentID       int       `json:"tournament_id" db:"tournament_id"`
	Sequence           int       `json:"sequence" db:"sequence"`
	Name               string    `json:"name" db:"name"`
	Code               *string   `json:"code,omitempty" db:"code"`
	StageType          string    `json:"stage_type" db:"stage_type"`
	Format             string    `json:"format" db:"format"`
	QualificationSlots *int      `json:"qualification_slots,omitempty" db:"qualification_slots"`
	MatchFormatID      *int      `json:"match_format_id,omitempty" db:"match_format_id"`
	ParentStageID      *int      `json:"parent_stage_id,omitempty" db:"parent_stage_id"`
	Metadata           *string   `json:"metadata,omitempty" db:"metadata"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

type StageGroup struct {
	ID             int     `json:"id" db:"id"`
	StageID        int     `json:"stage_id" db:"stage_id"`
	Name           string  `json:"name" db:"name"`
	Code           *string `json:"code,omitempty" db:"code"`
	Sequence       int     `json:"sequence" db:"sequence"`
	AdvancingSlots *int    `json:"advancing_slots,omitempty" db:"advancing_slots"`
}

// StageTeamEntry — участие команды в этапе. Seed задаёт порядок посева и
// используется как финальный детерминированный тай-брейк таблицы.
type StageTeamEntry struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	StageID      int         `json:"stage_id" db:"stage_id"`
	StageGroupID *int        `json:"stage_group_id,omitempty" db:"stage_group_id"`
	TeamID       int         `json:"team_id" db:"team_id"`
	Seed         int         `json:"seed" db:"seed"`
	EntrySource  EntrySource `json:"entry_source" db:"entry_source"`
	IsQualified  bool        `json:"is_qualified" db:"is_qualified"`
	IsEliminated bool        `json:"is_eliminated" db:"is_eliminated"`
}

// StageAdvancement — декларативное правило продвижения: позиция PositionFrom
// исходного этапа (или его группы) занимает слот ToSlot целевого этапа.
type StageAdvancement struct {
	ID                int               `json:"id" db:"id"`
	FromStageID       int               `json:"from_stage_id" db:"from_stage_id"`
	FromStageGroupID  *int              `json:"from_stage_group_id,omitempty" db:"from_stage_group_id"`
	PositionFrom      int               `json:"position_from" db:"position_from"`
	ToStageID         int               `json:"to_stage_id" db:"to_stage_id"`
	ToSlot            int               `json:"to_slot" db:"to_slot"`
	QualificationType QualificationType `json:"qualification_type" db:"qualification_type"`
}
