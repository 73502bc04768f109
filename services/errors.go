package services

import "errors"

// Закрытый набор ошибок доменного слоя. Обработчики сопоставляют их с HTTP
// статусами через errors.Is; ни одна операция не оставляет частичных
// эффектов при возврате любой из них.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrStageNotFound      = errors.New("stage not found")

	// Ошибки валидации генерации и черновиков
	ErrInsufficientTeams         = errors.New("not enough teams for fixture generation (minimum 2)")
	ErrInvalidParticipantMode    = errors.New("match must be either concrete (two teams) or deferred (participant sources), not both")
	ErrInvalidParticipantSources = errors.New("deferred match requires exactly one well-formed participant source per team slot")
	ErrInvalidTeamSelection      = errors.New("concrete match requires two distinct team ids")
	ErrInvalidStageGroup         = errors.New("stage group does not belong to the stage")

	// Жизненный цикл фикстур
	ErrFixtureMatchNotFound      = errors.New("fixture match not found")
	ErrFixtureMatchNotDraft      = errors.New("fixture match is not in draft status")
	ErrNoFixtureMatchesToPublish = errors.New("no fixture matches to publish")

	// Генерация расписания
	ErrNoVenuesAvailable = errors.New("no venues available for fixture scheduling")
	ErrSwissRoundNotReady = errors.New("swiss round cannot be generated for this stage")

	// Конфигурация очков
	ErrInvalidPointsConfig = errors.New("invalid stage points configuration")
)
