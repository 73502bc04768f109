package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/Dosada05/cricket-fixtures/models"
)

var (
	ErrMatchNotFound     = errors.New("fixture match not found")
	ErrMatchTeamInvalid  = errors.New("match team conflict or invalid")
	ErrMatchStageInvalid = errors.New("match stage conflict or invalid")
)

// MatchFilter narrows ListByTournament. Nil fields are ignored.
type MatchFilter struct {
	StageID      *int
	StageGroupID *int
	Status       *models.FixtureStatus
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error)
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Match, error)
	UpdateDraftFields(ctx context.Context, exec SQLExecutor, match *models.Match) error
	DeleteByIDs(ctx context.Context, exec SQLExecutor, ids []int) error
	MarkPublished(ctx context.Context, exec SQLExecutor, ids []int, versionID int) error
	MaxRoundNumber(ctx context.Context, exec SQLExecutor, stageID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `
	id, tournament_id, stage_id, stage_group_id, fixture_round_id, round_number,
	team1_id, team2_id, venue_id, scheduled_at, fixture_status, fixture_version_id,
	toss_winner_id, toss_decision, is_live, is_completed, is_abandoned, is_tied,
	winner_id, result, created_at`

func scanMatch(rowScanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := rowScanner.Scan(
		&m.ID, &m.TournamentID, &m.StageID, &m.StageGroupID, &m.FixtureRoundID, &m.RoundNumber,
		&m.Team1ID, &m.Team2ID, &m.VenueID, &m.ScheduledAt, &m.FixtureStatus, &m.FixtureVersionID,
		&m.TossWinnerID, &m.TossDecision, &m.IsLive, &m.IsCompleted, &m.IsAbandoned, &m.IsTied,
		&m.WinnerID, &m.Result, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(tournament_id, stage_id, stage_group_id, fixture_round_id, round_number,
			 team1_id, team2_id, venue_id, scheduled_at, fixture_status, fixture_version_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.TournamentID,
		match.StageID,
		match.StageGroupID,
		match.FixtureRoundID,
		match.RoundNumber,
		match.Team1ID,
		match.Team2ID,
		match.VenueID,
		match.ScheduledAt,
		match.FixtureStatus,
		match.FixtureVersionID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	match, err := scanMatch(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrMatchNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, filter MatchFilter) ([]*models.Match, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	argIdx := 2
	if filter.StageID != nil {
		queryBuilder.WriteString(" AND stage_id = $" + strconv.Itoa(argIdx))
		args = append(args, *filter.StageID)
		argIdx++
	}
	if filter.StageGroupID != nil {
		queryBuilder.WriteString(" AND stage_group_id = $" + strconv.Itoa(argIdx))
		args = append(args, *filter.StageGroupID)
		argIdx++
	}
	if filter.Status != nil {
		queryBuilder.WriteString(" AND fixture_status = $" + strconv.Itoa(argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	queryBuilder.WriteString(" ORDER BY scheduled_at ASC NULLS LAST, round_number ASC NULLS LAST, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func (r *postgresMatchRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Match, error) {
	if len(ids) == 0 {
		return []*models.Match{}, nil
	}
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = ANY($1) ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list matches by ids: %w", err)
	}
	defer rows.Close()

	return collectMatches(rows)
}

func collectMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpdateDraftFields rewrites everything the fixture core owns on a draft
// match, toss fields included — switching a match to source mode clears them.
func (r *postgresMatchRepository) UpdateDraftFields(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			stage_id = $1, stage_group_id = $2, round_number = $3,
			team1_id = $4, team2_id = $5, venue_id = $6, scheduled_at = $7,
			toss_winner_id = $8, toss_decision = $9
		WHERE id = $10 AND fixture_status = $11`

	result, err := executor.ExecContext(ctx, query,
		match.StageID, match.StageGroupID, match.RoundNumber,
		match.Team1ID, match.Team2ID, match.VenueID, match.ScheduledAt,
		match.TossWinnerID, match.TossDecision,
		match.ID, models.FixtureStatusDraft,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByIDs(ctx context.Context, exec SQLExecutor, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx, `DELETE FROM matches WHERE id = ANY($1)`, pq.Array(ids))
	return err
}

func (r *postgresMatchRepository) MarkPublished(ctx context.Context, exec SQLExecutor, ids []int, versionID int) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET fixture_status = $1, fixture_version_id = $2
		WHERE id = ANY($3)`
	result, err := executor.ExecContext(ctx, query, models.FixtureStatusPublished, versionID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark matches published: %w", err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) MaxRoundNumber(ctx context.Context, exec SQLExecutor, stageID int) (int, error) {
	executor := r.getExecutor(exec)
	var max int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(round_number), 0) FROM matches WHERE stage_id = $1`, stageID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to get max round number for stage %d: %w", stageID, err)
	}
	return max, nil
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		switch {
		case strings.Contains(pqErr.Constraint, "team"):
			return ErrMatchTeamInvalid
		case strings.Contains(pqErr.Constraint, "stage"):
			return ErrMatchStageInvalid
		}
	}
	return err
}
