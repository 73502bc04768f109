package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/cricket-fixtures/models"
)

var (
	ErrStageNotFound      = errors.New("stage not found")
	ErrStageGroupNotFound = errors.New("stage group not found")
)

type StageRepository interface {
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error)
	GetGroup(ctx context.Context, exec SQLExecutor, groupID int) (*models.StageGroup, error)
	ListEntries(ctx context.Context, exec SQLExecutor, stageID int, stageGroupID *int) ([]*models.StageTeamEntry, error)
	ListAdvancementsInto(ctx context.Context, exec SQLExecutor, toStageID int) ([]*models.StageAdvancement, error)
	UpdateMetadata(ctx context.Context, exec SQLExecutor, stageID int, metadata string) error
}

type postgresStageRepository struct {
	db *sql.DB
}

func NewPostgresStageRepository(db *sql.DB) StageRepository {
	return &postgresStageRepository{db: db}
}

func (r *postgresStageRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresStageRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Stage, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, sequence, name, code, stage_type, format,
		       qualification_slots, match_format_id, parent_stage_id, metadata, created_at
		FROM stages
		WHERE id = $1`

	stage := &models.Stage{}
	err := executor.QueryRowContext(ctx, query, id).Scan(
		&stage.ID,
		&stage.TournamentID,
		&stage.Sequence,
		&stage.Name,
		&stage.Code,
		&stage.StageType,
		&stage.Format,
		&stage.QualificationSlots,
		&stage.MatchFormatID,
		&stage.ParentStageID,
		&stage.Metadata,
		&stage.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to scan stage %d: %w", id, err)
	}
	return stage, nil
}

func (r *postgresStageRepository) GetGroup(ctx context.Context, exec SQLExecutor, groupID int) (*models.StageGroup, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, stage_id, name, code, sequence, advancing_slots
		FROM stage_groups
		WHERE id = $1`

	group := &models.StageGroup{}
	err := executor.QueryRowContext(ctx, query, groupID).Scan(
		&group.ID,
		&group.StageID,
		&group.Name,
		&group.Code,
		&group.Sequence,
		&group.AdvancingSlots,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStageGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan stage group %d: %w", groupID, err)
	}
	return group, nil
}

func (r *postgresStageRepository) ListEntries(ctx context.Context, exec SQLExecutor, stageID int, stageGroupID *int) ([]*models.StageTeamEntry, error) {
	executor := r.getExecutor(exec)

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, stage_id, stage_group_id, team_id, seed,
		       entry_source, is_qualified, is_eliminated
		FROM stage_team_entries
		WHERE stage_id = $1`)

	args := []interface{}{stageID}
	if stageGroupID != nil {
		queryBuilder.WriteString(" AND stage_group_id = $2")
		args = append(args, *stageGroupID)
	}
	queryBuilder.WriteString(" ORDER BY seed ASC, id ASC")

	rows, err := executor.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list stage entries for stage %d: %w", stageID, err)
	}
	defer rows.Close()

	entries := make([]*models.StageTeamEntry, 0)
	for rows.Next() {
		e := &models.StageTeamEntry{}
		if err := rows.Scan(
			&e.ID, &e.TournamentID, &e.StageID, &e.StageGroupID, &e.TeamID,
			&e.Seed, &e.EntrySource, &e.IsQualified, &e.IsEliminated,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresStageRepository) ListAdvancementsInto(ctx context.Context, exec SQLExecutor, toStageID int) ([]*models.StageAdvancement, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, from_stage_id, from_stage_group_id, position_from,
		       to_stage_id, to_slot, qualification_type
		FROM stage_advancements
		WHERE to_stage_id = $1
		ORDER BY to_slot ASC`

	rows, err := executor.QueryContext(ctx, query, toStageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list advancements into stage %d: %w", toStageID, err)
	}
	defer rows.Close()

	advancements := make([]*models.StageAdvancement, 0)
	for rows.Next() {
		a := &models.StageAdvancement{}
		if err := rows.Scan(
			&a.ID, &a.FromStageID, &a.FromStageGroupID, &a.PositionFrom,
			&a.ToStageID, &a.ToSlot, &a.QualificationType,
		); err != nil {
			return nil, err
		}
		advancements = append(advancements, a)
	}
	return advancements, rows.Err()
}

func (r *postgresStageRepository) UpdateMetadata(ctx context.Context, exec SQLExecutor, stageID int, metadata string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx, `UPDATE stages SET metadata = $1 WHERE id = $2`, metadata, stageID)
	if err != nil {
		return fmt.Errorf("failed to update metadata for stage %d: %w", stageID, err)
	}
	return checkAffectedRows(result, ErrStageNotFound)
}
