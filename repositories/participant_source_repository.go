package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/cricket-fixtures/models"
)

type ParticipantSourceRepository interface {
	Create(ctx context.Context, exec SQLExecutor, source *models.MatchParticipantSource) error
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchParticipantSource, error)
	DeleteByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) error
}

type postgresParticipantSourceRepository struct {
	db *sql.DB
}

func NewPostgresParticipantSourceRepository(db *sql.DB) ParticipantSourceRepository {
	return &postgresParticipantSourceRepository{db: db}
}

func (r *postgresParticipantSourceRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantSourceRepository) Create(ctx context.Context, exec SQLExecutor, source *models.MatchParticipantSource) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO match_participant_sources
			(match_id, team_slot, source_type, source_match_id, source_stage_id,
			 source_stage_group_id, source_position, source_team_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		source.MatchID,
		source.TeamSlot,
		source.SourceType,
		source.SourceMatchID,
		source.SourceStageID,
		source.SourceStageGroupID,
		source.SourcePosition,
		source.SourceTeamID,
	).Scan(&source.ID)
	if err != nil {
		return fmt.Errorf("failed to create participant source for match %d slot %d: %w",
			source.MatchID, source.TeamSlot, err)
	}
	return nil
}

func (r *postgresParticipantSourceRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.MatchParticipantSource, error) {
	if len(matchIDs) == 0 {
		return []*models.MatchParticipantSource{}, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, team_slot, source_type, source_match_id, source_stage_id,
		       source_stage_group_id, source_position, source_team_id
		FROM match_participant_sources
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, team_slot ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list participant sources: %w", err)
	}
	defer rows.Close()

	sources := make([]*models.MatchParticipantSource, 0)
	for rows.Next() {
		s := &models.MatchParticipantSource{}
		if err := rows.Scan(
			&s.ID, &s.MatchID, &s.TeamSlot, &s.SourceType, &s.SourceMatchID,
			&s.SourceStageID, &s.SourceStageGroupID, &s.SourcePosition, &s.SourceTeamID,
		); err != nil {
			return nil, err
		}
		sources = append(sources, s)
	}
	return sources, rows.Err()
}

func (r *postgresParticipantSourceRepository) DeleteByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) error {
	if len(matchIDs) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`DELETE FROM match_participant_sources WHERE match_id = ANY($1)`, pq.Array(matchIDs))
	return err
}
