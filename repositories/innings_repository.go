package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/cricket-fixtures/models"
)

// InningsRepository reads innings totals owned by the scoring subsystem.
// The fixture core never writes these rows.
type InningsRepository interface {
	ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.Innings, error)
}

type postgresInningsRepository struct {
	db *sql.DB
}

func NewPostgresInningsRepository(db *sql.DB) InningsRepository {
	return &postgresInningsRepository{db: db}
}

func (r *postgresInningsRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresInningsRepository) ListByMatchIDs(ctx context.Context, exec SQLExecutor, matchIDs []int) ([]*models.Innings, error) {
	if len(matchIDs) == 0 {
		return []*models.Innings{}, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, batting_team_id, bowling_team_id, runs, wickets, balls
		FROM innings
		WHERE match_id = ANY($1)
		ORDER BY match_id ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(matchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list innings: %w", err)
	}
	defer rows.Close()

	innings := make([]*models.Innings, 0)
	for rows.Next() {
		in := &models.Innings{}
		if err := rows.Scan(
			&in.ID, &in.MatchID, &in.BattingTeamID, &in.BowlingTeamID,
			&in.Runs, &in.Wickets, &in.Balls,
		); err != nil {
			return nil, err
		}
		innings = append(innings, in)
	}
	return innings, rows.Err()
}
