package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/cricket-fixtures/models"
)

type ChangeLogRepository interface {
	Append(ctx context.Context, exec SQLExecutor, entry *models.FixtureChangeLog) error
	// DetachMatches nulls match references on log rows when a draft match is
	// deleted. Log rows themselves are append-only and never removed.
	DetachMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) error
}

type postgresChangeLogRepository struct {
	db *sql.DB
}

func NewPostgresChangeLogRepository(db *sql.DB) ChangeLogRepository {
	return &postgresChangeLogRepository{db: db}
}

func (r *postgresChangeLogRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresChangeLogRepository) Append(ctx context.Context, exec SQLExecutor, entry *models.FixtureChangeLog) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_change_log
			(tournament_id, stage_id, match_id, fixture_version_id, action, payload, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		entry.TournamentID,
		entry.StageID,
		entry.MatchID,
		entry.FixtureVersionID,
		entry.Action,
		entry.Payload,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append change log entry %q: %w", entry.Action, err)
	}
	return nil
}

func (r *postgresChangeLogRepository) DetachMatches(ctx context.Context, exec SQLExecutor, matchIDs []int) error {
	if len(matchIDs) == 0 {
		return nil
	}
	executor := r.getExecutor(exec)
	_, err := executor.ExecContext(ctx,
		`UPDATE fixture_change_log SET match_id = NULL WHERE match_id = ANY($1)`, pq.Array(matchIDs))
	return err
}
