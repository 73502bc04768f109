package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

type VersionMatchRepository interface {
	// BatchCreate snapshots matches into the append-only version-match bridge.
	// Rows are never updated or deleted afterwards.
	BatchCreate(ctx context.Context, exec SQLExecutor, versionID int, matchIDs []int, snapshots []string) error
}

type postgresVersionMatchRepository struct {
	db *sql.DB
}

func NewPostgresVersionMatchRepository(db *sql.DB) VersionMatchRepository {
	return &postgresVersionMatchRepository{db: db}
}

func (r *postgresVersionMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresVersionMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, versionID int, matchIDs []int, snapshots []string) error {
	if len(matchIDs) == 0 {
		return nil
	}
	if len(matchIDs) != len(snapshots) {
		return fmt.Errorf("version match batch: %d match ids but %d snapshots", len(matchIDs), len(snapshots))
	}

	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_version_matches (fixture_version_id, match_id, sequence, snapshot)
		VALUES ($1, $2, $3, $4)`

	for i, matchID := range matchIDs {
		if _, err := executor.ExecContext(ctx, query, versionID, matchID, i, snapshots[i]); err != nil {
			return fmt.Errorf("failed to snapshot match %d into version %d: %w", matchID, versionID, err)
		}
	}
	return nil
}
