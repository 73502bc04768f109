package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/cricket-fixtures/models"
)

var ErrFixtureVersionNotFound = errors.New("fixture version not found")

type FixtureVersionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, version *models.FixtureVersion) error
	// NextVersionNumber computes max+1 for the tournament. Called inside the
	// same transaction as Create, so the number stays monotonic and gapless.
	NextVersionNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	GetPublished(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.FixtureVersion, error)
	ArchivePublished(ctx context.Context, exec SQLExecutor, tournamentID int, archivedAt time.Time) error
	LatestDraftForStage(ctx context.Context, exec SQLExecutor, tournamentID, stageID int) (*models.FixtureVersion, error)
}

type postgresFixtureVersionRepository struct {
	db *sql.DB
}

func NewPostgresFixtureVersionRepository(db *sql.DB) FixtureVersionRepository {
	return &postgresFixtureVersionRepository{db: db}
}

func (r *postgresFixtureVersionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const versionColumns = `
	id, tournament_id, stage_id, version_number, status, label,
	published_at, archived_at, created_at`

func scanVersion(rowScanner interface{ Scan(...interface{}) error }) (*models.FixtureVersion, error) {
	v := &models.FixtureVersion{}
	err := rowScanner.Scan(
		&v.ID, &v.TournamentID, &v.StageID, &v.VersionNumber, &v.Status, &v.Label,
		&v.PublishedAt, &v.ArchivedAt, &v.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFixtureVersionNotFound
		}
		return nil, err
	}
	return v, nil
}

func (r *postgresFixtureVersionRepository) Create(ctx context.Context, exec SQLExecutor, version *models.FixtureVersion) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_versions
			(tournament_id, stage_id, version_number, status, label, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		version.TournamentID,
		version.StageID,
		version.VersionNumber,
		version.Status,
		version.Label,
		version.PublishedAt,
	).Scan(&version.ID, &version.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fixture version for tournament %d: %w", version.TournamentID, err)
	}
	return nil
}

func (r *postgresFixtureVersionRepository) NextVersionNumber(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var next int
	err := executor.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM fixture_versions WHERE tournament_id = $1`,
		tournamentID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next version number for tournament %d: %w", tournamentID, err)
	}
	return next, nil
}

func (r *postgresFixtureVersionRepository) GetPublished(ctx context.Context, exec SQLExecutor, tournamentID int) (*models.FixtureVersion, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + versionColumns + `
		FROM fixture_versions
		WHERE tournament_id = $1 AND status = $2`
	return scanVersion(executor.QueryRowContext(ctx, query, tournamentID, models.VersionStatusPublished))
}

func (r *postgresFixtureVersionRepository) ArchivePublished(ctx context.Context, exec SQLExecutor, tournamentID int, archivedAt time.Time) error {
	executor := r.getExecutor(exec)
	// Zero affected rows is fine: the first publish has nothing to archive.
	_, err := executor.ExecContext(ctx, `
		UPDATE fixture_versions
		SET status = $1, archived_at = $2
		WHERE tournament_id = $3 AND status = $4`,
		models.VersionStatusArchived, archivedAt, tournamentID, models.VersionStatusPublished,
	)
	if err != nil {
		return fmt.Errorf("failed to archive published version for tournament %d: %w", tournamentID, err)
	}
	return nil
}

func (r *postgresFixtureVersionRepository) LatestDraftForStage(ctx context.Context, exec SQLExecutor, tournamentID, stageID int) (*models.FixtureVersion, error) {
	executor := r.getExecutor(exec)
	query := `SELECT` + versionColumns + `
		FROM fixture_versions
		WHERE tournament_id = $1 AND stage_id = $2 AND status = $3
		ORDER BY version_number DESC
		LIMIT 1`
	return scanVersion(executor.QueryRowContext(ctx, query, tournamentID, stageID, models.VersionStatusDraft))
}
