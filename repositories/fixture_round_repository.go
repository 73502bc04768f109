package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/cricket-fixtures/models"
)

type FixtureRoundRepository interface {
	Create(ctx context.Context, exec SQLExecutor, round *models.FixtureRound) error
	ListByVersion(ctx context.Context, exec SQLExecutor, versionID int) ([]*models.FixtureRound, error)
}

type postgresFixtureRoundRepository struct {
	db *sql.DB
}

func NewPostgresFixtureRoundRepository(db *sql.DB) FixtureRoundRepository {
	return &postgresFixtureRoundRepository{db: db}
}

func (r *postgresFixtureRoundRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresFixtureRoundRepository) Create(ctx context.Context, exec SQLExecutor, round *models.FixtureRound) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO fixture_rounds
			(tournament_id, stage_id, fixture_version_id, round_number, round_name, pairing_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	err := executor.QueryRowContext(ctx, query,
		round.TournamentID,
		round.StageID,
		round.FixtureVersionID,
		round.RoundNumber,
		round.RoundName,
		round.PairingMethod,
	).Scan(&round.ID)
	if err != nil {
		return fmt.Errorf("failed to create fixture round %d for stage %d: %w",
			round.RoundNumber, round.StageID, err)
	}
	return nil
}

func (r *postgresFixtureRoundRepository) ListByVersion(ctx context.Context, exec SQLExecutor, versionID int) ([]*models.FixtureRound, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, stage_id, fixture_version_id, round_number, round_name, pairing_method
		FROM fixture_rounds
		WHERE fixture_version_id = $1
		ORDER BY round_number ASC`

	rows, err := executor.QueryContext(ctx, query, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixture rounds for version %d: %w", versionID, err)
	}
	defer rows.Close()

	rounds := make([]*models.FixtureRound, 0)
	for rows.Next() {
		fr := &models.FixtureRound{}
		if err := rows.Scan(
			&fr.ID, &fr.TournamentID, &fr.StageID, &fr.FixtureVersionID,
			&fr.RoundNumber, &fr.RoundName, &fr.PairingMethod,
		); err != nil {
			return nil, err
		}
		rounds = append(rounds, fr)
	}
	return rounds, rows.Err()
}
