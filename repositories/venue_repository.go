package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/cricket-fixtures/models"
)

type VenueRepository interface {
	ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Venue, error)
	// ListByTournament returns venues linked to the tournament via
	// tournament_venues, in link order.
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Venue, error)
	ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Venue, error)
}

type postgresVenueRepository struct {
	db *sql.DB
}

func NewPostgresVenueRepository(db *sql.DB) VenueRepository {
	return &postgresVenueRepository{db: db}
}

func (r *postgresVenueRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresVenueRepository) ListByIDs(ctx context.Context, exec SQLExecutor, ids []int) ([]*models.Venue, error) {
	if len(ids) == 0 {
		return []*models.Venue{}, nil
	}
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, city, opening_minutes, closing_minutes
		FROM venues
		WHERE id = ANY($1)
		ORDER BY id ASC`

	rows, err := executor.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list venues by ids: %w", err)
	}
	defer rows.Close()
	return collectVenues(rows)
}

func (r *postgresVenueRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Venue, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT v.id, v.name, v.city, v.opening_minutes, v.closing_minutes
		FROM venues v
		JOIN tournament_venues tv ON tv.venue_id = v.id
		WHERE tv.tournament_id = $1
		ORDER BY tv.sequence ASC, v.id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()
	return collectVenues(rows)
}

func (r *postgresVenueRepository) ListAll(ctx context.Context, exec SQLExecutor) ([]*models.Venue, error) {
	executor := r.getExecutor(exec)
	rows, err := executor.QueryContext(ctx,
		`SELECT id, name, city, opening_minutes, closing_minutes FROM venues ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list venues: %w", err)
	}
	defer rows.Close()
	return collectVenues(rows)
}

func collectVenues(rows *sql.Rows) ([]*models.Venue, error) {
	venues := make([]*models.Venue, 0)
	for rows.Next() {
		v := &models.Venue{}
		if err := rows.Scan(&v.ID, &v.Name, &v.City, &v.OpeningMinutes, &v.ClosingMinutes); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
