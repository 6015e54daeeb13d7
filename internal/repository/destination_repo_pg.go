package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type DestinationRepository interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Destination, error)
	GetByID(ctx context.Context, id int64) (*domain.Destination, error)
	IDByIATA(ctx context.Context, iata string) (int64, error)
	SetActive(ctx context.Context, id int64, active bool) (*domain.Destination, error)
}

type PGDestinationRepository struct {
	db DB
}

func NewDestinationRepository(db DB) DestinationRepository {
	return &PGDestinationRepository{db: db}
}

const destinationColumns = `id, iata, airport_name, city, country, is_active`

func scanDestination(row pgx.Row) (*domain.Destination, error) {
	var d domain.Destination
	if err := row.Scan(&d.ID, &d.IATA, &d.AirportName, &d.City, &d.Country, &d.IsActive); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PGDestinationRepository) List(ctx context.Context, activeOnly bool) ([]domain.Destination, error) {
	rows, err := r.db.Query(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE is_active OR NOT $1 ORDER BY id`, activeOnly)
	if err != nil {
		return nil, mapError(err, "list destinations")
	}
	defer rows.Close()

	destinations := make([]domain.Destination, 0)
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		destinations = append(destinations, *d)
	}
	return destinations, rows.Err()
}

func (r *PGDestinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	d, err := scanDestination(r.db.QueryRow(ctx, `SELECT `+destinationColumns+` FROM destinations WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("destination %d", id))
	}
	return d, nil
}

func (r *PGDestinationRepository) IDByIATA(ctx context.Context, iata string) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, `SELECT id FROM destinations WHERE iata=$1`, iata).Scan(&id); err != nil {
		return 0, mapError(err, fmt.Sprintf("destination %s", iata))
	}
	return id, nil
}

// SetActive updates only the active flag and returns the row as stored.
func (r *PGDestinationRepository) SetActive(ctx context.Context, id int64, active bool) (*domain.Destination, error) {
	d, err := scanDestination(r.db.QueryRow(ctx, `UPDATE destinations SET is_active=$1 WHERE id=$2 RETURNING `+destinationColumns, active, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("destination %d", id))
	}
	return d, nil
}

var _ DestinationRepository = (*PGDestinationRepository)(nil)
