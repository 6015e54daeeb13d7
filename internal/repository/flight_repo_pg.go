package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type FlightRepository interface {
	NumberTaken(ctx context.Context, flightNo string) (bool, error)
	Exists(ctx context.Context, flightNo string) (bool, error)
	GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flightNo string, patch domain.FlightPatch) error
	Search(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error)
}

type PGFlightRepository struct {
	db DB
}

func NewFlightRepository(db DB) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightViewSelect = `SELECT f.id, f.flight_no, f.origin_id, f.destination_id, f.departure, f.arrival,
       f.status, COALESCE(f.aircraft, ''), f.last_update, o.iata, d.iata
FROM flights f
JOIN destinations o ON f.origin_id = o.id
JOIN destinations d ON f.destination_id = d.id`

func scanFlightView(row pgx.Row) (*domain.FlightView, error) {
	var (
		f      domain.FlightView
		status string
	)
	if err := row.Scan(&f.ID, &f.FlightNo, &f.OriginID, &f.DestinationID, &f.Departure, &f.Arrival,
		&status, &f.Aircraft, &f.LastUpdate, &f.Origin, &f.Destination); err != nil {
		return nil, err
	}
	f.Status = domain.FlightStatus(status)
	return &f, nil
}

func (r *PGFlightRepository) NumberTaken(ctx context.Context, flightNo string) (bool, error) {
	var taken bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE UPPER(flight_no) = UPPER($1))`, flightNo).Scan(&taken)
	return taken, mapError(err, "check flight number")
}

func (r *PGFlightRepository) Exists(ctx context.Context, flightNo string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE flight_no = $1)`, flightNo).Scan(&exists)
	return exists, mapError(err, "check flight")
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error) {
	f, err := scanFlightView(r.db.QueryRow(ctx, flightViewSelect+` WHERE f.flight_no = $1`, flightNo))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("flight %s", flightNo))
	}
	return f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_no, origin_id, destination_id, departure, arrival, status, aircraft, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), now())
		RETURNING id, last_update`,
		flight.FlightNo, flight.OriginID, flight.DestinationID, flight.Departure, flight.Arrival, string(flight.Status), flight.Aircraft).
		Scan(&flight.ID, &flight.LastUpdate)
	return mapError(err, fmt.Sprintf("create flight %s", flight.FlightNo))
}

// Update writes only the fields set in patch; COALESCE keeps the stored value for the rest.
func (r *PGFlightRepository) Update(ctx context.Context, flightNo string, patch domain.FlightPatch) error {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	tag, err := r.db.Exec(ctx, `UPDATE flights
		SET departure   = COALESCE($1, departure),
		    arrival     = COALESCE($2, arrival),
		    status      = COALESCE($3, status),
		    aircraft    = COALESCE($4, aircraft),
		    last_update = now()
		WHERE flight_no = $5`,
		patch.Departure, patch.Arrival, status, patch.Aircraft, flightNo)
	if err != nil {
		return mapError(err, fmt.Sprintf("update flight %s", flightNo))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("flight %s: %w", flightNo, domain.ErrNotFound)
	}
	return nil
}

func (r *PGFlightRepository) Search(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error) {
	where, args, err := buildSearchConditions(filters)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, flightViewSelect+where+` ORDER BY f.departure, f.flight_no`, args...)
	if err != nil {
		return nil, mapError(err, "search flights")
	}
	defer rows.Close()

	flights := make([]domain.FlightView, 0)
	for rows.Next() {
		f, err := scanFlightView(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
