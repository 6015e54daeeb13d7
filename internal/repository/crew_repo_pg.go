package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type CrewRepository interface {
	// FindByPilot returns the pilot's assignment on the flight, or nil when there is none.
	FindByPilot(ctx context.Context, flightID, pilotID int64) (*domain.CrewAssignment, error)
	// FindBySlot returns the assignment holding (flight, role), or nil when the slot is empty.
	FindBySlot(ctx context.Context, flightID int64, role domain.CrewRole) (*domain.CrewAssignment, error)
	Insert(ctx context.Context, assignment *domain.CrewAssignment) error
	Replace(ctx context.Context, current *domain.CrewAssignment, pilotID int64, at time.Time) (*domain.CrewAssignment, error)
	ListByFlight(ctx context.Context, flightID int64) ([]domain.CrewAssignment, error)
	ScheduleForPilot(ctx context.Context, pilotID int64) ([]domain.ScheduleEntry, error)
}

type PGCrewRepository struct {
	db DB
}

func NewCrewRepository(db DB) CrewRepository {
	return &PGCrewRepository{db: db}
}

const crewColumns = `id, flight_id, pilot_id, role, assigned_at`

func scanAssignment(row pgx.Row) (*domain.CrewAssignment, error) {
	var (
		a    domain.CrewAssignment
		role string
	)
	if err := row.Scan(&a.ID, &a.FlightID, &a.PilotID, &role, &a.AssignedAt); err != nil {
		return nil, err
	}
	a.Role = domain.CrewRole(role)
	return &a, nil
}

func (r *PGCrewRepository) find(ctx context.Context, query string, args ...any) (*domain.CrewAssignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "find crew assignment")
	}
	return a, nil
}

func (r *PGCrewRepository) FindByPilot(ctx context.Context, flightID, pilotID int64) (*domain.CrewAssignment, error) {
	return r.find(ctx, `SELECT `+crewColumns+` FROM flight_crew WHERE flight_id=$1 AND pilot_id=$2`, flightID, pilotID)
}

func (r *PGCrewRepository) FindBySlot(ctx context.Context, flightID int64, role domain.CrewRole) (*domain.CrewAssignment, error) {
	return r.find(ctx, `SELECT `+crewColumns+` FROM flight_crew WHERE flight_id=$1 AND role=$2`, flightID, string(role))
}

// Insert claims an empty slot. The write is conditional on the slot still
// being free, so a slot taken since it was read surfaces as a conflict.
func (r *PGCrewRepository) Insert(ctx context.Context, assignment *domain.CrewAssignment) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flight_crew (pilot_id, flight_id, role, assigned_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (flight_id, role) DO NOTHING
		RETURNING id`,
		assignment.PilotID, assignment.FlightID, string(assignment.Role), assignment.AssignedAt).
		Scan(&assignment.ID)
	return crewError(err, assignment.FlightID, assignment.Role)
}

// Replace overwrites the pilot of an occupied slot in place, provided the
// incumbent read earlier still holds it.
func (r *PGCrewRepository) Replace(ctx context.Context, current *domain.CrewAssignment, pilotID int64, at time.Time) (*domain.CrewAssignment, error) {
	a, err := scanAssignment(r.db.QueryRow(ctx, `UPDATE flight_crew
		SET pilot_id = $1, assigned_at = $2
		WHERE id = $3 AND pilot_id = $4
		RETURNING `+crewColumns,
		pilotID, at, current.ID, current.PilotID))
	if err != nil {
		return nil, crewError(err, current.FlightID, current.Role)
	}
	return a, nil
}

func crewError(err error, flightID int64, role domain.CrewRole) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("slot %s on flight %d changed concurrently: %w", role, flightID, domain.ErrAssignmentConflict)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("slot %s on flight %d violates %s: %w", role, flightID, pgErr.ConstraintName, domain.ErrAssignmentConflict)
	}
	return mapError(err, "write crew assignment")
}

func (r *PGCrewRepository) ListByFlight(ctx context.Context, flightID int64) ([]domain.CrewAssignment, error) {
	rows, err := r.db.Query(ctx, `SELECT `+crewColumns+` FROM flight_crew WHERE flight_id=$1 ORDER BY role`, flightID)
	if err != nil {
		return nil, mapError(err, "list crew")
	}
	defer rows.Close()

	crew := make([]domain.CrewAssignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		crew = append(crew, *a)
	}
	return crew, rows.Err()
}

func (r *PGCrewRepository) ScheduleForPilot(ctx context.Context, pilotID int64) ([]domain.ScheduleEntry, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.first_name || ' ' || p.last_name, fc.role,
	       f.flight_no, f.departure, f.arrival, f.status, o.iata, d.iata, fc.assigned_at
	FROM flight_crew fc
	JOIN pilots p ON fc.pilot_id = p.id
	JOIN flights f ON fc.flight_id = f.id
	JOIN destinations o ON f.origin_id = o.id
	JOIN destinations d ON f.destination_id = d.id
	WHERE p.id = $1
	ORDER BY f.departure`, pilotID)
	if err != nil {
		return nil, mapError(err, "pilot schedule")
	}
	defer rows.Close()

	schedule := make([]domain.ScheduleEntry, 0)
	for rows.Next() {
		var (
			e            domain.ScheduleEntry
			role, status string
		)
		if err := rows.Scan(&e.PilotID, &e.PilotName, &role, &e.FlightNo, &e.Departure, &e.Arrival,
			&status, &e.Origin, &e.Destination, &e.AssignedAt); err != nil {
			return nil, err
		}
		e.Role = domain.CrewRole(role)
		e.Status = domain.FlightStatus(status)
		schedule = append(schedule, e)
	}
	return schedule, rows.Err()
}

var _ CrewRepository = (*PGCrewRepository)(nil)
