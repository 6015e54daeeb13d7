package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PilotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Pilot, error)
	List(ctx context.Context) ([]domain.Pilot, error)
}

type PGPilotRepository struct {
	db DB
}

func NewPilotRepository(db DB) PilotRepository {
	return &PGPilotRepository{db: db}
}

const pilotColumns = `id, first_name, last_name, license_no, COALESCE(email, ''), date_of_birth, hire_date`

func scanPilot(row pgx.Row) (*domain.Pilot, error) {
	var (
		p        domain.Pilot
		dob      *time.Time
		hireDate *time.Time
	)
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.LicenseNo, &p.Email, &dob, &hireDate); err != nil {
		return nil, err
	}
	if dob != nil {
		p.DateOfBirth = *dob
	}
	if hireDate != nil {
		p.HireDate = *hireDate
	}
	return &p, nil
}

func (r *PGPilotRepository) GetByID(ctx context.Context, id int64) (*domain.Pilot, error) {
	p, err := scanPilot(r.db.QueryRow(ctx, `SELECT `+pilotColumns+` FROM pilots WHERE id=$1`, id))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("pilot %d", id))
	}
	return p, nil
}

func (r *PGPilotRepository) List(ctx context.Context) ([]domain.Pilot, error) {
	rows, err := r.db.Query(ctx, `SELECT `+pilotColumns+` FROM pilots ORDER BY id`)
	if err != nil {
		return nil, mapError(err, "list pilots")
	}
	defer rows.Close()

	pilots := make([]domain.Pilot, 0)
	for rows.Next() {
		p, err := scanPilot(rows)
		if err != nil {
			return nil, err
		}
		pilots = append(pilots, *p)
	}
	return pilots, rows.Err()
}

var _ PilotRepository = (*PGPilotRepository)(nil)
