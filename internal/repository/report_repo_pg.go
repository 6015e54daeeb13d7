package repository

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type ReportRepository interface {
	FlightsPerDestination(ctx context.Context) ([]domain.DestinationTraffic, error)
	AssignmentsPerPilot(ctx context.Context) ([]domain.PilotWorkload, error)
}

type PGReportRepository struct {
	db DB
}

func NewReportRepository(db DB) ReportRepository {
	return &PGReportRepository{db: db}
}

func (r *PGReportRepository) FlightsPerDestination(ctx context.Context) ([]domain.DestinationTraffic, error) {
	rows, err := r.db.Query(ctx, `SELECT d.iata, d.city, d.country, COUNT(f.id)
	FROM destinations d
	LEFT JOIN flights f ON f.destination_id = d.id
	GROUP BY d.id, d.iata, d.city, d.country
	ORDER BY COUNT(f.id) DESC, d.iata`)
	if err != nil {
		return nil, mapError(err, "flights per destination")
	}
	defer rows.Close()

	report := make([]domain.DestinationTraffic, 0)
	for rows.Next() {
		var t domain.DestinationTraffic
		if err := rows.Scan(&t.IATA, &t.City, &t.Country, &t.TotalFlights); err != nil {
			return nil, err
		}
		report = append(report, t)
	}
	return report, rows.Err()
}

func (r *PGReportRepository) AssignmentsPerPilot(ctx context.Context) ([]domain.PilotWorkload, error) {
	rows, err := r.db.Query(ctx, `SELECT p.id, p.first_name || ' ' || p.last_name, COUNT(fc.flight_id)
	FROM pilots p
	LEFT JOIN flight_crew fc ON fc.pilot_id = p.id
	GROUP BY p.id, p.first_name, p.last_name
	ORDER BY COUNT(fc.flight_id) DESC, p.id`)
	if err != nil {
		return nil, mapError(err, "assignments per pilot")
	}
	defer rows.Close()

	report := make([]domain.PilotWorkload, 0)
	for rows.Next() {
		var w domain.PilotWorkload
		if err := rows.Scan(&w.PilotID, &w.Name, &w.TotalAssigned); err != nil {
			return nil, err
		}
		report = append(report, w)
	}
	return report, rows.Err()
}

var _ ReportRepository = (*PGReportRepository)(nil)
