package repository

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

type BookingRepository interface {
	CountByStatus(ctx context.Context, flightID int64) ([]domain.BookingStatusCount, error)
}

type PGBookingRepository struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) CountByStatus(ctx context.Context, flightID int64) ([]domain.BookingStatusCount, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings WHERE flight_id=$1 GROUP BY status ORDER BY status`, flightID)
	if err != nil {
		return nil, mapError(err, "count bookings")
	}
	defer rows.Close()

	counts := make([]domain.BookingStatusCount, 0)
	for rows.Next() {
		var (
			c      domain.BookingStatusCount
			status string
		)
		if err := rows.Scan(&status, &c.Count); err != nil {
			return nil, err
		}
		c.Status = domain.BookingStatus(status)
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
