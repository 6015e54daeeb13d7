package booking

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/validation"
)

type BookingUseCase interface {
	Summary(ctx context.Context, flightNo string) (*domain.BookingSummary, error)
}

type FlightLookup interface {
	GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error)
}

type BookingService struct {
	bookings repository.BookingRepository
	flights  FlightLookup
	log      logger.Logger
}

type BookingServiceOption func(*BookingService)

func WithLogger(log logger.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func NewBookingService(bookings repository.BookingRepository, flights FlightLookup, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		flights:  flights,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Summary counts the bookings of an existing flight, in total and per status.
func (s *BookingService) Summary(ctx context.Context, flightNo string) (*domain.BookingSummary, error) {
	code, err := validation.NormalizeFlightNumber(flightNo)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByNumber(ctx, code)
	if err != nil {
		return nil, err
	}

	counts, err := s.bookings.CountByStatus(ctx, flight.ID)
	if err != nil {
		return nil, err
	}
	summary := &domain.BookingSummary{Flight: *flight, ByStatus: counts}
	for _, c := range counts {
		summary.Total += c.Count
	}
	s.log.Debug("booking summary", "flight_no", code, "total", summary.Total)
	return summary, nil
}

var _ BookingUseCase = (*BookingService)(nil)
