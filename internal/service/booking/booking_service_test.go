package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context, flightID int64) ([]domain.BookingStatusCount, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingStatusCount), args.Error(1)
}

type MockFlightLookup struct {
	mock.Mock
}

func (m *MockFlightLookup) GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error) {
	args := m.Called(ctx, flightNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightView), args.Error(1)
}

func ey101() *domain.FlightView {
	return &domain.FlightView{
		Flight: domain.Flight{ID: 1, FlightNo: "EY101", Departure: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)},
		Origin: "ATL", Destination: "PEK",
	}
}

func TestBookingService_Summary_Success(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightLookup{}
	service := NewBookingService(bookings, flights)
	ctx := context.Background()

	counts := []domain.BookingStatusCount{
		{Status: domain.BookingStatusBooked, Count: 2},
		{Status: domain.BookingStatusCheckedIn, Count: 1},
	}
	flights.On("GetByNumber", ctx, "EY101").Return(ey101(), nil).Once()
	bookings.On("CountByStatus", ctx, int64(1)).Return(counts, nil).Once()

	summary, err := service.Summary(ctx, " ey101 ")

	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, counts, summary.ByStatus)
	assert.Equal(t, "PEK", summary.Flight.Destination)
	flights.AssertExpectations(t)
	bookings.AssertExpectations(t)
}

func TestBookingService_Summary_NoBookings(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightLookup{}
	service := NewBookingService(bookings, flights)
	ctx := context.Background()

	flights.On("GetByNumber", ctx, "EY101").Return(ey101(), nil).Once()
	bookings.On("CountByStatus", ctx, int64(1)).Return([]domain.BookingStatusCount{}, nil).Once()

	summary, err := service.Summary(ctx, "EY101")

	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Empty(t, summary.ByStatus)
}

func TestBookingService_Summary_UnknownFlight(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightLookup{}
	service := NewBookingService(bookings, flights)
	ctx := context.Background()

	flights.On("GetByNumber", ctx, "EY404").Return(nil, domain.ErrNotFound).Once()

	_, err := service.Summary(ctx, "EY404")

	assert.ErrorIs(t, err, domain.ErrNotFound)
	bookings.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything)
}

func TestBookingService_Summary_EmptyNumber(t *testing.T) {
	service := NewBookingService(&MockBookingRepository{}, &MockFlightLookup{})

	_, err := service.Summary(context.Background(), "")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBookingService_Summary_RepositoryError(t *testing.T) {
	bookings := &MockBookingRepository{}
	flights := &MockFlightLookup{}
	service := NewBookingService(bookings, flights)
	ctx := context.Background()

	flights.On("GetByNumber", ctx, "EY101").Return(ey101(), nil).Once()
	bookings.On("CountByStatus", ctx, int64(1)).Return(nil, errors.New("connection lost")).Once()

	_, err := service.Summary(ctx, "EY101")

	assert.EqualError(t, err, "connection lost")
}
