package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) NumberTaken(ctx context.Context, flightNo string) (bool, error) {
	args := m.Called(ctx, flightNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) Exists(ctx context.Context, flightNo string) (bool, error) {
	args := m.Called(ctx, flightNo)
	return args.Bool(0), args.Error(1)
}

func (m *MockFlightRepository) GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error) {
	args := m.Called(ctx, flightNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightView), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flightNo string, patch domain.FlightPatch) error {
	args := m.Called(ctx, flightNo, patch)
	return args.Error(0)
}

func (m *MockFlightRepository) Search(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightView), args.Error(1)
}

type MockAirportResolver struct {
	mock.Mock
}

func (m *MockAirportResolver) Validate(code string) (string, error) {
	args := m.Called(code)
	return args.String(0), args.Error(1)
}

func (m *MockAirportResolver) ResolveToDestinationID(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetSearch(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FlightView), args.Error(1)
}

func (m *MockCache) SetSearch(ctx context.Context, filters []domain.FlightFilter, flights []domain.FlightView) error {
	args := m.Called(ctx, filters, flights)
	return args.Error(0)
}

func (m *MockCache) InvalidateSearches(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

var (
	testNow = time.Date(2025, 9, 30, 12, 0, 0, 0, time.UTC)
	dep     = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)
	arr     = time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
)

func fixedClock() time.Time { return testNow }

func ey999() *domain.FlightView {
	return &domain.FlightView{
		Flight: domain.Flight{
			ID: 13, FlightNo: "EY999", OriginID: 1, DestinationID: 2,
			Departure: dep, Arrival: arr, Status: domain.FlightStatusScheduled,
		},
		Origin:      "ATL",
		Destination: "PEK",
	}
}

func expectAirports(airports *MockAirportResolver) {
	airports.On("Validate", "atl").Return("ATL", nil)
	airports.On("Validate", "PEK").Return("PEK", nil)
	airports.On("ResolveToDestinationID", mock.Anything, "ATL").Return(int64(1), nil)
	airports.On("ResolveToDestinationID", mock.Anything, "PEK").Return(int64(2), nil)
}

func TestFlightService_AddFlight_Success(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	cache := &MockCache{}
	producer := &MockProducer{}
	service := NewFlightService(repo, airports, WithCache(cache), WithProducer(producer, "ops"), WithClock(fixedClock))
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY999").Return(false, nil).Once()
	expectAirports(airports)
	repo.On("Create", ctx, mock.MatchedBy(func(f *domain.Flight) bool {
		return f.FlightNo == "EY999" && f.OriginID == 1 && f.DestinationID == 2 &&
			f.Status == domain.FlightStatusScheduled && f.Aircraft == "A320"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Flight).ID = 13
	}).Return(nil).Once()
	cache.On("InvalidateSearches", ctx).Return(nil).Once()
	producer.On("Publish", ctx, "ops", "EY999", mock.MatchedBy(func(e kafka.OperationEvent) bool {
		return e.Type == kafka.EventFlightAdded && e.Status == "Scheduled" && e.ID != ""
	})).Return(nil).Once()

	got, err := service.AddFlight(ctx, AddFlightInput{
		FlightNo: " ey999 ", Origin: "atl", Destination: "PEK",
		Departure: dep, Arrival: arr, Aircraft: " A320 ",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(13), got.ID)
	assert.Equal(t, "ATL", got.Origin)
	assert.Equal(t, "PEK", got.Destination)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestFlightService_AddFlight_DuplicateNumber(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	service := NewFlightService(repo, airports)
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY101").Return(true, nil).Once()

	_, err := service.AddFlight(ctx, AddFlightInput{FlightNo: "ey101", Origin: "ATL", Destination: "PEK", Departure: dep, Arrival: arr})

	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	airports.AssertNotCalled(t, "Validate", mock.Anything)
}

func TestFlightService_AddFlight_SameEndpoints(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	service := NewFlightService(repo, airports)
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY999").Return(false, nil).Once()
	airports.On("Validate", "ATL").Return("ATL", nil)

	_, err := service.AddFlight(ctx, AddFlightInput{FlightNo: "EY999", Origin: "ATL", Destination: "ATL", Departure: dep, Arrival: arr})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_AddFlight_ArrivalEqualsDeparture(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	service := NewFlightService(repo, airports)
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY999").Return(false, nil).Once()
	expectAirports(airports)

	_, err := service.AddFlight(ctx, AddFlightInput{FlightNo: "EY999", Origin: "atl", Destination: "PEK", Departure: dep, Arrival: dep})

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_AddFlight_UnresolvableDestination(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	service := NewFlightService(repo, airports)
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY999").Return(false, nil).Once()
	airports.On("Validate", "ATL").Return("ATL", nil)
	airports.On("Validate", "JNB").Return("JNB", nil)
	airports.On("ResolveToDestinationID", ctx, "ATL").Return(int64(1), nil)
	airports.On("ResolveToDestinationID", ctx, "JNB").Return(int64(0), domain.ErrNotFound)

	_, err := service.AddFlight(ctx, AddFlightInput{FlightNo: "EY999", Origin: "ATL", Destination: "JNB", Departure: dep, Arrival: arr})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFlightService_AddFlight_PublishFailureIsNotFatal(t *testing.T) {
	repo := &MockFlightRepository{}
	airports := &MockAirportResolver{}
	producer := &MockProducer{}
	service := NewFlightService(repo, airports, WithProducer(producer, "ops"), WithClock(fixedClock))
	ctx := context.Background()

	repo.On("NumberTaken", ctx, "EY999").Return(false, nil).Once()
	expectAirports(airports)
	repo.On("Create", ctx, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, "ops", "EY999", mock.Anything).Return(errors.New("broker down")).Once()

	got, err := service.AddFlight(ctx, AddFlightInput{FlightNo: "EY999", Origin: "atl", Destination: "PEK", Departure: dep, Arrival: arr, Status: domain.FlightStatusDelayed})

	require.NoError(t, err)
	assert.Equal(t, domain.FlightStatusDelayed, got.Status)
	producer.AssertExpectations(t)
}

func TestFlightService_UpdateFlight_NotFound(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithClock(fixedClock))
	ctx := context.Background()

	repo.On("Exists", ctx, "EY404").Return(false, nil).Once()
	status := domain.FlightStatusDelayed

	_, err := service.UpdateFlight(ctx, "ey404", domain.FlightPatch{Status: &status})

	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_UpdateFlight_EmptyPatch(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithClock(fixedClock))
	ctx := context.Background()

	repo.On("Exists", ctx, "EY999").Return(true, nil).Once()

	_, err := service.UpdateFlight(ctx, "EY999", domain.FlightPatch{})

	assert.ErrorIs(t, err, domain.ErrNoChange)
}

func TestFlightService_UpdateFlight_RejectsPastTimes(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithClock(fixedClock))
	ctx := context.Background()

	repo.On("Exists", ctx, "EY999").Return(true, nil)
	past := testNow.Add(-time.Hour)

	_, err := service.UpdateFlight(ctx, "EY999", domain.FlightPatch{Departure: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = service.UpdateFlight(ctx, "EY999", domain.FlightPatch{Arrival: &past})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_UpdateFlight_MergedIntervalMustBeOrdered(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithClock(fixedClock))
	ctx := context.Background()

	repo.On("Exists", ctx, "EY999").Return(true, nil).Once()
	repo.On("GetByNumber", ctx, "EY999").Return(ey999(), nil).Once()
	// later than the stored arrival of 09:00
	newDeparture := time.Date(2025, 10, 1, 9, 30, 0, 0, time.UTC)

	_, err := service.UpdateFlight(ctx, "EY999", domain.FlightPatch{Departure: &newDeparture})

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_UpdateFlight_Success(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	producer := &MockProducer{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithCache(cache), WithProducer(producer, "ops"), WithClock(fixedClock))
	ctx := context.Background()

	delayed := domain.FlightStatusDelayed
	newArrival := time.Date(2025, 10, 1, 10, 0, 0, 0, time.UTC)
	patch := domain.FlightPatch{Arrival: &newArrival, Status: &delayed}

	updated := ey999()
	updated.Arrival = newArrival
	updated.Status = domain.FlightStatusDelayed

	repo.On("Exists", ctx, "EY999").Return(true, nil).Once()
	repo.On("GetByNumber", ctx, "EY999").Return(ey999(), nil).Once()
	repo.On("Update", ctx, "EY999", patch).Return(nil).Once()
	repo.On("GetByNumber", ctx, "EY999").Return(updated, nil).Once()
	cache.On("InvalidateSearches", ctx).Return(nil).Once()
	producer.On("Publish", ctx, "ops", "EY999", mock.MatchedBy(func(e kafka.OperationEvent) bool {
		return e.Type == kafka.EventFlightUpdated && e.Status == "Delayed"
	})).Return(nil).Once()

	got, err := service.UpdateFlight(ctx, "EY999", patch)

	require.NoError(t, err)
	assert.Equal(t, updated, got)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestFlightService_BuildFilter(t *testing.T) {
	airports := &MockAirportResolver{}
	service := NewFlightService(&MockFlightRepository{}, airports)

	airports.On("Validate", "pek").Return("PEK", nil)
	airports.On("Validate", "atl").Return("ATL", nil)
	airports.On("Validate", "ZZZ").Return("", domain.ErrInvalidInput)

	f, err := service.BuildFilter(domain.FilterDestination, "pek")
	require.NoError(t, err)
	assert.Equal(t, domain.DestinationFilter{Code: "PEK"}, f)

	f, err = service.BuildFilter(domain.FilterOrigin, "atl")
	require.NoError(t, err)
	assert.Equal(t, domain.OriginFilter{Code: "ATL"}, f)

	f, err = service.BuildFilter(domain.FilterStatus, "scheduled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFilter{Status: domain.FlightStatusScheduled}, f)

	f, err = service.BuildFilter(domain.FilterDepartureDate, "2025-10-01")
	require.NoError(t, err)
	assert.Equal(t, domain.DepartureDateFilter{Date: time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)}, f)

	_, err = service.BuildFilter(domain.FilterOrigin, "ZZZ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.BuildFilter(domain.FilterStatus, "Boarding")
	assert.ErrorIs(t, err, domain.ErrInvalidEnum)

	_, err = service.BuildFilter(domain.FilterDepartureDate, "01/10/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = service.BuildFilter(domain.FilterKind(9), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidSelection)
}

func TestFlightService_Search_CacheMiss(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithCache(cache))
	ctx := context.Background()

	filters := []domain.FlightFilter{domain.StatusFilter{Status: domain.FlightStatusScheduled}}
	flights := []domain.FlightView{*ey999()}

	cache.On("GetSearch", ctx, filters).Return(nil, nil).Once()
	repo.On("Search", ctx, filters).Return(flights, nil).Once()
	cache.On("SetSearch", ctx, filters, flights).Return(nil).Once()

	got, err := service.Search(ctx, filters)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
	cache.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithCache(cache))
	ctx := context.Background()

	flights := []domain.FlightView{*ey999()}
	cache.On("GetSearch", ctx, []domain.FlightFilter(nil)).Return(flights, nil).Once()

	got, err := service.Search(ctx, nil)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "SetSearch", mock.Anything, mock.Anything, mock.Anything)
}

func TestFlightService_Search_CacheErrorFallsBack(t *testing.T) {
	repo := &MockFlightRepository{}
	cache := &MockCache{}
	service := NewFlightService(repo, &MockAirportResolver{}, WithCache(cache))
	ctx := context.Background()

	flights := []domain.FlightView{*ey999()}
	cache.On("GetSearch", ctx, []domain.FlightFilter(nil)).Return(nil, errors.New("redis down")).Once()
	repo.On("Search", ctx, []domain.FlightFilter(nil)).Return(flights, nil).Once()
	cache.On("SetSearch", ctx, []domain.FlightFilter(nil), flights).Return(errors.New("redis down")).Once()

	got, err := service.Search(ctx, nil)

	assert.NoError(t, err)
	assert.Equal(t, flights, got)
}

func TestFlightService_Search_WithoutCache(t *testing.T) {
	repo := &MockFlightRepository{}
	service := NewFlightService(repo, &MockAirportResolver{})
	ctx := context.Background()

	repo.On("Search", ctx, []domain.FlightFilter(nil)).Return(nil, errors.New("connection lost")).Once()

	_, err := service.Search(ctx, nil)

	assert.EqualError(t, err, "connection lost")
}
