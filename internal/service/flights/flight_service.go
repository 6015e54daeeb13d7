package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/validation"
)

type FlightUseCase interface {
	AddFlight(ctx context.Context, input AddFlightInput) (*domain.FlightView, error)
	UpdateFlight(ctx context.Context, flightNo string, patch domain.FlightPatch) (*domain.FlightView, error)
	GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error)
	EnsureUniqueFlightNumber(ctx context.Context, flightNo string) (string, error)
	EnsureFlightExists(ctx context.Context, flightNo string) (string, error)
	BuildFilter(kind domain.FilterKind, raw string) (domain.FlightFilter, error)
	Search(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error)
}

// Cache holds criteria-search results. GetSearch returns nil, nil on a miss.
type Cache interface {
	GetSearch(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error)
	SetSearch(ctx context.Context, filters []domain.FlightFilter, flights []domain.FlightView) error
	InvalidateSearches(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// AirportResolver checks codes against the airport allow-list and maps them to destination rows.
type AirportResolver interface {
	Validate(code string) (string, error)
	ResolveToDestinationID(ctx context.Context, code string) (int64, error)
}

type AddFlightInput struct {
	FlightNo    string
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	// Status defaults to Scheduled when empty.
	Status   domain.FlightStatus
	Aircraft string
}

type FlightService struct {
	repo     repository.FlightRepository
	rules    *validation.Rules
	airports AirportResolver
	cache    Cache
	producer Producer
	topic    string
	log      logger.Logger
	now      func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithCache(cache Cache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

func WithProducer(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(log logger.Logger) FlightServiceOption {
	return func(s *FlightService) {
		s.log = log
	}
}

// WithClock replaces the wall clock used for the not-in-the-past check and event times.
func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(repo repository.FlightRepository, airports AirportResolver, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{
		repo:     repo,
		rules:    validation.NewRules(repo),
		airports: airports,
		log:      logger.NewNop(),
		now:      domain.WallClockNow,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// EnsureUniqueFlightNumber normalizes flightNo and rejects it if any flight already uses it.
func (s *FlightService) EnsureUniqueFlightNumber(ctx context.Context, flightNo string) (string, error) {
	code, err := validation.NormalizeFlightNumber(flightNo)
	if err != nil {
		return "", err
	}
	if err := s.rules.EnsureUniqueFlightNumber(ctx, code); err != nil {
		return "", err
	}
	return code, nil
}

// EnsureFlightExists normalizes flightNo and rejects it unless a flight has exactly that code.
func (s *FlightService) EnsureFlightExists(ctx context.Context, flightNo string) (string, error) {
	code, err := validation.NormalizeFlightNumber(flightNo)
	if err != nil {
		return "", err
	}
	if err := s.rules.EnsureFlightExists(ctx, code); err != nil {
		return "", err
	}
	return code, nil
}

func (s *FlightService) AddFlight(ctx context.Context, input AddFlightInput) (*domain.FlightView, error) {
	code, err := s.EnsureUniqueFlightNumber(ctx, input.FlightNo)
	if err != nil {
		return nil, err
	}

	origin, err := s.airports.Validate(input.Origin)
	if err != nil {
		return nil, err
	}
	destination, err := s.airports.Validate(input.Destination)
	if err != nil {
		return nil, err
	}
	if origin == destination {
		return nil, fmt.Errorf("destination cannot be the same as origin (%s): %w", origin, domain.ErrInvalidInput)
	}
	originID, err := s.airports.ResolveToDestinationID(ctx, origin)
	if err != nil {
		return nil, err
	}
	destinationID, err := s.airports.ResolveToDestinationID(ctx, destination)
	if err != nil {
		return nil, err
	}

	if err := validation.EnsureOrderedInterval(input.Departure, input.Arrival); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.FlightStatusScheduled
	}
	if !status.Valid() {
		return nil, fmt.Errorf("status %q: %w", status, domain.ErrInvalidEnum)
	}

	flight := &domain.Flight{
		FlightNo:      code,
		OriginID:      originID,
		DestinationID: destinationID,
		Departure:     input.Departure,
		Arrival:       input.Arrival,
		Status:        status,
		Aircraft:      strings.TrimSpace(input.Aircraft),
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.log.Info("flight added", "flight_no", code, "origin", origin, "destination", destination)

	s.invalidate(ctx)
	s.publish(ctx, kafka.EventFlightAdded, flight)

	return &domain.FlightView{Flight: *flight, Origin: origin, Destination: destination}, nil
}

// UpdateFlight applies patch over the stored flight. New times may not lie in
// the past, and the merged departure/arrival pair must stay ordered.
func (s *FlightService) UpdateFlight(ctx context.Context, flightNo string, patch domain.FlightPatch) (*domain.FlightView, error) {
	code, err := s.EnsureFlightExists(ctx, flightNo)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, fmt.Errorf("nothing to update for flight %s: %w", code, domain.ErrNoChange)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", *patch.Status, domain.ErrInvalidEnum)
	}

	now := s.now()
	if patch.Departure != nil && patch.Departure.Before(now) {
		return nil, fmt.Errorf("departure %s is in the past: %w", patch.Departure.Format(validation.DateTimeLayout), domain.ErrInvalidRange)
	}
	if patch.Arrival != nil && patch.Arrival.Before(now) {
		return nil, fmt.Errorf("arrival %s is in the past: %w", patch.Arrival.Format(validation.DateTimeLayout), domain.ErrInvalidRange)
	}

	current, err := s.repo.GetByNumber(ctx, code)
	if err != nil {
		return nil, err
	}
	departure, arrival := current.Departure, current.Arrival
	if patch.Departure != nil {
		departure = *patch.Departure
	}
	if patch.Arrival != nil {
		arrival = *patch.Arrival
	}
	if err := validation.EnsureOrderedInterval(departure, arrival); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, code, patch); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByNumber(ctx, code)
	if err != nil {
		return nil, err
	}
	s.log.Info("flight updated", "flight_no", code, "status", updated.Status)

	s.invalidate(ctx)
	s.publish(ctx, kafka.EventFlightUpdated, &updated.Flight)

	return updated, nil
}

func (s *FlightService) GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error) {
	code, err := validation.NormalizeFlightNumber(flightNo)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByNumber(ctx, code)
}

// BuildFilter validates raw for the given kind and returns the matching filter variant.
func (s *FlightService) BuildFilter(kind domain.FilterKind, raw string) (domain.FlightFilter, error) {
	switch kind {
	case domain.FilterDestination:
		code, err := s.airports.Validate(raw)
		if err != nil {
			return nil, err
		}
		return domain.DestinationFilter{Code: code}, nil
	case domain.FilterOrigin:
		code, err := s.airports.Validate(raw)
		if err != nil {
			return nil, err
		}
		return domain.OriginFilter{Code: code}, nil
	case domain.FilterStatus:
		status, err := validation.EnsureKnownStatus(raw)
		if err != nil {
			return nil, err
		}
		return domain.StatusFilter{Status: status}, nil
	case domain.FilterDepartureDate:
		day, err := validation.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		return domain.DepartureDateFilter{Date: day}, nil
	default:
		return nil, fmt.Errorf("filter kind %d: %w", kind, domain.ErrInvalidSelection)
	}
}

// Search returns flights matching every filter, ordered by departure. No filters returns all flights.
func (s *FlightService) Search(ctx context.Context, filters []domain.FlightFilter) ([]domain.FlightView, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetSearch(ctx, filters); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("search cache read failed", "error", err)
		}
	}

	flights, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetSearch(ctx, filters, flights); err != nil {
			s.log.Warn("search cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSearches(ctx); err != nil {
		s.log.Warn("search cache invalidation failed", "error", err)
	}
}

func (s *FlightService) publish(ctx context.Context, eventType string, flight *domain.Flight) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.NewOperationEvent(eventType, s.now())
	event.FlightNo = flight.FlightNo
	event.Status = string(flight.Status)
	if err := s.producer.Publish(ctx, s.topic, event.Key(), event); err != nil {
		s.log.Warn("failed to publish event", "type", eventType, "flight_no", flight.FlightNo, "error", err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
