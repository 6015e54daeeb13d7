// Package crew assigns pilots to the Captain and Co-Captain slots of a flight.
package crew

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/Domenick1991/flightdesk/internal/validation"
)

type CrewUseCase interface {
	Assign(ctx context.Context, req AssignRequest, confirm ConfirmFunc) (*AssignResult, error)
	Schedule(ctx context.Context, pilotID int64) (*domain.Pilot, []domain.ScheduleEntry, error)
	Crew(ctx context.Context, flightNo string) (*domain.FlightView, []domain.CrewAssignment, error)
}

type FlightLookup interface {
	GetByNumber(ctx context.Context, flightNo string) (*domain.FlightView, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type AssignRequest struct {
	PilotID  int64
	FlightNo string
	Role     domain.CrewRole
}

// Replacement describes an occupied slot the requested pilot would take over.
type Replacement struct {
	Flight    domain.FlightView
	Role      domain.CrewRole
	Incumbent domain.Pilot
	Candidate domain.Pilot
}

// ConfirmFunc is asked before an incumbent is displaced. A nil ConfirmFunc declines.
type ConfirmFunc func(ctx context.Context, r Replacement) (bool, error)

type Outcome string

const (
	OutcomeAssigned   Outcome = "assigned"
	OutcomeReassigned Outcome = "reassigned"
	OutcomeCancelled  Outcome = "cancelled"
)

type AssignResult struct {
	Outcome    Outcome
	Assignment *domain.CrewAssignment
	// Incumbent is set when the slot was occupied by another pilot.
	Incumbent *domain.Pilot
	// Schedule is the pilot's schedule after the write; empty when cancelled.
	Schedule []domain.ScheduleEntry
}

type CrewService struct {
	crew     repository.CrewRepository
	pilots   repository.PilotRepository
	flights  FlightLookup
	producer Producer
	topic    string
	log      logger.Logger
	now      func() time.Time
}

type CrewServiceOption func(*CrewService)

func WithProducer(producer Producer, topic string) CrewServiceOption {
	return func(s *CrewService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(log logger.Logger) CrewServiceOption {
	return func(s *CrewService) {
		s.log = log
	}
}

func WithClock(now func() time.Time) CrewServiceOption {
	return func(s *CrewService) {
		s.now = now
	}
}

func NewCrewService(crew repository.CrewRepository, pilots repository.PilotRepository, flights FlightLookup, opts ...CrewServiceOption) *CrewService {
	service := &CrewService{
		crew:    crew,
		pilots:  pilots,
		flights: flights,
		log:     logger.NewNop(),
		now:     domain.WallClockNow,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Assign binds the pilot to the requested slot. A pilot holds at most one
// role per flight; an occupied slot is only taken over after confirm accepts.
// Writes are conditional on the state read here, so a slot changed in the
// meantime surfaces as ErrAssignmentConflict.
func (s *CrewService) Assign(ctx context.Context, req AssignRequest, confirm ConfirmFunc) (*AssignResult, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("role %q: %w", req.Role, domain.ErrInvalidEnum)
	}
	code, err := validation.NormalizeFlightNumber(req.FlightNo)
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByNumber(ctx, code)
	if err != nil {
		return nil, err
	}
	pilot, err := s.pilots.GetByID(ctx, req.PilotID)
	if err != nil {
		return nil, err
	}
	log := s.log.With("pilot_id", pilot.ID, "flight_no", flight.FlightNo, "role", req.Role)

	held, err := s.crew.FindByPilot(ctx, flight.ID, pilot.ID)
	if err != nil {
		return nil, err
	}
	if held != nil {
		log.Info("pilot already on flight", "held_role", held.Role)
		return nil, &domain.AlreadyAssignedError{PilotID: pilot.ID, FlightNo: flight.FlightNo, Role: held.Role}
	}

	slot, err := s.crew.FindBySlot(ctx, flight.ID, req.Role)
	if err != nil {
		return nil, err
	}

	if slot == nil {
		assignment := &domain.CrewAssignment{FlightID: flight.ID, PilotID: pilot.ID, Role: req.Role, AssignedAt: s.now()}
		if err := s.crew.Insert(ctx, assignment); err != nil {
			return nil, err
		}
		log.Info("pilot assigned")
		s.publish(ctx, kafka.EventCrewAssigned, flight.FlightNo, assignment, 0)
		return s.finish(ctx, OutcomeAssigned, assignment, nil)
	}

	if slot.PilotID == pilot.ID {
		log.Info("nothing to do, pilot already holds the slot")
		return nil, fmt.Errorf("pilot %d is already %s on %s: %w", pilot.ID, req.Role, flight.FlightNo, domain.ErrNoOpAssignment)
	}

	incumbent, err := s.pilots.GetByID(ctx, slot.PilotID)
	if err != nil {
		return nil, err
	}
	accepted := false
	if confirm != nil {
		accepted, err = confirm(ctx, Replacement{Flight: *flight, Role: req.Role, Incumbent: *incumbent, Candidate: *pilot})
		if err != nil {
			return nil, err
		}
	}
	if !accepted {
		log.Info("replacement declined, slot left unchanged", "incumbent_id", incumbent.ID)
		return &AssignResult{Outcome: OutcomeCancelled, Assignment: slot, Incumbent: incumbent}, nil
	}

	replaced, err := s.crew.Replace(ctx, slot, pilot.ID, s.now())
	if err != nil {
		return nil, err
	}
	log.Info("pilot reassigned", "incumbent_id", incumbent.ID)
	s.publish(ctx, kafka.EventCrewReassigned, flight.FlightNo, replaced, incumbent.ID)
	return s.finish(ctx, OutcomeReassigned, replaced, incumbent)
}

func (s *CrewService) finish(ctx context.Context, outcome Outcome, assignment *domain.CrewAssignment, incumbent *domain.Pilot) (*AssignResult, error) {
	schedule, err := s.crew.ScheduleForPilot(ctx, assignment.PilotID)
	if err != nil {
		return nil, err
	}
	return &AssignResult{Outcome: outcome, Assignment: assignment, Incumbent: incumbent, Schedule: schedule}, nil
}

// Schedule returns the pilot and their assignments ordered by departure.
func (s *CrewService) Schedule(ctx context.Context, pilotID int64) (*domain.Pilot, []domain.ScheduleEntry, error) {
	pilot, err := s.pilots.GetByID(ctx, pilotID)
	if err != nil {
		return nil, nil, err
	}
	schedule, err := s.crew.ScheduleForPilot(ctx, pilot.ID)
	if err != nil {
		return nil, nil, err
	}
	return pilot, schedule, nil
}

// Crew returns the flight and its current slot holders.
func (s *CrewService) Crew(ctx context.Context, flightNo string) (*domain.FlightView, []domain.CrewAssignment, error) {
	code, err := validation.NormalizeFlightNumber(flightNo)
	if err != nil {
		return nil, nil, err
	}
	flight, err := s.flights.GetByNumber(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	crew, err := s.crew.ListByFlight(ctx, flight.ID)
	if err != nil {
		return nil, nil, err
	}
	return flight, crew, nil
}

func (s *CrewService) publish(ctx context.Context, eventType, flightNo string, a *domain.CrewAssignment, previousPilotID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.NewOperationEvent(eventType, a.AssignedAt)
	event.FlightNo = flightNo
	event.PilotID = a.PilotID
	event.PreviousPilotID = previousPilotID
	event.Role = string(a.Role)
	if err := s.producer.Publish(ctx, s.topic, event.Key(), event); err != nil {
		s.log.Warn("failed to publish event", "type", eventType, "flight_no", flightNo, "error", err)
	}
}

var _ CrewUseCase = (*CrewService)(nil)
