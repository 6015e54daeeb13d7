package destinations

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type DestinationUseCase interface {
	List(ctx context.Context, activeOnly bool) ([]domain.Destination, error)
	Get(ctx context.Context, id int64) (*domain.Destination, error)
	SetActive(ctx context.Context, id int64, active bool, confirm ConfirmFunc) (*ToggleResult, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// ConfirmFunc is shown the row before and after the change. A nil ConfirmFunc declines.
type ConfirmFunc func(ctx context.Context, before, after domain.Destination) (bool, error)

type ToggleResult struct {
	Updated bool
	Before  domain.Destination
	// After is the stored row when Updated, otherwise the proposed one.
	After domain.Destination
}

type DestinationService struct {
	repo     repository.DestinationRepository
	producer Producer
	topic    string
	log      logger.Logger
	now      func() time.Time
}

type DestinationServiceOption func(*DestinationService)

func WithProducer(producer Producer, topic string) DestinationServiceOption {
	return func(s *DestinationService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithLogger(log logger.Logger) DestinationServiceOption {
	return func(s *DestinationService) {
		s.log = log
	}
}

func NewDestinationService(repo repository.DestinationRepository, opts ...DestinationServiceOption) *DestinationService {
	service := &DestinationService{
		repo: repo,
		log:  logger.NewNop(),
		now:  domain.WallClockNow,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *DestinationService) List(ctx context.Context, activeOnly bool) ([]domain.Destination, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *DestinationService) Get(ctx context.Context, id int64) (*domain.Destination, error) {
	return s.repo.GetByID(ctx, id)
}

// SetActive flips is_active after confirmation. Requesting the current value
// returns ErrNoChange without asking or writing.
func (s *DestinationService) SetActive(ctx context.Context, id int64, active bool, confirm ConfirmFunc) (*ToggleResult, error) {
	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if before.IsActive == active {
		return nil, fmt.Errorf("%s is already %s: %w", before.IATA, activeLabel(active), domain.ErrNoChange)
	}

	proposed := *before
	proposed.IsActive = active

	accepted := false
	if confirm != nil {
		accepted, err = confirm(ctx, *before, proposed)
		if err != nil {
			return nil, err
		}
	}
	if !accepted {
		s.log.Info("destination update cancelled", "destination_id", id, "iata", before.IATA)
		return &ToggleResult{Before: *before, After: proposed}, nil
	}

	after, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return nil, err
	}
	s.log.Info("destination updated", "destination_id", id, "iata", after.IATA, "active", after.IsActive)
	s.publish(ctx, after)

	return &ToggleResult{Updated: true, Before: *before, After: *after}, nil
}

func (s *DestinationService) publish(ctx context.Context, d *domain.Destination) {
	if s.producer == nil || s.topic == "" {
		return
	}
	active := d.IsActive
	event := kafka.NewOperationEvent(kafka.EventDestinationToggled, s.now())
	event.DestinationID = d.ID
	event.IATA = d.IATA
	event.Active = &active
	if err := s.producer.Publish(ctx, s.topic, event.Key(), event); err != nil {
		s.log.Warn("failed to publish event", "type", event.Type, "iata", d.IATA, "error", err)
	}
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

var _ DestinationUseCase = (*DestinationService)(nil)
