// Package reports aggregates fleet-wide counts for the report command.
package reports

import (
	"context"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type ReportUseCase interface {
	FlightsPerDestination(ctx context.Context) ([]domain.DestinationTraffic, error)
	AssignmentsPerPilot(ctx context.Context) ([]domain.PilotWorkload, error)
}

type ReportService struct {
	repo repository.ReportRepository
}

func NewReportService(repo repository.ReportRepository) *ReportService {
	return &ReportService{repo: repo}
}

// FlightsPerDestination counts arriving flights for every destination,
// including those with none, busiest first.
func (s *ReportService) FlightsPerDestination(ctx context.Context) ([]domain.DestinationTraffic, error) {
	return s.repo.FlightsPerDestination(ctx)
}

// AssignmentsPerPilot counts crew assignments for every pilot, busiest first.
func (s *ReportService) AssignmentsPerPilot(ctx context.Context) ([]domain.PilotWorkload, error) {
	return s.repo.AssignmentsPerPilot(ctx)
}

var _ ReportUseCase = (*ReportService)(nil)
