package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

// buildSearchConditions folds the filters into a WHERE clause joined with
// AND. Each variant contributes a fixed fragment; values only travel as
// positional parameters.
func buildSearchConditions(filters []domain.FlightFilter) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	conditions := make([]string, 0, len(filters))
	args := make([]any, 0, len(filters)+1)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	for _, filter := range filters {
		switch f := filter.(type) {
		case domain.DestinationFilter:
			conditions = append(conditions, "d.iata = "+next(f.Code))
		case domain.OriginFilter:
			conditions = append(conditions, "o.iata = "+next(f.Code))
		case domain.StatusFilter:
			conditions = append(conditions, "f.status = "+next(string(f.Status)))
		case domain.DepartureDateFilter:
			day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
			conditions = append(conditions, fmt.Sprintf("f.departure >= %s AND f.departure < %s", next(day), next(day.AddDate(0, 0, 1))))
		default:
			return "", nil, fmt.Errorf("unsupported flight filter %T: %w", filter, domain.ErrInvalidSelection)
		}
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}
