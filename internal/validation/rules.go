package validation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// FlightNumbers answers existence questions about flight numbers.
type FlightNumbers interface {
	// NumberTaken matches case-insensitively.
	NumberTaken(ctx context.Context, flightNo string) (bool, error)
	// Exists matches the exact stored code.
	Exists(ctx context.Context, flightNo string) (bool, error)
}

type Rules struct {
	flights FlightNumbers
}

func NewRules(flights FlightNumbers) *Rules {
	return &Rules{flights: flights}
}

func (r *Rules) EnsureUniqueFlightNumber(ctx context.Context, code string) error {
	taken, err := r.flights.NumberTaken(ctx, code)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("flight %q already exists: %w", code, domain.ErrDuplicateKey)
	}
	return nil
}

func (r *Rules) EnsureFlightExists(ctx context.Context, code string) error {
	exists, err := r.flights.Exists(ctx, code)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("flight %q: %w", code, domain.ErrNotFound)
	}
	return nil
}

func EnsureOrderedInterval(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("arrival %s must be after departure %s: %w",
			end.Format(DateTimeLayout), start.Format(DateTimeLayout), domain.ErrInvalidRange)
	}
	return nil
}

func EnsureKnownStatus(value string) (domain.FlightStatus, error) {
	status, ok := domain.ParseFlightStatus(value)
	if !ok {
		return "", fmt.Errorf("status %q, choose one of Scheduled, Delayed, Cancelled: %w", value, domain.ErrInvalidEnum)
	}
	return status, nil
}

func ParseRole(value string) (domain.CrewRole, error) {
	role, ok := domain.ParseCrewRole(value)
	if !ok {
		return "", fmt.Errorf("role %q, choose Captain or Co-Captain: %w", value, domain.ErrInvalidEnum)
	}
	return role, nil
}

func NormalizeFlightNumber(value string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(value))
	if code == "" {
		return "", fmt.Errorf("flight number cannot be empty: %w", domain.ErrInvalidInput)
	}
	return code, nil
}

// NormalizeIATA upper-cases and checks the three-letter shape only; membership is the lookup's job.
func NormalizeIATA(value string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(value))
	if len(code) != 3 {
		return "", fmt.Errorf("IATA code %q must have three letters: %w", value, domain.ErrInvalidInput)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("IATA code %q must have three letters: %w", value, domain.ErrInvalidInput)
		}
	}
	return code, nil
}

func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q, use YYYY-MM-DD (e.g. 2025-10-01): %w", value, domain.ErrInvalidInput)
	}
	return d, nil
}

func ParseDateTime(value string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q, use YYYY-MM-DD HH:MM (e.g. 2025-10-01 08:30): %w", value, domain.ErrInvalidInput)
	}
	return t, nil
}

func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("id %q must be a positive integer: %w", value, domain.ErrInvalidInput)
	}
	return id, nil
}

func ParseActiveFlag(value string) (bool, error) {
	switch strings.TrimSpace(value) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("enter 1 (active) or 0 (inactive): %w", domain.ErrInvalidInput)
	}
}
