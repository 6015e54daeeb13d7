package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("duplicate key")
	ErrAlreadyAssigned    = errors.New("pilot already assigned to flight")
	ErrNoOpAssignment     = errors.New("pilot already holds this slot")
	ErrNoChange           = errors.New("no change")
	ErrAssignmentConflict = errors.New("assignment conflict")
	ErrInvalidRange       = errors.New("invalid range")
	ErrInvalidEnum        = errors.New("invalid enum value")
	ErrDuplicateSelection = errors.New("duplicate selection")
	ErrInvalidSelection   = errors.New("invalid selection")
)

// AlreadyAssignedError reports the role a pilot already holds on a flight.
type AlreadyAssignedError struct {
	PilotID  int64
	FlightNo string
	Role     CrewRole
}

func (e *AlreadyAssignedError) Error() string {
	return fmt.Sprintf("pilot %d is already assigned to flight %s as %s", e.PilotID, e.FlightNo, e.Role)
}

func (e *AlreadyAssignedError) Is(target error) bool {
	return target == ErrAlreadyAssigned
}
