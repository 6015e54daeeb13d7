package domain

import (
	"strings"
	"time"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "Scheduled"
	FlightStatusDelayed   FlightStatus = "Delayed"
	FlightStatusCancelled FlightStatus = "Cancelled"
)

var FlightStatuses = []FlightStatus{FlightStatusScheduled, FlightStatusDelayed, FlightStatusCancelled}

func (s FlightStatus) Valid() bool {
	for _, known := range FlightStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseFlightStatus matches case-insensitively, so "delayed" and "DELAYED" both yield FlightStatusDelayed.
func ParseFlightStatus(value string) (FlightStatus, bool) {
	value = strings.TrimSpace(value)
	for _, known := range FlightStatuses {
		if strings.EqualFold(value, string(known)) {
			return known, true
		}
	}
	return "", false
}

type Flight struct {
	ID            int64
	FlightNo      string
	OriginID      int64
	DestinationID int64
	Departure     time.Time
	Arrival       time.Time
	Status        FlightStatus
	Aircraft      string
	LastUpdate    time.Time
}

// FlightView is a flight joined with the IATA codes of both endpoints.
type FlightView struct {
	Flight
	Origin      string
	Destination string
}

// FlightPatch carries the fields of a partial update. Nil fields keep their stored value.
type FlightPatch struct {
	Departure *time.Time
	Arrival   *time.Time
	Status    *FlightStatus
	Aircraft  *string
}

func (p FlightPatch) Empty() bool {
	return p.Departure == nil && p.Arrival == nil && p.Status == nil && p.Aircraft == nil
}
