package domain

import (
	"strings"
	"time"
)

type CrewRole string

const (
	CrewRoleCaptain   CrewRole = "Captain"
	CrewRoleCoCaptain CrewRole = "Co-Captain"
)

var CrewRoles = []CrewRole{CrewRoleCaptain, CrewRoleCoCaptain}

func (r CrewRole) Valid() bool {
	return r == CrewRoleCaptain || r == CrewRoleCoCaptain
}

func ParseCrewRole(value string) (CrewRole, bool) {
	value = strings.TrimSpace(value)
	for _, known := range CrewRoles {
		if strings.EqualFold(value, string(known)) {
			return known, true
		}
	}
	return "", false
}

// CrewAssignment binds one pilot to one (flight, role) slot.
type CrewAssignment struct {
	ID         int64
	FlightID   int64
	PilotID    int64
	Role       CrewRole
	AssignedAt time.Time
}

// ScheduleEntry is one flight on a pilot's schedule.
type ScheduleEntry struct {
	PilotID     int64
	PilotName   string
	Role        CrewRole
	FlightNo    string
	Departure   time.Time
	Arrival     time.Time
	Status      FlightStatus
	Origin      string
	Destination string
	AssignedAt  time.Time
}
