package domain

import "time"

type Pilot struct {
	ID          int64
	FirstName   string
	LastName    string
	LicenseNo   string
	Email       string
	DateOfBirth time.Time
	HireDate    time.Time
}

func (p Pilot) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PilotWorkload is one row of the assignments-per-pilot report.
type PilotWorkload struct {
	PilotID       int64
	Name          string
	TotalAssigned int
}
