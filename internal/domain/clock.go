package domain

import "time"

// WallClockNow returns the local wall-clock time re-expressed in UTC. Stored
// timestamps carry no zone and are read back as UTC, so comparisons against
// them must use the same convention.
func WallClockNow() time.Time {
	t := time.Now()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}
