package domain

import "time"

type FilterKind int

const (
	FilterDestination FilterKind = iota + 1
	FilterOrigin
	FilterStatus
	FilterDepartureDate
)

var FilterKinds = []FilterKind{FilterDestination, FilterOrigin, FilterStatus, FilterDepartureDate}

func (k FilterKind) String() string {
	switch k {
	case FilterDestination:
		return "Destination IATA"
	case FilterOrigin:
		return "Origin IATA"
	case FilterStatus:
		return "Status"
	case FilterDepartureDate:
		return "Departure Date"
	default:
		return "unknown"
	}
}

// FlightFilter is one predicate of a flight search. The set of variants is
// closed: only the types in this file implement it.
type FlightFilter interface {
	Kind() FilterKind
	isFlightFilter()
}

type DestinationFilter struct{ Code string }

type OriginFilter struct{ Code string }

type StatusFilter struct{ Status FlightStatus }

// DepartureDateFilter matches on the calendar day of departure.
type DepartureDateFilter struct{ Date time.Time }

func (DestinationFilter) Kind() FilterKind   { return FilterDestination }
func (OriginFilter) Kind() FilterKind        { return FilterOrigin }
func (StatusFilter) Kind() FilterKind        { return FilterStatus }
func (DepartureDateFilter) Kind() FilterKind { return FilterDepartureDate }

func (DestinationFilter) isFlightFilter()   {}
func (OriginFilter) isFlightFilter()        {}
func (StatusFilter) isFlightFilter()        {}
func (DepartureDateFilter) isFlightFilter() {}
