package domain

import "time"

type BookingStatus string

const (
	BookingStatusBooked    BookingStatus = "Booked"
	BookingStatusCheckedIn BookingStatus = "Checked-in"
	BookingStatusCancelled BookingStatus = "Cancelled"
)

type Booking struct {
	ID         int64
	FlightID   int64
	FirstName  string
	LastName   string
	Email      string
	SeatNo     string
	Status     BookingStatus
	LastUpdate time.Time
}

type BookingStatusCount struct {
	Status BookingStatus
	Count  int
}

type BookingSummary struct {
	Flight   FlightView
	Total    int
	ByStatus []BookingStatusCount
}
