package domain

type Destination struct {
	ID          int64
	IATA        string
	AirportName string
	City        string
	Country     string
	IsActive    bool
}

// DestinationTraffic is one row of the arrivals-per-destination report.
type DestinationTraffic struct {
	IATA         string
	City         string
	Country      string
	TotalFlights int
}
