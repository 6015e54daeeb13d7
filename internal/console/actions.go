package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/service/crew"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
	"github.com/Domenick1991/flightdesk/internal/validation"
)

const timeHint = "(YYYY-MM-DD HH:MM)"

func (s *Shell) addFlight(ctx context.Context) error {
	s.out.Heading("Add Flight")

	flightNo, err := AskValid(ctx, s.prompt, "Flight number: ", func(v string) (string, error) {
		return s.flights.EnsureUniqueFlightNumber(ctx, v)
	})
	if err != nil {
		return err
	}
	origin, err := AskValid(ctx, s.prompt, "Origin IATA: ", s.airports.Validate)
	if err != nil {
		return err
	}
	destination, err := AskValid(ctx, s.prompt, "Destination IATA: ", func(v string) (string, error) {
		code, err := s.airports.Validate(v)
		if err != nil {
			return "", err
		}
		if code == origin {
			return "", fmt.Errorf("destination must differ from origin %s: %w", origin, domain.ErrInvalidInput)
		}
		return code, nil
	})
	if err != nil {
		return err
	}
	departure, err := AskValid(ctx, s.prompt, "Departure "+timeHint+": ", validation.ParseDateTime)
	if err != nil {
		return err
	}
	arrival, err := AskValid(ctx, s.prompt, "Arrival "+timeHint+": ", func(v string) (time.Time, error) {
		t, err := validation.ParseDateTime(v)
		if err != nil {
			return time.Time{}, err
		}
		return t, validation.EnsureOrderedInterval(departure, t)
	})
	if err != nil {
		return err
	}
	status, err := AskValid(ctx, s.prompt, "Status [Scheduled/Delayed/Cancelled] (default Scheduled): ", func(v string) (domain.FlightStatus, error) {
		if v == "" {
			return domain.FlightStatusScheduled, nil
		}
		return validation.EnsureKnownStatus(v)
	})
	if err != nil {
		return err
	}
	aircraft, err := s.prompt.Ask(ctx, "Aircraft (optional): ")
	if err != nil {
		return err
	}

	s.out.Fields("New flight:", []Field{
		{Label: "Flight", Value: flightNo},
		{Label: "Route", Value: origin + " → " + destination},
		{Label: "Departure", Value: formatTime(departure)},
		{Label: "Arrival", Value: formatTime(arrival)},
		{Label: "Status", Value: string(status)},
		{Label: "Aircraft", Value: aircraft},
	})
	ok, err := s.prompt.Confirm(ctx, "Do you want to add this flight? (Y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		s.out.Warn("Flight not added.")
		return nil
	}

	flight, err := s.flights.AddFlight(ctx, flights.AddFlightInput{
		FlightNo:    flightNo,
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		Arrival:     arrival,
		Status:      status,
		Aircraft:    aircraft,
	})
	if err != nil {
		return err
	}
	s.out.Success(fmt.Sprintf("Flight %s added.", flight.FlightNo))
	s.out.Flights([]domain.FlightView{*flight})
	return nil
}

func (s *Shell) viewByCriteria(ctx context.Context) error {
	s.out.Heading("View Flights by Criteria")
	for _, kind := range domain.FilterKinds {
		s.out.Printf("  %d. %s\n", kind, kind)
	}
	s.out.Info("Leave blank to list every flight.")

	kinds, err := AskValid(ctx, s.prompt, "Filters to apply (e.g., 1,3,4): ", flights.ParseSelection)
	if err != nil {
		return err
	}
	filters := make([]domain.FlightFilter, 0, len(kinds))
	for _, kind := range kinds {
		filter, err := AskValid(ctx, s.prompt, filterLabel(kind), func(v string) (domain.FlightFilter, error) {
			return s.flights.BuildFilter(kind, v)
		})
		if err != nil {
			return err
		}
		filters = append(filters, filter)
	}

	result, err := s.flights.Search(ctx, filters)
	if err != nil {
		return err
	}
	s.out.Println(fmt.Sprintf("%d flight(s) found.", len(result)))
	s.out.Flights(result)
	return nil
}

func filterLabel(kind domain.FilterKind) string {
	switch kind {
	case domain.FilterStatus:
		return "Status [Scheduled/Delayed/Cancelled]: "
	case domain.FilterDepartureDate:
		return "Departure date (YYYY-MM-DD): "
	default:
		return kind.String() + ": "
	}
}

func (s *Shell) updateFlight(ctx context.Context) error {
	s.out.Heading("Update Flight")

	flightNo, err := AskValid(ctx, s.prompt, "Flight number: ", func(v string) (string, error) {
		return s.flights.EnsureFlightExists(ctx, v)
	})
	if err != nil {
		return err
	}
	current, err := s.flights.GetByNumber(ctx, flightNo)
	if err != nil {
		return err
	}
	s.out.Flights([]domain.FlightView{*current})
	s.out.Info("Leave a field blank to keep its current value.")

	var patch domain.FlightPatch
	if patch.Departure, err = AskValid(ctx, s.prompt, "New departure "+timeHint+": ", s.futureTime); err != nil {
		return err
	}
	start := current.Departure
	if patch.Departure != nil {
		start = *patch.Departure
	}
	patch.Arrival, err = AskValid(ctx, s.prompt, "New arrival "+timeHint+": ", func(v string) (*time.Time, error) {
		t, err := s.futureTime(v)
		if err != nil || t == nil {
			return t, err
		}
		return t, validation.EnsureOrderedInterval(start, *t)
	})
	if err != nil {
		return err
	}
	patch.Status, err = AskValid(ctx, s.prompt, "New status [Scheduled/Delayed/Cancelled]: ", func(v string) (*domain.FlightStatus, error) {
		if v == "" {
			return nil, nil
		}
		status, err := validation.EnsureKnownStatus(v)
		return &status, err
	})
	if err != nil {
		return err
	}
	aircraft, err := s.prompt.Ask(ctx, "New aircraft: ")
	if err != nil {
		return err
	}
	if aircraft != "" {
		patch.Aircraft = &aircraft
	}

	if patch.Empty() {
		s.out.Info("Nothing to update.")
		return nil
	}
	s.out.Fields("Changes for "+flightNo+":", patchFields(patch))
	ok, err := s.prompt.Confirm(ctx, "Do you want to update this flight? (Y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		s.out.Warn("Update cancelled.")
		return nil
	}

	updated, err := s.flights.UpdateFlight(ctx, flightNo, patch)
	if err != nil {
		return err
	}
	s.out.Success(fmt.Sprintf("Flight %s updated.", updated.FlightNo))
	s.out.Flights([]domain.FlightView{*updated})
	return nil
}

// futureTime parses an optional timestamp that may not lie in the past. Blank yields nil.
func (s *Shell) futureTime(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := validation.ParseDateTime(v)
	if err != nil {
		return nil, err
	}
	if t.Before(s.now()) {
		return nil, fmt.Errorf("%s is in the past: %w", formatTime(t), domain.ErrInvalidRange)
	}
	return &t, nil
}

func patchFields(p domain.FlightPatch) []Field {
	var fields []Field
	if p.Departure != nil {
		fields = append(fields, Field{Label: "Departure", Value: formatTime(*p.Departure)})
	}
	if p.Arrival != nil {
		fields = append(fields, Field{Label: "Arrival", Value: formatTime(*p.Arrival)})
	}
	if p.Status != nil {
		fields = append(fields, Field{Label: "Status", Value: string(*p.Status)})
	}
	if p.Aircraft != nil {
		fields = append(fields, Field{Label: "Aircraft", Value: *p.Aircraft})
	}
	return fields
}

func (s *Shell) assignPilot(ctx context.Context) error {
	s.out.Heading("Assign Pilot")

	pilot, err := AskValid(ctx, s.prompt, "Pilot ID: ", func(v string) (*domain.Pilot, error) {
		id, err := validation.ParseID(v)
		if err != nil {
			return nil, err
		}
		pilot, _, err := s.crew.Schedule(ctx, id)
		return pilot, err
	})
	if err != nil {
		return err
	}
	flightNo, err := AskValid(ctx, s.prompt, "Flight number: ", func(v string) (string, error) {
		return s.flights.EnsureFlightExists(ctx, v)
	})
	if err != nil {
		return err
	}
	flight, members, err := s.crew.Crew(ctx, flightNo)
	if err != nil {
		return err
	}
	s.out.Println(fmt.Sprintf("Current crew of %s (%s → %s):", flight.FlightNo, flight.Origin, flight.Destination))
	s.out.Crew(members)

	role, err := AskValid(ctx, s.prompt, "Role [Captain/Co-Captain] (default Captain): ", func(v string) (domain.CrewRole, error) {
		if v == "" {
			return domain.CrewRoleCaptain, nil
		}
		return validation.ParseRole(v)
	})
	if err != nil {
		return err
	}

	result, err := s.crew.Assign(ctx, crew.AssignRequest{PilotID: pilot.ID, FlightNo: flight.FlightNo, Role: role}, s.confirmReplacement)
	if errors.Is(err, domain.ErrNoOpAssignment) {
		s.out.Info(fmt.Sprintf("Nothing to do: %s is already %s on %s.", pilot.FullName(), role, flight.FlightNo))
		return nil
	}
	if err != nil {
		return err
	}

	switch result.Outcome {
	case crew.OutcomeCancelled:
		s.out.Warn(fmt.Sprintf("Replacement cancelled, %s remains %s on %s.", result.Incumbent.FullName(), role, flight.FlightNo))
		return nil
	case crew.OutcomeReassigned:
		s.out.Success(fmt.Sprintf("%s replaced %s as %s on %s.", pilot.FullName(), result.Incumbent.FullName(), role, flight.FlightNo))
	default:
		s.out.Success(fmt.Sprintf("%s assigned as %s on %s.", pilot.FullName(), role, flight.FlightNo))
	}
	s.out.Println("Updated schedule:")
	s.out.Schedule(result.Schedule)
	return nil
}

func (s *Shell) confirmReplacement(ctx context.Context, r crew.Replacement) (bool, error) {
	s.out.Warn(fmt.Sprintf("%s on %s is held by %s (ID %d).", r.Role, r.Flight.FlightNo, r.Incumbent.FullName(), r.Incumbent.ID))
	return s.prompt.Confirm(ctx, fmt.Sprintf("Replace with %s (ID %d)? (Y/N): ", r.Candidate.FullName(), r.Candidate.ID))
}

func (s *Shell) viewSchedule(ctx context.Context) error {
	s.out.Heading("View Pilot Schedule")

	var schedule []domain.ScheduleEntry
	pilot, err := AskValid(ctx, s.prompt, "Pilot ID: ", func(v string) (*domain.Pilot, error) {
		id, err := validation.ParseID(v)
		if err != nil {
			return nil, err
		}
		pilot, entries, err := s.crew.Schedule(ctx, id)
		schedule = entries
		return pilot, err
	})
	if err != nil {
		return err
	}
	s.out.Println(fmt.Sprintf("Schedule for %s (ID %d):", pilot.FullName(), pilot.ID))
	s.out.Schedule(schedule)
	return nil
}

func (s *Shell) destinationsMenu(ctx context.Context) error {
	s.out.Heading("View/Update Destination")
	s.out.Printf("  1. View active destinations\n  2. View all destinations\n  3. Update destination status\n  0. Back\n")

	choice, err := s.prompt.Ask(ctx, "Select an option: ")
	if err != nil {
		return err
	}
	switch choice {
	case "1", "2":
		list, err := s.destinations.List(ctx, choice == "1")
		if err != nil {
			return err
		}
		s.out.Destinations(list)
	case "3":
		return s.updateDestination(ctx)
	case "0", "":
	default:
		s.out.Error("Invalid option.")
	}
	return nil
}

func (s *Shell) updateDestination(ctx context.Context) error {
	dest, err := AskValid(ctx, s.prompt, "Destination ID: ", func(v string) (*domain.Destination, error) {
		id, err := validation.ParseID(v)
		if err != nil {
			return nil, err
		}
		return s.destinations.Get(ctx, id)
	})
	if err != nil {
		return err
	}
	s.out.Destinations([]domain.Destination{*dest})

	active, err := AskValid(ctx, s.prompt, "Set active [1=active / 0=inactive]: ", validation.ParseActiveFlag)
	if err != nil {
		return err
	}
	result, err := s.destinations.SetActive(ctx, dest.ID, active, s.confirmToggle)
	if errors.Is(err, domain.ErrNoChange) {
		s.out.Info(fmt.Sprintf("No change detected: %s is already %s.", dest.IATA, activeWord(active)))
		return nil
	}
	if err != nil {
		return err
	}
	if !result.Updated {
		s.out.Warn("Update cancelled.")
		return nil
	}
	s.out.Success(fmt.Sprintf("Destination %s is now %s.", result.After.IATA, activeWord(result.After.IsActive)))
	s.out.Destinations([]domain.Destination{result.After})
	return nil
}

func (s *Shell) confirmToggle(ctx context.Context, before, after domain.Destination) (bool, error) {
	s.out.Println("Before:")
	s.out.Destinations([]domain.Destination{before})
	s.out.Println("After:")
	s.out.Destinations([]domain.Destination{after})
	return s.prompt.Confirm(ctx, "Apply this change? (Y/N): ")
}

func activeWord(active bool) string {
	if active {
		return "active"
	}
	return "inactive"
}

func (s *Shell) checkBookings(ctx context.Context) error {
	s.out.Heading("Check Bookings")

	flightNo, err := AskValid(ctx, s.prompt, "Flight number: ", func(v string) (string, error) {
		return s.flights.EnsureFlightExists(ctx, v)
	})
	if err != nil {
		return err
	}
	summary, err := s.bookings.Summary(ctx, flightNo)
	if err != nil {
		return err
	}
	s.out.BookingSummary(summary)
	return nil
}
