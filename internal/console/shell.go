package console

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/logger"
	"github.com/Domenick1991/flightdesk/internal/service/booking"
	"github.com/Domenick1991/flightdesk/internal/service/crew"
	"github.com/Domenick1991/flightdesk/internal/service/destinations"
	"github.com/Domenick1991/flightdesk/internal/service/flights"
)

// Airports validates operator-typed codes against the reference list.
type Airports interface {
	Validate(code string) (string, error)
}

type Services struct {
	Flights      flights.FlightUseCase
	Crew         crew.CrewUseCase
	Destinations destinations.DestinationUseCase
	Bookings     booking.BookingUseCase
	Airports     Airports
}

type menuItem struct {
	key   string
	label string
	run   func(ctx context.Context) error
}

// Shell is the numbered operator menu. It owns no state besides its
// dependencies; every action reads and writes through the services.
type Shell struct {
	flights      flights.FlightUseCase
	crew         crew.CrewUseCase
	destinations destinations.DestinationUseCase
	bookings     booking.BookingUseCase
	airports     Airports

	prompt *Prompter
	out    *Renderer
	log    logger.Logger
	now    func() time.Time
	menu   []menuItem
}

func NewShell(svc Services, in io.Reader, out io.Writer, log logger.Logger) *Shell {
	if log == nil {
		log = logger.NewNop()
	}
	r := NewRenderer(out)
	s := &Shell{
		flights:      svc.Flights,
		crew:         svc.Crew,
		destinations: svc.Destinations,
		bookings:     svc.Bookings,
		airports:     svc.Airports,
		prompt:       NewPrompter(in, r),
		out:          r,
		log:          log,
		now:          domain.WallClockNow,
	}
	s.menu = []menuItem{
		{key: "1", label: "Add Flight", run: s.addFlight},
		{key: "2", label: "View Flights by Criteria", run: s.viewByCriteria},
		{key: "3", label: "Update Flight", run: s.updateFlight},
		{key: "4", label: "Assign Pilot", run: s.assignPilot},
		{key: "5", label: "View Pilot Schedule", run: s.viewSchedule},
		{key: "6", label: "View/Update Destination", run: s.destinationsMenu},
		{key: "7", label: "Check Bookings", run: s.checkBookings},
	}
	return s
}

// Run shows the menu until the operator exits, input ends or ctx is cancelled.
// Rejected operations are reported and the menu shown again; any other
// failure ends the session and is returned.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.showMenu()
		choice, err := s.prompt.Ask(ctx, "Select an option: ")
		if err != nil {
			return endOfSession(err)
		}
		if choice == "0" {
			s.out.Println("Goodbye.")
			return nil
		}

		item, ok := s.lookup(choice)
		if !ok {
			s.out.Error("Invalid option, choose 0-7.")
			continue
		}
		s.log.Debug("menu action", "option", item.label)
		if err := item.run(ctx); err != nil {
			if err = s.report(err); err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
					return nil
				}
				s.log.Error("session ended", "action", item.label, "error", err)
				return err
			}
		}
	}
}

func (s *Shell) showMenu() {
	s.out.Heading("Flight Management")
	for _, item := range s.menu {
		s.out.Printf("  %s. %s\n", item.key, item.label)
	}
	s.out.Printf("  0. Exit\n")
}

func (s *Shell) lookup(key string) (menuItem, bool) {
	for _, item := range s.menu {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}

// report prints operator-facing failures and returns nil for them.
// Everything else is returned unchanged.
func (s *Shell) report(err error) error {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		return err
	case IsInputError(err),
		errors.Is(err, domain.ErrNoChange),
		errors.Is(err, domain.ErrAlreadyAssigned),
		errors.Is(err, domain.ErrNoOpAssignment),
		errors.Is(err, domain.ErrAssignmentConflict):
		s.log.Info("operation rejected", "error", err)
		s.out.Error(errorMessage(err))
		return nil
	default:
		return err
	}
}

func endOfSession(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
