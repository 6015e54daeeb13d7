// Package notify turns crew events into pilot notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logger"
)

type PilotDirectory interface {
	GetByID(ctx context.Context, id int64) (*domain.Pilot, error)
}

type Notification struct {
	PilotID int64
	Name    string
	Email   string
	Subject string
}

type Notifier struct {
	pilots PilotDirectory
	log    logger.Logger
}

// NewNotifier builds a notifier. With a nil directory, notifications carry only pilot ids.
func NewNotifier(pilots PilotDirectory, log logger.Logger) *Notifier {
	return &Notifier{pilots: pilots, log: log}
}

// Handle logs one line per notification derived from event. Events that
// concern no pilot are acknowledged at debug level.
func (n *Notifier) Handle(ctx context.Context, event kafka.OperationEvent) error {
	notes, err := n.Notifications(ctx, event)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		n.log.Debug("event received", "id", event.ID, "type", event.Type, "key", event.Key())
		return nil
	}
	for _, note := range notes {
		n.log.Info("crew notification",
			"event_id", event.ID,
			"pilot_id", note.PilotID,
			"name", note.Name,
			"email", note.Email,
			"subject", note.Subject,
		)
	}
	return nil
}

func (n *Notifier) Notifications(ctx context.Context, event kafka.OperationEvent) ([]Notification, error) {
	switch event.Type {
	case kafka.EventCrewAssigned:
		note, err := n.notification(ctx, event.PilotID,
			fmt.Sprintf("You are %s on flight %s", event.Role, event.FlightNo))
		if err != nil {
			return nil, err
		}
		return []Notification{note}, nil
	case kafka.EventCrewReassigned:
		added, err := n.notification(ctx, event.PilotID,
			fmt.Sprintf("You replace pilot %d as %s on flight %s", event.PreviousPilotID, event.Role, event.FlightNo))
		if err != nil {
			return nil, err
		}
		removed, err := n.notification(ctx, event.PreviousPilotID,
			fmt.Sprintf("You were replaced as %s on flight %s", event.Role, event.FlightNo))
		if err != nil {
			return nil, err
		}
		return []Notification{added, removed}, nil
	default:
		return nil, nil
	}
}

func (n *Notifier) notification(ctx context.Context, pilotID int64, subject string) (Notification, error) {
	note := Notification{PilotID: pilotID, Subject: subject}
	if n.pilots == nil {
		return note, nil
	}
	pilot, err := n.pilots.GetByID(ctx, pilotID)
	if errors.Is(err, domain.ErrNotFound) {
		n.log.Warn("pilot not found for notification", "pilot_id", pilotID)
		return note, nil
	}
	if err != nil {
		return Notification{}, err
	}
	note.Name = pilot.FullName()
	note.Email = pilot.Email
	return note, nil
}
