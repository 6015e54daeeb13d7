package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	EventFlightAdded        = "flight_added"
	EventFlightUpdated      = "flight_updated"
	EventCrewAssigned       = "crew_assigned"
	EventCrewReassigned     = "crew_reassigned"
	EventDestinationToggled = "destination_toggled"
)

// OperationEvent describes one committed mutation. Fields that do not apply
// to the event type are left empty.
type OperationEvent struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	FlightNo        string    `json:"flight_no,omitempty"`
	Status          string    `json:"status,omitempty"`
	PilotID         int64     `json:"pilot_id,omitempty"`
	PreviousPilotID int64     `json:"previous_pilot_id,omitempty"`
	Role            string    `json:"role,omitempty"`
	DestinationID   int64     `json:"destination_id,omitempty"`
	IATA            string    `json:"iata,omitempty"`
	Active          *bool     `json:"active,omitempty"`
	OccurredAt      time.Time `json:"occurred_at"`
}

func NewOperationEvent(eventType string, at time.Time) OperationEvent {
	return OperationEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: at,
	}
}

// Key is the partition key: the flight number, or the IATA code for destination events.
func (e OperationEvent) Key() string {
	if e.FlightNo != "" {
		return e.FlightNo
	}
	return e.IATA
}

func DecodeEvent(data []byte) (OperationEvent, error) {
	var event OperationEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return OperationEvent{}, fmt.Errorf("decode operation event: %w", err)
	}
	if event.Type == "" {
		return OperationEvent{}, fmt.Errorf("decode operation event: missing type")
	}
	return event, nil
}
