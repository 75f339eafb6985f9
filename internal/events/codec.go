package events

import (
	"encoding/json"
	"fmt"

	"parkly/internal/domain"
)

// Encode serializes an event payload for the outbox and the kafka topic.
func Encode(event domain.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.EventName(), err)
	}
	return payload, nil
}

// Decode rebuilds the concrete event from its name and payload. Money fields
// are not carried on the wire; reactions reload the aggregate they need.
func Decode(eventName string, payload []byte) (domain.Event, error) {
	var (
		event domain.Event
		err   error
	)
	switch eventName {
	case domain.EventFacilityCreated:
		event, err = decodeInto[domain.FacilityCreated](payload)
	case domain.EventSpotAdded:
		event, err = decodeInto[domain.SpotAdded](payload)
	case domain.EventSpotRemoved:
		event, err = decodeInto[domain.SpotRemoved](payload)
	case domain.EventReservationCreated:
		event, err = decodeInto[domain.ReservationCreated](payload)
	case domain.EventReservationConfirmed:
		event, err = decodeInto[domain.ReservationConfirmed](payload)
	case domain.EventReservationActivated:
		event, err = decodeInto[domain.ReservationActivated](payload)
	case domain.EventReservationCompleted:
		event, err = decodeInto[domain.ReservationCompleted](payload)
	case domain.EventReservationCancelled:
		event, err = decodeInto[domain.ReservationCancelled](payload)
	case domain.EventSessionStarted:
		event, err = decodeInto[domain.SessionStarted](payload)
	case domain.EventSessionExtended:
		event, err = decodeInto[domain.SessionExtended](payload)
	case domain.EventSessionEnded:
		event, err = decodeInto[domain.SessionEnded](payload)
	case domain.EventVehicleRegistered:
		event, err = decodeInto[domain.VehicleRegistered](payload)
	default:
		return nil, fmt.Errorf("decode: unknown event name %q", eventName)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", eventName, err)
	}
	return event, nil
}

func decodeInto[E domain.Event](payload []byte) (E, error) {
	var event E
	err := json.Unmarshal(payload, &event)
	return event, err
}
