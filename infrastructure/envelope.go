package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"bankroll/events"
)

// ServiceName is stamped on every envelope this service publishes
const ServiceName = "bankroll"

// EventEnvelope wraps a domain event on the wire
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	SourceID      string          `json:"sourceId"`
	Payload       json.RawMessage `json:"payload"`
}

// decodeEvent deserializes the payload based on event type
func decodeEvent(eventType events.EventType, payload []byte) (events.Event, error) {
	switch eventType {
	case events.EventTypeSessionChanged:
		var e events.SessionChangedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case events.EventTypeTransactionChanged:
		var e events.TransactionChangedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	case events.EventTypePlayerCreated:
		var e events.PlayerCreatedEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, err
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}
}
