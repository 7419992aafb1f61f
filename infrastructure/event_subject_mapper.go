package infrastructure

import (
	"fmt"

	"bankroll/events"
)

const (
	subjectSessionChanged     = "bankroll.sessions.changed"
	subjectTransactionChanged = "bankroll.transactions.changed"
	subjectPlayerCreated      = "bankroll.players.created"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventTypeToSubject converts an event type to its NATS subject
func (m *EventSubjectMapper) MapEventTypeToSubject(eventType events.EventType) string {
	switch eventType {
	case events.EventTypeSessionChanged:
		return subjectSessionChanged
	case events.EventTypeTransactionChanged:
		return subjectTransactionChanged
	case events.EventTypePlayerCreated:
		return subjectPlayerCreated
	default:
		return fmt.Sprintf("bankroll.unknown.%s", eventType)
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case subjectSessionChanged:
		return events.EventTypeSessionChanged
	case subjectTransactionChanged:
		return events.EventTypeTransactionChanged
	case subjectPlayerCreated:
		return events.EventTypePlayerCreated
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		subjectSessionChanged,
		subjectTransactionChanged,
		subjectPlayerCreated,
	}
}
