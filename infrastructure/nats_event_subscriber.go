package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"bankroll/events"
	"bankroll/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Emitter receives decoded remote events
type Emitter interface {
	Emit(ctx context.Context, event events.Event)
}

// NATSEventSubscriber re-emits events published by other instances on the local bus
type NATSEventSubscriber struct {
	subscriber    MessageSubscriber
	subjectMapper *EventSubjectMapper
	emitter       Emitter
	sourceID      string
}

// NewNATSEventSubscriber creates a new NATS event subscriber
func NewNATSEventSubscriber(subscriber MessageSubscriber, subjectMapper *EventSubjectMapper, emitter Emitter, sourceID string) *NATSEventSubscriber {
	return &NATSEventSubscriber{
		subscriber:    subscriber,
		subjectMapper: subjectMapper,
		emitter:       emitter,
		sourceID:      sourceID,
	}
}

// Start subscribes to every bankroll subject
func (s *NATSEventSubscriber) Start() error {
	for _, subject := range s.subjectMapper.GetAllSubjects() {
		subject := subject
		if err := s.subscriber.Subscribe(subject, func(data []byte) error {
			return s.handleMessage(subject, data)
		}); err != nil {
			return err
		}
	}
	return nil
}

// handleMessage decodes an envelope and re-emits it with a remote origin
func (s *NATSEventSubscriber) handleMessage(subject string, data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.WithFields(log.Fields{
			"subject": subject,
			"error":   err,
		}).Error("Failed to unmarshal event envelope")
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	if envelope.SourceID == s.sourceID {
		return nil
	}

	eventType := events.EventType(envelope.EventType)
	if eventType == "" {
		eventType = s.subjectMapper.MapSubjectToEventType(subject)
	}

	event, err := decodeEvent(eventType, envelope.Payload)
	if err != nil {
		log.WithFields(log.Fields{
			"subject":     subject,
			"eventType":   eventType,
			"eventId":     envelope.EventID,
			"error":       err,
			"payloadSize": len(envelope.Payload),
		}).Error("Failed to deserialize event payload")
		return fmt.Errorf("failed to deserialize event payload: %w", err)
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordNATSMessageReceived(string(eventType))
	}

	log.WithFields(log.Fields{
		"subject":   subject,
		"eventType": eventType,
		"eventId":   envelope.EventID,
		"source":    envelope.SourceID,
	}).Debug("Re-emitting remote event")

	s.emitter.Emit(events.WithRemoteOrigin(context.Background()), event)
	return nil
}
