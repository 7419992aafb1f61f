package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"bankroll/events"
	"bankroll/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBus is an in-memory MessagePublisher and MessageSubscriber
type memoryBus struct {
	mu         sync.Mutex
	published  map[string][][]byte
	handlers   map[string]func([]byte) error
	publishErr error
}

func newMemoryBus() *memoryBus {
	return &memoryBus{
		published: make(map[string][][]byte),
		handlers:  make(map[string]func([]byte) error),
	}
}

func (b *memoryBus) Publish(ctx context.Context, subject string, data []byte) error {
	if b.publishErr != nil {
		return b.publishErr
	}
	b.mu.Lock()
	b.published[subject] = append(b.published[subject], data)
	handler := b.handlers[subject]
	b.mu.Unlock()

	if handler != nil {
		return handler(data)
	}
	return nil
}

func (b *memoryBus) Subscribe(subject string, handler func([]byte) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = handler
	return nil
}

type recordingEmitter struct {
	mu       sync.Mutex
	received []events.Event
	remote   []bool
}

func (e *recordingEmitter) Emit(ctx context.Context, event events.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.received = append(e.received, event)
	e.remote = append(e.remote, events.IsRemote(ctx))
}

func TestNATSEventPublisher_WrapsEventInEnvelope(t *testing.T) {
	bus := newMemoryBus()
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "instance-a")

	event := events.SessionChangedEvent{
		SessionID: uuid.New(),
		Action:    events.SessionActionCompleted,
		Status:    models.SessionStatusCompleted,
		Date:      "2024-01-08",
		Location:  "Home Game",
	}
	require.NoError(t, publisher.Publish(context.Background(), event))

	messages := bus.published["bankroll.sessions.changed"]
	require.Len(t, messages, 1)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(messages[0], &envelope))
	assert.Equal(t, string(events.EventTypeSessionChanged), envelope.EventType)
	assert.Equal(t, ServiceName, envelope.SourceService)
	assert.Equal(t, "instance-a", envelope.SourceID)
	assert.NotEmpty(t, envelope.EventID)

	decoded, err := decodeEvent(events.EventTypeSessionChanged, envelope.Payload)
	require.NoError(t, err)
	assert.Equal(t, event, decoded)
}

func TestNATSEventPublisher_SkipsRemoteEvents(t *testing.T) {
	bus := newMemoryBus()
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "instance-a")

	publisher.Handle(events.WithRemoteOrigin(context.Background()), events.PlayerCreatedEvent{PlayerID: uuid.New(), Name: "Alice"})
	assert.Empty(t, bus.published)

	publisher.Handle(context.Background(), events.PlayerCreatedEvent{PlayerID: uuid.New(), Name: "Bob"})
	assert.Len(t, bus.published["bankroll.players.created"], 1)
}

func TestNATSEventPublisher_PublishError(t *testing.T) {
	bus := newMemoryBus()
	bus.publishErr = errors.New("connection closed")
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "instance-a")

	err := publisher.Publish(context.Background(), events.PlayerCreatedEvent{PlayerID: uuid.New()})
	assert.ErrorContains(t, err, "connection closed")

	bus.publishErr = errors.New("nats: no response from stream")
	assert.NoError(t, publisher.Publish(context.Background(), events.PlayerCreatedEvent{PlayerID: uuid.New()}))
}

func TestNATSEventSubscriber_ReEmitsRemoteEvents(t *testing.T) {
	bus := newMemoryBus()
	mapper := NewEventSubjectMapper()
	emitter := &recordingEmitter{}

	subscriber := NewNATSEventSubscriber(bus, mapper, emitter, "instance-b")
	require.NoError(t, subscriber.Start())

	remote := NewNATSEventPublisher(bus, mapper, "instance-a")
	local := NewNATSEventPublisher(bus, mapper, "instance-b")

	event := events.TransactionChangedEvent{
		SessionID: uuid.New(),
		PlayerID:  uuid.New(),
		Action:    events.TransactionActionCashOut,
	}
	require.NoError(t, remote.Publish(context.Background(), event))
	require.NoError(t, local.Publish(context.Background(), events.PlayerCreatedEvent{PlayerID: uuid.New(), Name: "Self"}))

	require.Len(t, emitter.received, 1)
	assert.Equal(t, event, emitter.received[0])
	assert.True(t, emitter.remote[0])
}

func TestNATSEventSubscriber_RejectsMalformedMessages(t *testing.T) {
	subscriber := NewNATSEventSubscriber(newMemoryBus(), NewEventSubjectMapper(), &recordingEmitter{}, "instance-b")

	err := subscriber.handleMessage("bankroll.sessions.changed", []byte("not json"))
	assert.ErrorContains(t, err, "failed to unmarshal event envelope")

	data, _ := json.Marshal(EventEnvelope{EventType: "mystery", SourceID: "instance-a", Payload: []byte(`{}`)})
	err = subscriber.handleMessage("bankroll.sessions.changed", data)
	assert.ErrorContains(t, err, "unknown event type")
}
