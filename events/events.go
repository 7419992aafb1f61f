package events

import (
	"context"
	"sync"

	"bankroll/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeSessionChanged     EventType = "session_changed"
	EventTypeTransactionChanged EventType = "transaction_changed"
	EventTypePlayerCreated      EventType = "player_created"
)

// AllEventTypes lists every event type the bus carries
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeSessionChanged,
		EventTypeTransactionChanged,
		EventTypePlayerCreated,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SessionAction describes what happened to a session
type SessionAction string

const (
	SessionActionCreated   SessionAction = "created"
	SessionActionUpdated   SessionAction = "updated"
	SessionActionCompleted SessionAction = "completed"
	SessionActionReopened  SessionAction = "reopened"
	SessionActionDeleted   SessionAction = "deleted"
)

// SessionChangedEvent is emitted after a session row changes
type SessionChangedEvent struct {
	SessionID uuid.UUID            `json:"sessionId"`
	Action    SessionAction        `json:"action"`
	Status    models.SessionStatus `json:"status"`
	Date      models.Date          `json:"date"`
	Location  string               `json:"location"`
}

func (e SessionChangedEvent) Type() EventType {
	return EventTypeSessionChanged
}

// TransactionAction describes what happened to a player's row in a session
type TransactionAction string

const (
	TransactionActionAdded    TransactionAction = "added"
	TransactionActionBuyIn    TransactionAction = "buy_in"
	TransactionActionCashOut  TransactionAction = "cash_out"
	TransactionActionRemoved  TransactionAction = "removed"
	TransactionActionImported TransactionAction = "imported"
)

// TransactionChangedEvent is emitted after a buy-in/cash-out row changes
type TransactionChangedEvent struct {
	SessionID uuid.UUID         `json:"sessionId"`
	PlayerID  uuid.UUID         `json:"playerId"`
	Action    TransactionAction `json:"action"`
}

func (e TransactionChangedEvent) Type() EventType {
	return EventTypeTransactionChanged
}

// PlayerCreatedEvent is emitted after a new player is registered
type PlayerCreatedEvent struct {
	PlayerID uuid.UUID `json:"playerId"`
	Name     string    `json:"name"`
}

func (e PlayerCreatedEvent) Type() EventType {
	return EventTypePlayerCreated
}

type remoteKey struct{}

// WithRemoteOrigin marks ctx as carrying an event received from another instance
func WithRemoteOrigin(ctx context.Context) context.Context {
	return context.WithValue(ctx, remoteKey{}, true)
}

// IsRemote reports whether the event being handled came from another instance
func IsRemote(ctx context.Context) bool {
	remote, _ := ctx.Value(remoteKey{}).(bool)
	return remote
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type on main event bus")
}

// SubscribeAll adds the handler for every event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range AllEventTypes() {
		b.Subscribe(t, handler)
	}
}

// Emit publishes an event to all registered handlers.
// Handlers run asynchronously; a panicking handler is logged and dropped.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
		"remote":       IsRemote(ctx),
	}).Debug("Emitting event to handlers on main event bus")

	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the number of events waiting for a commit
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}

// Flush is called after a successful commit.
// Events are emitted on a background context so handlers outlive the request.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus to main event bus")

	eventCtx := context.Background()
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard is called after a rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
