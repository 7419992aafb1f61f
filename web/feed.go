package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"bankroll/events"

	log "github.com/sirupsen/logrus"
)

// ChangeFeed pushes domain events to browsers as Server-Sent Events.
// Clients re-fetch whatever they display; slow clients drop events.
type ChangeFeed struct {
	mu        sync.Mutex
	clients   map[chan feedMessage]struct{}
	heartbeat time.Duration
	buffer    int
	done      chan struct{}
	closeOnce sync.Once
}

type feedMessage struct {
	eventType events.EventType
	data      []byte
}

// NewChangeFeed creates a feed; subscribe it to the bus with Attach
func NewChangeFeed() *ChangeFeed {
	return &ChangeFeed{
		clients:   make(map[chan feedMessage]struct{}),
		heartbeat: 25 * time.Second,
		buffer:    16,
		done:      make(chan struct{}),
	}
}

// Attach subscribes the feed to every event type on the bus
func (f *ChangeFeed) Attach(bus *events.Bus) {
	bus.SubscribeAll(f.Handle)
}

// Handle is an events.Handler broadcasting the event to connected clients
func (f *ChangeFeed) Handle(ctx context.Context, event events.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to encode change feed event")
		return
	}
	msg := feedMessage{eventType: event.Type(), data: data}

	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.clients {
		select {
		case ch <- msg:
		default:
			log.WithField("eventType", event.Type()).Debug("Dropping change feed event for slow client")
		}
	}
}

// Clients returns the number of connected clients
func (f *ChangeFeed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every client
func (f *ChangeFeed) Close() {
	f.closeOnce.Do(func() { close(f.done) })
}

func (f *ChangeFeed) subscribe() chan feedMessage {
	ch := make(chan feedMessage, f.buffer)
	f.mu.Lock()
	f.clients[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *ChangeFeed) unsubscribe(ch chan feedMessage) {
	f.mu.Lock()
	delete(f.clients, ch)
	f.mu.Unlock()
}

// ServeHTTP streams events until the client disconnects or the feed closes
func (f *ChangeFeed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
		return
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	ch := f.subscribe()
	defer f.unsubscribe(ch)

	log.WithField("clients", f.Clients()).Debug("Change feed client connected")

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(f.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-f.done:
			return
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.eventType, msg.data)
			flusher.Flush()
		}
	}
}
