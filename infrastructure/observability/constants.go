package observability

// Metric name prefixes
const (
	MetricPrefix = "bankroll"
)

// Metric names
const (
	// Domain event metrics
	EventsEmittedTotal = MetricPrefix + ".events.emitted_total"
	SessionsActive     = MetricPrefix + ".sessions.active"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Import metrics
	ImportRowsTotal = MetricPrefix + ".import.rows_total"

	// Stats metrics
	StatsBuildDuration = MetricPrefix + ".stats.build_duration"
)

// Label keys
const (
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelAction    = "action"
	LabelView      = "view"
	LabelOutcome   = "outcome"
)

// Import row outcomes
const (
	ImportOutcomeImported = "imported"
	ImportOutcomeSkipped  = "skipped"
)
