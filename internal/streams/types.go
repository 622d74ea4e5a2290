package streams

import "time"

// Stream name constants
const (
	// StreamTelemetryEvents carries readings accepted over HTTP, for
	// downstream consumers (analytics, archival).
	StreamTelemetryEvents = "telemetry:events"
	// StreamTelemetryIngest is the inbound stream for gateways that
	// push readings through Redis instead of the HTTP API.
	StreamTelemetryIngest = "telemetry:ingest"
)

// Consumer group constants
const (
	GroupIngestWorkers = "fieldwatch-ingest"
)

// Schema version constant
const (
	SchemaVersionV1 = "v1"
)

// ReadingEvent is the wire form of one telemetry reading. EventID is
// assigned by the publisher for external tracking.
type ReadingEvent struct {
	EventID     string    `json:"event_id"`
	FieldID     string    `json:"field_id"`
	Moisture    int       `json:"moisture"`
	Temperature float64   `json:"temperature"`
	Battery     int       `json:"battery"`
	Timestamp   time.Time `json:"timestamp"`
}
