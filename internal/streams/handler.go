package streams

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aqllidala/fieldwatch/internal/models"
	"github.com/aqllidala/fieldwatch/internal/store"
)

// HandleReadingEvent returns a handler that persists gateway-pushed
// readings through the store, using the gateway timestamp when one was
// set. Persisted readings behave exactly like HTTP-ingested ones.
func HandleReadingEvent(st *store.Store) func(ReadingEvent) error {
	return func(event ReadingEvent) error {
		reading := models.TelemetryReading{
			FieldID:      event.FieldID,
			Moisture:     event.Moisture,
			Temperature:  event.Temperature,
			BatteryLevel: event.Battery,
			Timestamp:    event.Timestamp,
		}

		if err := st.SaveTelemetry(context.Background(), &reading); err != nil {
			return fmt.Errorf("failed to persist reading: %w", err)
		}

		slog.Debug("Persisted stream reading",
			"event_id", event.EventID,
			"field_id", event.FieldID,
		)
		return nil
	}
}
