package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aqllidala/fieldwatch/internal/config"
	"github.com/aqllidala/fieldwatch/internal/models"
	"github.com/aqllidala/fieldwatch/internal/notify"
	"github.com/aqllidala/fieldwatch/internal/store"
)

// RunScanCycle executes one alert cycle: find every field whose latest
// reading sits under its effective threshold, notify the operator, and
// record an alert row only after the send succeeded. A field-level
// delivery failure is logged and the cycle moves on; only a failed
// candidate query is returned as an error.
//
// There is deliberately no cooldown state: a field that stays dry gets
// a fresh notification every cycle until a reading above threshold
// arrives.
func RunScanCycle(ctx context.Context, logger *slog.Logger, st *store.Store, notifier notify.Notifier, globalThreshold int) error {
	candidates, err := st.FieldsNeedingAlert(ctx, globalThreshold)
	if err != nil {
		return fmt.Errorf("alert scan query failed: %w", err)
	}

	for _, c := range candidates {
		message := notify.RenderLowMoistureAlert(c.FieldID, c.Moisture, c.Threshold)

		if err := notifier.Notify(message); err != nil {
			logger.Error("Failed to send alert",
				"field_id", c.FieldID,
				"error", err,
			)
			continue
		}

		if err := st.RecordAlert(ctx, c.FieldID, models.AlertTypeLowMoisture, message); err != nil {
			// The notification already left. At-least-once delivery,
			// at-most-once record.
			logger.Error("Alert sent but not recorded",
				"field_id", c.FieldID,
				"error", err,
			)
			continue
		}

		logger.Info("Alert sent",
			"field_id", c.FieldID,
			"moisture", c.Moisture,
			"threshold", c.Threshold,
		)
	}

	return nil
}

// StartLoop runs the scanner as an in-process ticker loop, used when no
// Redis is configured. A failed cycle retries after the shorter
// recovery interval. Returns a stop function that cancels the loop and
// waits for it to finish.
func StartLoop(cfg *config.Config, logger *slog.Logger, st *store.Store, notifier notify.Notifier) (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			delay := cfg.ScanInterval
			if err := RunScanCycle(ctx, logger, st, notifier, cfg.MoistureThreshold); err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Error("Alert scan cycle failed", "error", err)
				delay = cfg.ScanRetryInterval
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()

	logger.Info("Alert scanner started",
		"mode", "in-process",
		"interval", cfg.ScanInterval,
		"threshold", cfg.MoistureThreshold,
	)

	return func() {
		cancel()
		<-done
	}
}
