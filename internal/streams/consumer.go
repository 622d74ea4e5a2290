package streams

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReadingConsumer consumes gateway-pushed readings from Redis Streams
type ReadingConsumer struct {
	rdb          *redis.Client
	groupName    string
	consumerName string
}

// NewReadingConsumer creates a new ReadingConsumer instance
func NewReadingConsumer(redisURL, consumerName string) (*ReadingConsumer, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	// Read timeout must exceed the XReadGroup Block duration (5s)
	// to avoid spurious i/o timeout errors on idle streams.
	opts.ReadTimeout = 10 * time.Second

	client := redis.NewClient(opts)

	// Create consumer group on telemetry:ingest stream.
	// Start ID "0" means read from beginning if group is new.
	err = client.XGroupCreateMkStream(context.Background(), StreamTelemetryIngest, GroupIngestWorkers, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}
	// Ignore BUSYGROUP error - group already exists

	return &ReadingConsumer{
		rdb:          client,
		groupName:    GroupIngestWorkers,
		consumerName: consumerName,
	}, nil
}

// Consume runs a blocking loop consuming readings from the stream
func (c *ReadingConsumer) Consume(ctx context.Context, handler func(ReadingEvent) error) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		// Read from stream with consumer group
		streamsRes, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupName,
			Consumer: c.consumerName,
			Streams:  []string{StreamTelemetryIngest, ">"},
			Count:    10,
			Block:    5 * time.Second,
		}).Result()

		if err == redis.Nil {
			// No messages available, continue loop
			continue
		}

		if err != nil {
			// Blocking reads return a timeout when no messages arrive
			// within the Block duration — this is normal, not an error.
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if errors.Is(err, context.Canceled) {
				return err
			}
			slog.Error("Failed to read from stream", "error", err)
			continue
		}

		// Process messages
		for _, stream := range streamsRes {
			for _, message := range stream.Messages {
				// Extract payload from message values
				payloadStr, ok := message.Values["payload"].(string)
				if !ok {
					slog.Error("Invalid message payload", "message_id", message.ID)
					continue
				}

				// Unmarshal reading
				var event ReadingEvent
				if err := json.Unmarshal([]byte(payloadStr), &event); err != nil {
					slog.Error("Failed to unmarshal reading", "error", err, "message_id", message.ID)
					continue
				}

				// Call handler
				if err := handler(event); err != nil {
					slog.Error("Handler failed", "error", err, "event_id", event.EventID)
					// Message stays in PEL for retry, don't ACK
					continue
				}

				// ACK successful processing
				if err := c.rdb.XAck(ctx, StreamTelemetryIngest, c.groupName, message.ID).Err(); err != nil {
					slog.Error("Failed to ACK message", "error", err, "message_id", message.ID)
				}
			}
		}
	}
}

// Close closes the Redis client connection
func (c *ReadingConsumer) Close() error {
	return c.rdb.Close()
}
