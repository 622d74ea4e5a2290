package streams

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aqllidala/fieldwatch/internal/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Publisher publishes accepted telemetry readings to Redis Streams
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new Publisher instance
func NewPublisher(redisURL string) (*Publisher, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	return &Publisher{rdb: client}, nil
}

// PublishReading publishes one reading to the events stream. Returns
// the stream message id.
func (p *Publisher) PublishReading(ctx context.Context, r models.TelemetryReading) (string, error) {
	event := ReadingEvent{
		EventID:     uuid.New().String(),
		FieldID:     r.FieldID,
		Moisture:    r.Moisture,
		Temperature: r.Temperature,
		Battery:     r.BatteryLevel,
		Timestamp:   r.Timestamp,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event: %w", err)
	}

	result := p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamTelemetryEvents,
		MaxLen: 10000,
		Approx: true,
		ID:     "*", // auto-generate ID
		Values: map[string]interface{}{
			"payload":        string(payload),
			"published_at":   time.Now().Unix(),
			"schema_version": SchemaVersionV1,
		},
	})

	if result.Err() != nil {
		return "", fmt.Errorf("failed to publish to stream: %w", result.Err())
	}

	return result.Val(), nil
}

// Close closes the Redis client connection
func (p *Publisher) Close() error {
	return p.rdb.Close()
}
