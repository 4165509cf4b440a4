// Package cleanup provides best-effort removal of orphaned image blobs.
// Deleting an image or a restaurant removes database rows synchronously;
// the backing objects are enqueued here and removed by a worker.
package cleanup

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chukanavi/chukanavi/internal/metrics"
)

const (
	// StreamKey is the Redis stream for blob removal requests.
	StreamKey = "stream:blob_cleanup"

	// DeadLetterStreamKey is the Redis stream for poison messages.
	DeadLetterStreamKey = "stream:blob_cleanup:dlq"

	// MaxStreamLen is the approximate max length of the stream.
	MaxStreamLen = 10000

	// PublishTimeout is the max time to wait for Redis publish.
	PublishTimeout = 100 * time.Millisecond
)

// RemovalPayload is the compressed removal request for the Redis stream.
type RemovalPayload struct {
	ImageURL  string `json:"u"` // stored public URL
	DeletedAt int64  `json:"t"` // Unix milliseconds
}

// Publisher enqueues blob removal requests to the Redis stream.
type Publisher struct {
	redis   *redis.Client
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewPublisher creates a new blob cleanup publisher.
func NewPublisher(client *redis.Client, logger *slog.Logger, recorder metrics.Recorder) *Publisher {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Publisher{
		redis:   client,
		logger:  logger.With("component", "cleanup.publisher"),
		metrics: recorder,
	}
}

// Publish adds a removal request to the stream synchronously.
func (p *Publisher) Publish(ctx context.Context, payload RemovalPayload) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	result, err := p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamKey,
		MaxLen: MaxStreamLen,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{
			"payload": string(data),
		},
	}).Result()

	if err != nil {
		return "", fmt.Errorf("xadd: %w", err)
	}

	return result, nil
}

// PublishRemoval enqueues a stored URL for blob removal. Failures are
// logged, never returned; orphaned blobs are an accepted outcome.
// Implements the services' CleanupPublisher.
func (p *Publisher) PublishRemoval(ctx context.Context, imageURL string) error {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), PublishTimeout)
	defer cancel()

	streamID, err := p.Publish(publishCtx, RemovalPayload{
		ImageURL:  imageURL,
		DeletedAt: time.Now().UnixMilli(),
	})
	if err != nil {
		p.logger.Warn("failed to publish blob removal",
			"image_url", imageURL,
			"error", err,
		)
		p.metrics.IncBlobCleanupPublished("dropped")
		return nil
	}

	p.logger.Debug("blob removal published",
		"image_url", imageURL,
		"stream_id", streamID,
	)
	p.metrics.IncBlobCleanupPublished("success")
	return nil
}

// ValidateRemovalPayload validates removal payload fields.
func ValidateRemovalPayload(payload RemovalPayload) error {
	if payload.ImageURL == "" {
		return fmt.Errorf("image_url is required")
	}
	if len(payload.ImageURL) > 2048 {
		return fmt.Errorf("image_url too long")
	}
	if payload.DeletedAt <= 0 {
		return fmt.Errorf("deleted_at must be set")
	}
	return nil
}
