package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignup is a no-op.
func (n *NoopRecorder) IncSignup() {}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(status string) {}

// IncIdentityCacheHit is a no-op.
func (n *NoopRecorder) IncIdentityCacheHit() {}

// IncIdentityCacheMiss is a no-op.
func (n *NoopRecorder) IncIdentityCacheMiss() {}

// IncRestaurantCreated is a no-op.
func (n *NoopRecorder) IncRestaurantCreated() {}

// IncRestaurantUpdated is a no-op.
func (n *NoopRecorder) IncRestaurantUpdated() {}

// IncRestaurantDeleted is a no-op.
func (n *NoopRecorder) IncRestaurantDeleted() {}

// ObserveSearchDuration is a no-op.
func (n *NoopRecorder) ObserveSearchDuration(duration time.Duration) {}

// IncImageUploaded is a no-op.
func (n *NoopRecorder) IncImageUploaded(status string) {}

// IncImageDeleted is a no-op.
func (n *NoopRecorder) IncImageDeleted() {}

// IncBlobCleanupPublished is a no-op.
func (n *NoopRecorder) IncBlobCleanupPublished(status string) {}

// IncBlobCleanupProcessed is a no-op.
func (n *NoopRecorder) IncBlobCleanupProcessed(status string) {}

// ObserveCleanupBatchSize is a no-op.
func (n *NoopRecorder) ObserveCleanupBatchSize(size int) {}

// SetCleanupQueueDepth is a no-op.
func (n *NoopRecorder) SetCleanupQueueDepth(depth int64) {}
