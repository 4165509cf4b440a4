// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncSignup()
	IncLogin(status string) // status: "success" or "failure"
	IncIdentityCacheHit()
	IncIdentityCacheMiss()

	// Restaurant management metrics
	IncRestaurantCreated()
	IncRestaurantUpdated()
	IncRestaurantDeleted()
	ObserveSearchDuration(duration time.Duration)

	// Image pipeline metrics
	IncImageUploaded(status string) // status: "success" or "placeholder"
	IncImageDeleted()
	IncBlobCleanupPublished(status string) // status: "success" or "dropped"
	IncBlobCleanupProcessed(status string) // status: "success", "failed", "skipped"
	ObserveCleanupBatchSize(size int)
	SetCleanupQueueDepth(depth int64)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
