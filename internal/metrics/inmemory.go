package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups               uint64
	LoginSuccesses        uint64
	LoginFailures         uint64
	IdentityCacheHits     uint64
	IdentityCacheMisses   uint64
	RestaurantsCreated    uint64
	RestaurantsUpdated    uint64
	RestaurantsDeleted    uint64
	SearchDurationCount   uint64
	SearchDurationTotalNs int64
	ImagesUploaded        uint64
	ImagePlaceholders     uint64
	ImagesDeleted         uint64
	CleanupPublished      uint64
	CleanupDropped        uint64
	CleanupProcessed      uint64
	CleanupSkipped        uint64
	CleanupFailed         uint64
	CleanupBatchCount     uint64
	CleanupQueueDepth     int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signups               uint64
	loginSuccesses        uint64
	loginFailures         uint64
	identityCacheHits     uint64
	identityCacheMisses   uint64
	restaurantsCreated    uint64
	restaurantsUpdated    uint64
	restaurantsDeleted    uint64
	searchDurationCount   uint64
	searchDurationTotalNs int64
	imagesUploaded        uint64
	imagePlaceholders     uint64
	imagesDeleted         uint64
	cleanupPublished      uint64
	cleanupDropped        uint64
	cleanupProcessed      uint64
	cleanupSkipped        uint64
	cleanupFailed         uint64
	cleanupBatchCount     uint64
	cleanupQueueDepth     int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Signups:               atomic.LoadUint64(&m.signups),
		LoginSuccesses:        atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:         atomic.LoadUint64(&m.loginFailures),
		IdentityCacheHits:     atomic.LoadUint64(&m.identityCacheHits),
		IdentityCacheMisses:   atomic.LoadUint64(&m.identityCacheMisses),
		RestaurantsCreated:    atomic.LoadUint64(&m.restaurantsCreated),
		RestaurantsUpdated:    atomic.LoadUint64(&m.restaurantsUpdated),
		RestaurantsDeleted:    atomic.LoadUint64(&m.restaurantsDeleted),
		SearchDurationCount:   atomic.LoadUint64(&m.searchDurationCount),
		SearchDurationTotalNs: atomic.LoadInt64(&m.searchDurationTotalNs),
		ImagesUploaded:        atomic.LoadUint64(&m.imagesUploaded),
		ImagePlaceholders:     atomic.LoadUint64(&m.imagePlaceholders),
		ImagesDeleted:         atomic.LoadUint64(&m.imagesDeleted),
		CleanupPublished:      atomic.LoadUint64(&m.cleanupPublished),
		CleanupDropped:        atomic.LoadUint64(&m.cleanupDropped),
		CleanupProcessed:      atomic.LoadUint64(&m.cleanupProcessed),
		CleanupSkipped:        atomic.LoadUint64(&m.cleanupSkipped),
		CleanupFailed:         atomic.LoadUint64(&m.cleanupFailed),
		CleanupBatchCount:     atomic.LoadUint64(&m.cleanupBatchCount),
		CleanupQueueDepth:     atomic.LoadInt64(&m.cleanupQueueDepth),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncIdentityCacheHit increments the identity cache hit counter.
func (m *InMemoryRecorder) IncIdentityCacheHit() {
	atomic.AddUint64(&m.identityCacheHits, 1)
}

// IncIdentityCacheMiss increments the identity cache miss counter.
func (m *InMemoryRecorder) IncIdentityCacheMiss() {
	atomic.AddUint64(&m.identityCacheMisses, 1)
}

// IncRestaurantCreated increments the restaurant created counter.
func (m *InMemoryRecorder) IncRestaurantCreated() {
	atomic.AddUint64(&m.restaurantsCreated, 1)
}

// IncRestaurantUpdated increments the restaurant updated counter.
func (m *InMemoryRecorder) IncRestaurantUpdated() {
	atomic.AddUint64(&m.restaurantsUpdated, 1)
}

// IncRestaurantDeleted increments the restaurant deleted counter.
func (m *InMemoryRecorder) IncRestaurantDeleted() {
	atomic.AddUint64(&m.restaurantsDeleted, 1)
}

// ObserveSearchDuration records a search duration.
func (m *InMemoryRecorder) ObserveSearchDuration(duration time.Duration) {
	atomic.AddUint64(&m.searchDurationCount, 1)
	atomic.AddInt64(&m.searchDurationTotalNs, duration.Nanoseconds())
}

// IncImageUploaded increments the image upload counter for the given status.
func (m *InMemoryRecorder) IncImageUploaded(status string) {
	if status == "placeholder" {
		atomic.AddUint64(&m.imagePlaceholders, 1)
		return
	}
	atomic.AddUint64(&m.imagesUploaded, 1)
}

// IncImageDeleted increments the image deleted counter.
func (m *InMemoryRecorder) IncImageDeleted() {
	atomic.AddUint64(&m.imagesDeleted, 1)
}

// IncBlobCleanupPublished increments the cleanup publish counter for the
// given status.
func (m *InMemoryRecorder) IncBlobCleanupPublished(status string) {
	if status == "success" {
		atomic.AddUint64(&m.cleanupPublished, 1)
		return
	}
	atomic.AddUint64(&m.cleanupDropped, 1)
}

// IncBlobCleanupProcessed increments the cleanup processed counter for the
// given status.
func (m *InMemoryRecorder) IncBlobCleanupProcessed(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.cleanupProcessed, 1)
	case "skipped":
		atomic.AddUint64(&m.cleanupSkipped, 1)
	default:
		atomic.AddUint64(&m.cleanupFailed, 1)
	}
}

// ObserveCleanupBatchSize counts a processed cleanup batch.
func (m *InMemoryRecorder) ObserveCleanupBatchSize(size int) {
	atomic.AddUint64(&m.cleanupBatchCount, 1)
}

// SetCleanupQueueDepth records the cleanup stream length.
func (m *InMemoryRecorder) SetCleanupQueueDepth(depth int64) {
	atomic.StoreInt64(&m.cleanupQueueDepth, depth)
}
