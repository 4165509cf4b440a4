package handler

import (
	"fmt"
	"net/http"

	"github.com/chukanavi/chukanavi/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "chukanavi_signups_total %d\n", snap.Signups)
	writeMetric(w, "chukanavi_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "chukanavi_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)

	writeMetric(w, "chukanavi_identity_cache_hits_total %d\n", snap.IdentityCacheHits)
	writeMetric(w, "chukanavi_identity_cache_misses_total %d\n", snap.IdentityCacheMisses)

	writeMetric(w, "chukanavi_restaurants_created_total %d\n", snap.RestaurantsCreated)
	writeMetric(w, "chukanavi_restaurants_updated_total %d\n", snap.RestaurantsUpdated)
	writeMetric(w, "chukanavi_restaurants_deleted_total %d\n", snap.RestaurantsDeleted)

	writeMetric(w, "chukanavi_search_duration_seconds_count %d\n", snap.SearchDurationCount)
	writeMetric(w, "chukanavi_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)

	writeMetric(w, "chukanavi_images_uploaded_total{status=\"success\"} %d\n", snap.ImagesUploaded)
	writeMetric(w, "chukanavi_images_uploaded_total{status=\"placeholder\"} %d\n", snap.ImagePlaceholders)
	writeMetric(w, "chukanavi_images_deleted_total %d\n", snap.ImagesDeleted)

	writeMetric(w, "chukanavi_blob_cleanup_published_total{status=\"success\"} %d\n", snap.CleanupPublished)
	writeMetric(w, "chukanavi_blob_cleanup_published_total{status=\"dropped\"} %d\n", snap.CleanupDropped)
	writeMetric(w, "chukanavi_blob_cleanup_processed_total{status=\"success\"} %d\n", snap.CleanupProcessed)
	writeMetric(w, "chukanavi_blob_cleanup_processed_total{status=\"skipped\"} %d\n", snap.CleanupSkipped)
	writeMetric(w, "chukanavi_blob_cleanup_processed_total{status=\"failed\"} %d\n", snap.CleanupFailed)
	writeMetric(w, "chukanavi_blob_cleanup_batches_total %d\n", snap.CleanupBatchCount)
	writeMetric(w, "chukanavi_blob_cleanup_queue_depth %d\n", snap.CleanupQueueDepth)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
