// Package metrics exposes Prometheus instrumentation for the render
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RenderJobsTotal counts render jobs by terminal status
	RenderJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "montage_render_jobs_total",
		Help: "Render jobs by terminal status (completed or error).",
	}, []string{"status"})

	// NormalizeDuration observes per-source normalization wall time
	NormalizeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "montage_normalize_duration_seconds",
		Help:    "Wall time spent normalizing one source file.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	// AssetResolveFailures counts asset references that failed to resolve
	AssetResolveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "montage_asset_resolve_failures_total",
		Help: "Asset references that could not be resolved or fetched.",
	})
)
