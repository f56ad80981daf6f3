package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion metrics
var (
	IngestItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_ingest_items_total",
			Help: "Total number of ingested items by source and status",
		},
		[]string{"source", "status"}, // source: upload|import, status: succeeded|failed|rejected
	)

	IngestBatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_ingest_batch_duration_seconds",
			Help:    "Duration of ingestion batches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	IngestItemDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_ingest_item_duration_seconds",
			Help:    "Per-item pipeline duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	IngestWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_ingest_workers",
			Help: "Number of workers used by the last ingestion batch",
		},
	)
)

// Derivative metrics
var (
	DerivativeGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_derivative_generations_total",
			Help: "Total number of derivative generation attempts by kind and status",
		},
		[]string{"kind", "status"}, // kind: thumbnail|medium|webp, status: success|error
	)

	DerivativeGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_derivative_generation_duration_seconds",
			Help:    "Derivative generation duration in seconds by kind",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"kind"},
	)
)

// Import metrics
var (
	ImportRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "photo_gallery_import_runs_total",
			Help: "Total number of directory import runs",
		},
	)

	ImportFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_import_files_total",
			Help: "Total number of files handled by directory imports by outcome",
		},
		[]string{"outcome"}, // imported|skipped|error
	)
)

// Catalog metrics
var (
	CatalogPhotosTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_gallery_catalog_photos_total",
			Help: "Number of originals currently in the catalog",
		},
	)

	CatalogDeletesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_catalog_deletes_total",
			Help: "Total number of delete operations by status",
		},
		[]string{"status"}, // success|not_found|partial
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_gallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_gallery_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
