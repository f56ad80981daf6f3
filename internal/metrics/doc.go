// Package metrics provides Prometheus instrumentation for the
// photo-gallery pipeline. All metrics are prefixed with
// "photo_gallery_" and registered with the default registry via
// promauto; expose them by mounting promhttp.Handler() on /metrics.
package metrics
