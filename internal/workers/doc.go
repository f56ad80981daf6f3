// Package workers determines worker pool sizes for the ingestion
// pipeline. Counts derive from GOMAXPROCS so container CPU limits are
// respected, and the INGEST_WORKERS environment variable overrides the
// calculation for operators who need to pin concurrency.
package workers
