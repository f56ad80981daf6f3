// Package ingest orchestrates batches of image inputs through the
// pipeline: format validation, original persistence, decode, and
// derivative generation. Items in a batch are independent; one item's
// failure never aborts the others, and the caller always receives a
// structured batch result with per-item outcomes.
package ingest
