package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/codec"
	"photo-gallery/internal/derivative"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/phototypes"
	"photo-gallery/internal/storage"
	"photo-gallery/internal/workers"

	"github.com/google/uuid"
)

// ErrEmptyBatch is returned when an ingestion call carries no inputs.
var ErrEmptyBatch = errors.New("no files to ingest")

// SourceAsset is one raw upload: bytes plus the client-supplied name
// and declared MIME type. It exists only for the duration of ingestion.
type SourceAsset struct {
	OriginalName string
	MimeType     string
	Data         []byte
}

// ItemFailure records one input that did not produce a photo.
type ItemFailure struct {
	Input  string `json:"input"`
	Reason string `json:"reason"`
}

// BatchResult is the best-effort union of independent item outcomes.
// A batch is never atomic: callers always receive counts, even when
// every item failed.
type BatchResult struct {
	BatchID   string                `json:"batchId"`
	Succeeded []catalog.PhotoRecord `json:"succeeded"`
	Failed    []ItemFailure         `json:"failed"`
}

// Orchestrator drives batches of inputs through validation, storage,
// decode, and derivative generation. Items are processed concurrently
// up to a bounded worker count; steps within one item are sequential.
type Orchestrator struct {
	codec       *codec.Adapter
	store       *storage.Store
	generator   *derivative.Generator
	catalog     *catalog.Catalog
	workerLimit int
}

// New returns an Orchestrator. workerLimit caps batch concurrency;
// 0 selects the default cap.
func New(adapter *codec.Adapter, store *storage.Store, gen *derivative.Generator, cat *catalog.Catalog, workerLimit int) *Orchestrator {
	if workerLimit <= 0 {
		workerLimit = workers.DefaultLimit
	}
	return &Orchestrator{
		codec:       adapter,
		store:       store,
		generator:   gen,
		catalog:     cat,
		workerLimit: workerLimit,
	}
}

// IngestUploads processes a batch of uploaded assets. Per-item failures
// are captured in the result, never returned as an error; only an empty
// batch fails the call itself. Cancellation is cooperative at item
// granularity: in-flight items run to completion.
func (o *Orchestrator) IngestUploads(ctx context.Context, assets []SourceAsset) (*BatchResult, error) {
	if len(assets) == 0 {
		return nil, ErrEmptyBatch
	}

	batchID := uuid.NewString()
	start := time.Now()
	numWorkers := workers.ForCPU(o.workerLimit)
	metrics.IngestWorkers.Set(float64(numWorkers))
	logging.Info("ingest batch %s: %d uploads, %d workers", batchID, len(assets), numWorkers)

	outcomes := make([]outcome, len(assets))
	RunPool(ctx, numWorkers, len(assets), func(i int) {
		outcomes[i] = o.ingestAsset(assets[i])
	})

	result := &BatchResult{
		BatchID:   batchID,
		Succeeded: []catalog.PhotoRecord{},
		Failed:    []ItemFailure{},
	}
	for i, out := range outcomes {
		switch {
		case !out.processed:
			result.Failed = append(result.Failed, ItemFailure{
				Input:  assets[i].OriginalName,
				Reason: "batch cancelled before processing",
			})
			metrics.IngestItemsTotal.WithLabelValues("upload", "failed").Inc()
		case out.failure != nil:
			result.Failed = append(result.Failed, *out.failure)
			metrics.IngestItemsTotal.WithLabelValues("upload", out.status).Inc()
		default:
			result.Succeeded = append(result.Succeeded, out.record)
			metrics.IngestItemsTotal.WithLabelValues("upload", "succeeded").Inc()
		}
	}

	metrics.IngestBatchDuration.WithLabelValues("upload").Observe(time.Since(start).Seconds())
	logging.Info("ingest batch %s complete: %d succeeded, %d failed in %v",
		batchID, len(result.Succeeded), len(result.Failed), time.Since(start))
	return result, nil
}

// IngestPath copies a filesystem source into storage under a fresh
// stored name and runs the per-item pipeline on it. Used by the
// directory importer; the source file is left in place.
func (o *Orchestrator) IngestPath(srcPath, originalName string) (catalog.PhotoRecord, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return catalog.PhotoRecord{}, fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	out := o.ingestValidated(originalName, data)
	if out.failure != nil {
		return catalog.PhotoRecord{}, errors.New(out.failure.Reason)
	}
	return out.record, nil
}

type outcome struct {
	processed bool
	record    catalog.PhotoRecord
	failure   *ItemFailure
	status    string // rejected|failed, when failure != nil
}

// ingestAsset runs the full per-item pipeline for one upload:
// validate, persist, decode, derive.
func (o *Orchestrator) ingestAsset(asset SourceAsset) outcome {
	if !phototypes.IsAllowed(asset.OriginalName) || !phototypes.IsAllowedMime(asset.MimeType) {
		logging.Debug("rejecting %s: unsupported format", asset.OriginalName)
		return outcome{
			processed: true,
			failure: &ItemFailure{
				Input:  asset.OriginalName,
				Reason: fmt.Sprintf("unsupported format: only %s are accepted", "jpg, jpeg, png, gif, webp"),
			},
			status: "rejected",
		}
	}
	return o.ingestValidated(asset.OriginalName, asset.Data)
}

// ingestValidated persists the original and runs decode plus derivative
// generation. A decode failure is tolerated: the original stays stored
// and the record persists with zero dimensions and no derivatives.
func (o *Orchestrator) ingestValidated(originalName string, data []byte) outcome {
	start := time.Now()
	defer func() {
		metrics.IngestItemDuration.Observe(time.Since(start).Seconds())
	}()

	storedName := storage.GenerateStoredName(originalName)
	if err := o.store.SaveOriginal(storedName, data); err != nil {
		logging.Error("failed to store %s: %v", originalName, err)
		return outcome{
			processed: true,
			failure:   &ItemFailure{Input: originalName, Reason: err.Error()},
			status:    "failed",
		}
	}

	record := catalog.PhotoRecord{
		ID:           storage.ID(storedName),
		Filename:     storedName,
		OriginalName: originalName,
		Path:         storage.OriginalURL(storedName),
		UploadedAt:   time.Now().UTC(),
		Format:       phototypes.Format(storedName),
		Size:         int64(len(data)),
	}

	img, meta, err := o.codec.Decode(data)
	if err != nil {
		// Metadata failure is logged, not fatal: the original is kept
		// and the record persists with zero dimensions.
		logging.Warn("decode failed for %s (stored as %s): %v", originalName, storedName, err)
		o.catalog.CacheDimensions(storedName, 0, 0)
		return outcome{processed: true, record: record}
	}

	record.Width = meta.Width
	record.Height = meta.Height
	o.catalog.CacheDimensions(storedName, meta.Width, meta.Height)

	for _, res := range o.generator.Generate(img, storedName) {
		if !res.OK() {
			continue
		}
		switch res.Kind {
		case derivative.KindThumbnail:
			record.ThumbnailPath = res.RelativePath
		case derivative.KindMedium:
			record.MediumPath = res.RelativePath
		case derivative.KindWebP:
			record.WebPPath = res.RelativePath
		}
	}

	return outcome{processed: true, record: record}
}
