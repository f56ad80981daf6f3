package importer

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photo-gallery/internal/catalog"
	"photo-gallery/internal/ingest"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/phototypes"
	"photo-gallery/internal/storage"
	"photo-gallery/internal/workers"

	"github.com/google/uuid"
)

// Call-level precondition failures. Per-file failures never surface
// here; they are collected into the Result.
var (
	ErrNotADirectory  = errors.New("path is not a directory")
	ErrPathUnreadable = errors.New("path unreadable")
)

// FileError records one candidate file that failed to import.
type FileError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Result aggregates one directory import run.
type Result struct {
	BatchID       string                `json:"batchId"`
	Imported      int                   `json:"imported"`
	Skipped       int                   `json:"skipped"`
	Errors        []FileError           `json:"errors"`
	ImportedFiles []catalog.PhotoRecord `json:"importedFiles"`
	Total         int                   `json:"total"`
}

// Importer walks a source directory and feeds image files through the
// ingestion pipeline. Files whose content is already stored are skipped:
// the dedup key is the SHA-256 of the file content, so a renamed
// duplicate is still recognized.
type Importer struct {
	orchestrator *ingest.Orchestrator
	store        *storage.Store
	workerLimit  int
}

// New returns an Importer feeding the given orchestrator.
func New(orch *ingest.Orchestrator, store *storage.Store, workerLimit int) *Importer {
	if workerLimit <= 0 {
		workerLimit = workers.DefaultLimit
	}
	return &Importer{orchestrator: orch, store: store, workerLimit: workerLimit}
}

// Import scans sourcePath (non-recursive), filters to regular files
// with an accepted image extension, deduplicates against already-stored
// originals, and copies each survivor through the per-item pipeline.
// Only an unusable source path fails the call; per-file outcomes are
// collected in the Result.
func (im *Importer) Import(ctx context.Context, sourcePath string) (*Result, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPathUnreadable, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, sourcePath)
	}

	entries, err := os.ReadDir(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPathUnreadable, err)
	}

	metrics.ImportRunsTotal.Inc()
	batchID := uuid.NewString()
	start := time.Now()

	result := &Result{
		BatchID:       batchID,
		Errors:        []FileError{},
		ImportedFiles: []catalog.PhotoRecord{},
	}

	known, err := im.knownHashes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPathUnreadable, err)
	}

	// Dedup runs sequentially so in-batch duplicates are caught too;
	// the copy/decode/derive work below runs on the pool.
	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || !phototypes.IsAllowed(name) {
			// Non-image files are silently excluded, not errors.
			continue
		}

		hash, err := hashFile(filepath.Join(sourcePath, name))
		if err != nil {
			result.Errors = append(result.Errors, FileError{File: name, Reason: err.Error()})
			metrics.ImportFilesTotal.WithLabelValues("error").Inc()
			continue
		}
		if known[hash] {
			logging.Debug("import: skipping duplicate %s (content already stored)", name)
			result.Skipped++
			metrics.ImportFilesTotal.WithLabelValues("skipped").Inc()
			continue
		}
		known[hash] = true
		candidates = append(candidates, name)
	}

	numWorkers := workers.ForCPU(im.workerLimit)
	logging.Info("import batch %s: %d candidates from %s, %d workers",
		batchID, len(candidates), sourcePath, numWorkers)

	type fileOutcome struct {
		record catalog.PhotoRecord
		err    error
	}
	outcomes := make([]fileOutcome, len(candidates))
	ingest.RunPool(ctx, numWorkers, len(candidates), func(i int) {
		record, err := im.orchestrator.IngestPath(filepath.Join(sourcePath, candidates[i]), candidates[i])
		outcomes[i] = fileOutcome{record: record, err: err}
	})

	for i, out := range outcomes {
		if out.err != nil {
			result.Errors = append(result.Errors, FileError{File: candidates[i], Reason: out.err.Error()})
			metrics.ImportFilesTotal.WithLabelValues("error").Inc()
			continue
		}
		result.Imported++
		result.ImportedFiles = append(result.ImportedFiles, out.record)
		metrics.ImportFilesTotal.WithLabelValues("imported").Inc()
	}

	result.Total = result.Imported + result.Skipped + len(result.Errors)
	logging.Info("import batch %s complete: %d imported, %d skipped, %d errors in %v",
		batchID, result.Imported, result.Skipped, len(result.Errors), time.Since(start))
	return result, nil
}

// knownHashes hashes every stored original once per import call.
// Hashing is I/O-bound, so it fans out on its own small pool.
func (im *Importer) knownHashes() (map[string]bool, error) {
	names, err := im.store.ListOriginals()
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(names))
	var mu sync.Mutex

	ingest.RunPool(context.Background(), workers.ForIO(im.workerLimit), len(names), func(i int) {
		hash, err := hashFile(im.store.OriginalPath(names[i]))
		if err != nil {
			logging.Warn("import: failed to hash stored original %s: %v", names[i], err)
			return
		}
		mu.Lock()
		known[hash] = true
		mu.Unlock()
	})

	return known, nil
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Warn("failed to close %s: %v", path, cerr)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
