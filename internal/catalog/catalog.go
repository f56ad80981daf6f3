package catalog

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"photo-gallery/internal/codec"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/phototypes"
	"photo-gallery/internal/storage"
)

// ErrNotFound is returned when no stored original matches an id.
var ErrNotFound = errors.New("photo not found")

// PhotoRecord is the externally visible shape of one stored photo.
// Derivative paths are present only when the derivative file exists.
type PhotoRecord struct {
	ID            string    `json:"id"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"originalName"`
	Path          string    `json:"path"`
	MediumPath    string    `json:"mediumPath,omitempty"`
	WebPPath      string    `json:"webpPath,omitempty"`
	ThumbnailPath string    `json:"thumbnailPath,omitempty"`
	UploadedAt    time.Time `json:"uploadedAt"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	Format        string    `json:"format"`
	Size          int64     `json:"size"`
}

// DeleteResult reports a best-effort deletion: every path that was
// removed plus any derivative removals that failed.
type DeleteResult struct {
	ID      string          `json:"id"`
	Removed []string        `json:"removed"`
	Failed  []DeleteFailure `json:"failed,omitempty"`
}

// DeleteFailure records one derivative that could not be removed.
type DeleteFailure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

type dims struct {
	width  int
	height int
}

// Catalog answers listing and deletion queries against the artifact
// store. The filesystem is the source of truth: every List call
// enumerates the photos directory fresh, so the catalog can never
// desync from disk. Dimensions are cached in-process because an
// original's pixels are immutable.
type Catalog struct {
	store *storage.Store
	codec *codec.Adapter

	dimCache sync.Map // storedName -> dims
}

// New returns a Catalog over the given store, probing dimensions with
// the given codec when they are not already cached.
func New(store *storage.Store, adapter *codec.Adapter) *Catalog {
	return &Catalog{store: store, codec: adapter}
}

// CacheDimensions records the decoded dimensions of a stored original
// so later List calls need not re-probe the file. Called by the
// ingestion pipeline right after decode.
func (c *Catalog) CacheDimensions(storedName string, width, height int) {
	c.dimCache.Store(storedName, dims{width: width, height: height})
}

// List returns a record for every stored original, in
// filesystem-enumeration order. Callers needing recency order sort by
// UploadedAt themselves.
func (c *Catalog) List() ([]PhotoRecord, error) {
	names, err := c.store.ListOriginals()
	if err != nil {
		return nil, err
	}

	records := make([]PhotoRecord, 0, len(names))
	for _, name := range names {
		record, err := c.Record(name, name)
		if err != nil {
			// Raced with a concurrent delete; skip rather than fail the listing.
			logging.Debug("skipping %s during listing: %v", name, err)
			continue
		}
		records = append(records, record)
	}

	metrics.CatalogPhotosTotal.Set(float64(len(records)))
	return records, nil
}

// Get returns the record for a single id.
func (c *Catalog) Get(id string) (*PhotoRecord, error) {
	storedName, err := c.store.FindOriginal(id)
	if err != nil {
		return nil, err
	}
	if storedName == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	record, err := c.Record(storedName, storedName)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Record builds the external record for a stored original. Dimension
// probing failures are tolerated and yield zero dimensions.
func (c *Catalog) Record(storedName, originalName string) (PhotoRecord, error) {
	info, err := c.store.StatOriginal(storedName)
	if err != nil {
		return PhotoRecord{}, fmt.Errorf("failed to stat original %s: %w", storedName, err)
	}

	width, height := c.dimensions(storedName)

	record := PhotoRecord{
		ID:           storage.ID(storedName),
		Filename:     storedName,
		OriginalName: originalName,
		Path:         storage.OriginalURL(storedName),
		UploadedAt:   info.ModTime().UTC(),
		Width:        width,
		Height:       height,
		Format:       phototypes.Format(storedName),
		Size:         info.Size(),
	}

	if _, err := os.Stat(c.store.ThumbnailPath(storedName)); err == nil {
		record.ThumbnailPath = storage.ThumbnailURL(storedName)
	}
	if _, err := os.Stat(c.store.MediumPath(storedName)); err == nil {
		record.MediumPath = storage.MediumURL(storedName)
	}
	if _, err := os.Stat(c.store.WebPPath(storedName)); err == nil {
		record.WebPPath = storage.WebPURL(storedName)
	}

	return record, nil
}

// dimensions returns cached dimensions for a stored original, probing
// the file header on a cache miss. Probe failures are cached as 0x0 so
// an undecodable original is not re-probed on every listing.
func (c *Catalog) dimensions(storedName string) (int, int) {
	if v, ok := c.dimCache.Load(storedName); ok {
		d := v.(dims)
		return d.width, d.height
	}

	width, height, err := c.codec.Dimensions(c.store.OriginalPath(storedName))
	if err != nil {
		logging.Warn("failed to read dimensions of %s: %v", storedName, err)
		width, height = 0, 0
	}
	c.dimCache.Store(storedName, dims{width: width, height: height})
	return width, height
}

// Delete removes the original matching id and every derivative that
// exists for it. Removal of an already-absent derivative is not an
// error, and a failed derivative removal does not stop the remaining
// removals from being attempted.
func (c *Catalog) Delete(id string) (*DeleteResult, error) {
	storedName, err := c.store.FindOriginal(id)
	if err != nil {
		return nil, err
	}
	if storedName == "" {
		metrics.CatalogDeletesTotal.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	result := &DeleteResult{ID: id}

	originalPath := c.store.OriginalPath(storedName)
	if err := os.Remove(originalPath); err != nil && !os.IsNotExist(err) {
		metrics.CatalogDeletesTotal.WithLabelValues("partial").Inc()
		return nil, fmt.Errorf("failed to remove original %s: %w", storedName, err)
	}
	result.Removed = append(result.Removed, originalPath)
	c.dimCache.Delete(storedName)

	for _, path := range []string{
		c.store.ThumbnailPath(storedName),
		c.store.MediumPath(storedName),
		c.store.WebPPath(storedName),
	} {
		err := os.Remove(path)
		switch {
		case err == nil:
			result.Removed = append(result.Removed, path)
		case os.IsNotExist(err):
			// Already absent is an acceptable end state.
		default:
			logging.Warn("failed to remove derivative %s: %v", path, err)
			result.Failed = append(result.Failed, DeleteFailure{Path: path, Reason: err.Error()})
		}
	}

	if len(result.Failed) > 0 {
		metrics.CatalogDeletesTotal.WithLabelValues("partial").Inc()
	} else {
		metrics.CatalogDeletesTotal.WithLabelValues("success").Inc()
	}
	logging.Info("deleted photo %s (%d files removed, %d failed)", id, len(result.Removed), len(result.Failed))
	return result, nil
}
