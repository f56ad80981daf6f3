package derivative

import (
	"fmt"
	"os"
	"strings"

	"photo-gallery/internal/logging"
)

// BackfillResult aggregates the outcome of a backfill run.
type BackfillResult struct {
	Converted int             `json:"converted"`
	Skipped   int             `json:"skipped"`
	Errors    []BackfillError `json:"errors"`
}

// BackfillError records one original that could not be backfilled.
type BackfillError struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Backfill regenerates missing medium and WebP derivatives for
// already-stored originals. Originals that already have a WebP
// derivative are counted as skipped; WebP-format originals are left
// alone. Per-file failures are collected, never fatal to the run.
func (g *Generator) Backfill() (*BackfillResult, error) {
	names, err := g.store.ListOriginals()
	if err != nil {
		return nil, fmt.Errorf("backfill: %w", err)
	}

	result := &BackfillResult{Errors: []BackfillError{}}

	for _, name := range names {
		if strings.HasSuffix(strings.ToLower(name), ".webp") {
			continue
		}

		if _, err := os.Stat(g.store.WebPPath(name)); err == nil {
			result.Skipped++
			logging.Debug("backfill: webp already present for %s", name)
			continue
		}

		data, err := os.ReadFile(g.store.OriginalPath(name))
		if err != nil {
			result.Errors = append(result.Errors, BackfillError{File: name, Reason: err.Error()})
			continue
		}

		img, _, err := g.codec.Decode(data)
		if err != nil {
			result.Errors = append(result.Errors, BackfillError{File: name, Reason: err.Error()})
			continue
		}

		webp := g.generateWebP(img, name)
		if webp.Err != nil {
			result.Errors = append(result.Errors, BackfillError{File: name, Reason: webp.Err.Error()})
			continue
		}

		if _, err := os.Stat(g.store.MediumPath(name)); err != nil {
			if medium := g.generateMedium(img, name); medium.Err != nil {
				result.Errors = append(result.Errors, BackfillError{File: name, Reason: medium.Err.Error()})
				continue
			}
		}

		result.Converted++
	}

	logging.Info("backfill complete: %d converted, %d skipped, %d errors",
		result.Converted, result.Skipped, len(result.Errors))
	return result, nil
}
