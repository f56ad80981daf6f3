package derivative

import (
	"fmt"
	"image"
	"os"
	"time"

	"photo-gallery/internal/codec"
	"photo-gallery/internal/logging"
	"photo-gallery/internal/metrics"
	"photo-gallery/internal/storage"
)

// Kind identifies a derivative rendition.
type Kind string

const (
	// KindThumbnail is the 300x300 cover-cropped JPEG.
	KindThumbnail Kind = "thumbnail"
	// KindMedium is the JPEG bounded to 1200x900, never upscaled.
	KindMedium Kind = "medium"
	// KindWebP is the WebP bounded to 1200x900, never upscaled.
	KindWebP Kind = "webp"
)

// Geometry and quality rules for the canonical derivative set.
const (
	ThumbnailSize        = 300
	ThumbnailJPEGQuality = 80

	BoundWidth  = 1200
	BoundHeight = 900

	MediumJPEGQuality = 85
	WebPQuality       = 80
)

// Result reports the outcome of one derivative generation attempt.
// Exactly one of RelativePath and Err is meaningful.
type Result struct {
	Kind         Kind
	RelativePath string
	Err          error
}

// OK reports whether the derivative was generated.
func (r Result) OK() bool {
	return r.Err == nil
}

// Generator produces the canonical derivative set for a decoded
// original. Each kind derives from the same decoded source image, never
// from another derivative, and each generation is isolated: one failure
// does not prevent the other kinds from being attempted.
type Generator struct {
	codec *codec.Adapter
	store *storage.Store
}

// New returns a Generator writing derivatives into the given store.
func New(adapter *codec.Adapter, store *storage.Store) *Generator {
	return &Generator{codec: adapter, store: store}
}

// Generate produces all three derivative kinds for one decoded source
// image under its stored name, returning a per-kind result in the fixed
// order thumbnail, medium, webp.
func (g *Generator) Generate(img image.Image, storedName string) []Result {
	return []Result{
		g.generateThumbnail(img, storedName),
		g.generateMedium(img, storedName),
		g.generateWebP(img, storedName),
	}
}

func (g *Generator) generateThumbnail(img image.Image, storedName string) Result {
	return g.generate(KindThumbnail, storedName, func() (string, []byte, error) {
		thumb := g.codec.ResizeCover(img, ThumbnailSize, ThumbnailSize)
		data, err := g.codec.EncodeJPEG(thumb, ThumbnailJPEGQuality)
		if err != nil {
			return "", nil, err
		}
		return g.store.ThumbnailPath(storedName), data, nil
	}, storage.ThumbnailURL(storedName))
}

func (g *Generator) generateMedium(img image.Image, storedName string) Result {
	return g.generate(KindMedium, storedName, func() (string, []byte, error) {
		medium := g.codec.ResizeInside(img, BoundWidth, BoundHeight)
		data, err := g.codec.EncodeJPEG(medium, MediumJPEGQuality)
		if err != nil {
			return "", nil, err
		}
		return g.store.MediumPath(storedName), data, nil
	}, storage.MediumURL(storedName))
}

func (g *Generator) generateWebP(img image.Image, storedName string) Result {
	return g.generate(KindWebP, storedName, func() (string, []byte, error) {
		bounded := g.codec.ResizeInside(img, BoundWidth, BoundHeight)
		data, err := g.codec.EncodeWebP(bounded, WebPQuality)
		if err != nil {
			return "", nil, err
		}
		return g.store.WebPPath(storedName), data, nil
	}, storage.WebPURL(storedName))
}

// generate runs one isolated derivative attempt: render bytes, write
// them, record metrics. Failures are captured in the Result, never
// propagated.
func (g *Generator) generate(kind Kind, storedName string, render func() (string, []byte, error), url string) Result {
	start := time.Now()

	path, data, err := render()
	if err == nil {
		err = os.WriteFile(path, data, 0644)
		if err != nil {
			err = fmt.Errorf("failed to write %s derivative: %w", kind, err)
		}
	}

	metrics.DerivativeGenerationDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DerivativeGenerationsTotal.WithLabelValues(string(kind), "error").Inc()
		logging.Warn("derivative %s failed for %s: %v", kind, storedName, err)
		return Result{Kind: kind, Err: err}
	}

	metrics.DerivativeGenerationsTotal.WithLabelValues(string(kind), "success").Inc()
	logging.Debug("derivative %s written for %s", kind, storedName)
	return Result{Kind: kind, RelativePath: url}
}
