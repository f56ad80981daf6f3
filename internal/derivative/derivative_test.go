package derivative

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"testing"

	"photo-gallery/internal/codec"
	"photo-gallery/internal/storage"
)

// NOTE: libvips is intentionally never initialized in this package's
// tests, so WebP generation deterministically fails. That exercises the
// isolation guarantee: the other derivatives must still succeed.

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 10, G: 120, B: 200, A: 255}}, image.Point{}, draw.Src)
	return img
}

func newTestGenerator(t *testing.T) (*Generator, *storage.Store) {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("storage.New() error = %v", err)
	}
	return New(codec.New(), store), store
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode %s: %v", path, err)
	}
	return img
}

func resultFor(t *testing.T, results []Result, kind Kind) Result {
	t.Helper()
	for _, r := range results {
		if r.Kind == kind {
			return r
		}
	}
	t.Fatalf("no result for kind %s", kind)
	return Result{}
}

func TestGenerateProducesThumbnailAndMedium(t *testing.T) {
	gen, store := newTestGenerator(t)
	storedName := "1712345678-000000001.jpg"

	results := gen.Generate(testImage(4000, 3000), storedName)
	if len(results) != 3 {
		t.Fatalf("Generate() returned %d results, want 3", len(results))
	}

	thumb := resultFor(t, results, KindThumbnail)
	if !thumb.OK() {
		t.Fatalf("thumbnail failed: %v", thumb.Err)
	}
	if thumb.RelativePath != storage.ThumbnailURL(storedName) {
		t.Errorf("thumbnail path = %q, want %q", thumb.RelativePath, storage.ThumbnailURL(storedName))
	}
	thumbImg := decodeFile(t, store.ThumbnailPath(storedName))
	if thumbImg.Bounds().Dx() != ThumbnailSize || thumbImg.Bounds().Dy() != ThumbnailSize {
		t.Errorf("thumbnail = %dx%d, want %dx%d cover crop",
			thumbImg.Bounds().Dx(), thumbImg.Bounds().Dy(), ThumbnailSize, ThumbnailSize)
	}

	medium := resultFor(t, results, KindMedium)
	if !medium.OK() {
		t.Fatalf("medium failed: %v", medium.Err)
	}
	mediumImg := decodeFile(t, store.MediumPath(storedName))
	if mediumImg.Bounds().Dx() > BoundWidth || mediumImg.Bounds().Dy() > BoundHeight {
		t.Errorf("medium = %dx%d, exceeds %dx%d bound",
			mediumImg.Bounds().Dx(), mediumImg.Bounds().Dy(), BoundWidth, BoundHeight)
	}
	// 4:3 source against a 4:3 bound scales to exactly the bound.
	if mediumImg.Bounds().Dx() != BoundWidth || mediumImg.Bounds().Dy() != BoundHeight {
		t.Errorf("medium = %dx%d, want %dx%d", mediumImg.Bounds().Dx(), mediumImg.Bounds().Dy(), BoundWidth, BoundHeight)
	}
}

func TestGenerateWebPFailureIsIsolated(t *testing.T) {
	gen, store := newTestGenerator(t)
	storedName := "1712345678-000000002.png"

	results := gen.Generate(testImage(640, 480), storedName)

	webp := resultFor(t, results, KindWebP)
	if webp.OK() {
		t.Skip("libvips available; isolation path not exercised")
	}

	if !resultFor(t, results, KindThumbnail).OK() {
		t.Error("thumbnail failed alongside webp; generations must be isolated")
	}
	if !resultFor(t, results, KindMedium).OK() {
		t.Error("medium failed alongside webp; generations must be isolated")
	}

	if _, err := os.Stat(store.ThumbnailPath(storedName)); err != nil {
		t.Errorf("thumbnail file missing: %v", err)
	}
	if _, err := os.Stat(store.MediumPath(storedName)); err != nil {
		t.Errorf("medium file missing: %v", err)
	}
	if _, err := os.Stat(store.WebPPath(storedName)); err == nil {
		t.Error("webp file exists despite failed generation")
	}
}

func TestGenerateNeverUpscalesMedium(t *testing.T) {
	gen, store := newTestGenerator(t)
	storedName := "1712345678-000000003.jpg"

	results := gen.Generate(testImage(800, 600), storedName)
	if medium := resultFor(t, results, KindMedium); !medium.OK() {
		t.Fatalf("medium failed: %v", medium.Err)
	}

	mediumImg := decodeFile(t, store.MediumPath(storedName))
	if mediumImg.Bounds().Dx() != 800 || mediumImg.Bounds().Dy() != 600 {
		t.Errorf("medium = %dx%d, want 800x600 (no upscaling)",
			mediumImg.Bounds().Dx(), mediumImg.Bounds().Dy())
	}
}

func TestBackfill(t *testing.T) {
	gen, store := newTestGenerator(t)

	// One original with a pre-existing webp derivative, one without.
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(400, 300)); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveOriginal("1712345678-000000004.png", buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := store.SaveOriginal("1712345678-000000005.png", buf.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.WebPPath("1712345678-000000005.png"), []byte("existing"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := gen.Backfill()
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("skipped = %d, want 1 (webp already present)", result.Skipped)
	}

	// Without libvips the remaining original fails webp generation and
	// is reported, not fatal; with libvips it converts.
	if result.Converted+len(result.Errors) != 1 {
		t.Errorf("converted=%d errors=%d, want exactly one handled original",
			result.Converted, len(result.Errors))
	}
}

func TestBackfillEmptyStore(t *testing.T) {
	gen, _ := newTestGenerator(t)

	result, err := gen.Backfill()
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if result.Converted != 0 || result.Skipped != 0 || len(result.Errors) != 0 {
		t.Errorf("empty store backfill = %+v, want zeroes", result)
	}
}
