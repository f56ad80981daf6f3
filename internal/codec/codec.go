package codec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"

	"photo-gallery/internal/logging"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP decode support
)

// Sentinel errors for the decode/encode contract. Callers match with
// errors.Is.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrCorruptImage      = errors.New("corrupt image data")
	ErrEncodeFailure     = errors.New("image encode failed")
)

// Metadata describes a decoded image.
type Metadata struct {
	Width  int
	Height int
	Format string
}

// Adapter performs pure image transforms: decode, resize, encode.
// It never touches the filesystem except for header-only dimension
// probes; all byte I/O is the caller's responsibility.
type Adapter struct{}

// New returns a codec Adapter. Construct one at startup and inject it;
// the zero value is also usable.
func New() *Adapter {
	return &Adapter{}
}

// Decode decodes raw image bytes and reports the image metadata.
// An unrecognized container yields ErrUnsupportedFormat; recognized but
// unparseable data yields ErrCorruptImage.
func (a *Adapter) Decode(data []byte) (image.Image, Metadata, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, Metadata{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, Metadata{}, fmt.Errorf("%w: %v", ErrCorruptImage, err)
	}

	bounds := img.Bounds()
	return img, Metadata{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}, nil
}

// ResizeCover scales and center-crops the image to fill exactly
// width x height.
func (a *Adapter) ResizeCover(img image.Image, width, height int) image.Image {
	return imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)
}

// ResizeInside scales the image down to fit within width x height
// preserving aspect ratio. Images already inside the box are returned
// unscaled; this never enlarges.
func (a *Adapter) ResizeInside(img image.Image, width, height int) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= width && bounds.Dy() <= height {
		return img
	}
	return imaging.Fit(img, width, height, imaging.Lanczos)
}

// EncodeJPEG encodes the image as JPEG at the given quality (1-100).
func (a *Adapter) EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("%w: jpeg: %v", ErrEncodeFailure, err)
	}
	return buf.Bytes(), nil
}

// EncodeWebP encodes the image as WebP at the given quality (1-100).
// WebP encoding is delegated to libvips; when libvips is not available
// the call fails with ErrEncodeFailure and the caller is expected to
// treat the derivative as independently failed.
func (a *Adapter) EncodeWebP(img image.Image, quality int) ([]byte, error) {
	if !IsVipsAvailable() {
		return nil, fmt.Errorf("%w: webp: libvips not available", ErrEncodeFailure)
	}

	// vips loads from an encoded buffer, so round-trip through lossless
	// PNG before exporting.
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("%w: webp intermediate: %v", ErrEncodeFailure, err)
	}

	data, err := exportWebP(buf.Bytes(), quality)
	if err != nil {
		return nil, fmt.Errorf("%w: webp: %v", ErrEncodeFailure, err)
	}
	return data, nil
}

// Dimensions reads image dimensions from a file header without fully
// decoding the pixel data.
func (a *Adapter) Dimensions(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logging.Warn("failed to close image file %s: %v", path, cerr)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}
