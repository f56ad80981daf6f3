// Package codec wraps image decode, resize, and encode operations for
// the ingestion pipeline. It is the only package that touches image
// bytes directly.
//
// Decoding and JPEG encoding use the pure-Go imaging stack (with WebP
// decode support via golang.org/x/image); WebP encoding is delegated to
// libvips through govips. All transforms are pure: callers own every
// read and write of the resulting bytes.
package codec
