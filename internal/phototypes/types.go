package phototypes

import (
	"path/filepath"
	"strings"
)

// AllowedExtensions maps file extensions to whether they are accepted
// for ingestion. The set is fixed: jpg, jpeg, png, gif, webp.
var AllowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// MimeTypes maps accepted file extensions to their MIME types.
var MimeTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// AllowedMimeTypes maps accepted MIME types to whether they are
// accepted when a client declares a content type for an upload.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// IsAllowed reports whether a filename carries an accepted image
// extension. Matching is case-insensitive.
func IsAllowed(name string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsAllowedMime reports whether a declared MIME type is accepted.
// An empty declared type is accepted; extension validation still applies.
func IsAllowedMime(mimeType string) bool {
	if mimeType == "" {
		return true
	}
	return AllowedMimeTypes[strings.ToLower(mimeType)]
}

// Format returns the normalized lowercase format of a filename without
// the leading dot, with "jpeg" collapsed to "jpg". Returns "" when the
// file has no extension.
func Format(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if ext == "jpeg" {
		ext = "jpg"
	}
	return ext
}

// MimeType returns the MIME type for a filename, or
// "application/octet-stream" if the extension is not recognized.
func MimeType(name string) string {
	if mime, ok := MimeTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return mime
	}
	return "application/octet-stream"
}
