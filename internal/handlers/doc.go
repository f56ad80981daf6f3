// Package handlers implements the photo-gallery HTTP API: listing,
// multipart upload, server-side batch import, and deletion.
package handlers
