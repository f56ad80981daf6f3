// Package phototypes defines the accepted image formats for the
// photo-gallery pipeline and helpers for extension and MIME handling.
//
// Supported formats: jpg, jpeg, png, gif, webp. Everything else is
// rejected before any bytes are stored.
package phototypes
