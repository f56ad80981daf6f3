// Package middleware provides HTTP middleware for the photo-gallery
// server: request logging and Prometheus request metrics.
package middleware
