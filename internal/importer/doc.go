// Package importer bulk-imports image files from a source directory
// into the photo store. The scan is non-recursive, non-image files are
// silently excluded, and files whose content hash matches an
// already-stored original are counted as skipped rather than
// re-imported. Source files are copied, never moved.
package importer
