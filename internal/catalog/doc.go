// Package catalog enumerates and deletes stored photos. The filesystem
// is the source of truth: listings are derived from the photos
// directory on every call, and deletion removes an original together
// with whichever derivatives exist, best-effort.
package catalog
