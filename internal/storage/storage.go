package storage

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"photo-gallery/internal/logging"
)

// Layout directory names under the artifact root. These are fixed for
// compatibility with the existing derivative path conventions.
const (
	PhotosDirName     = "photos"
	ThumbnailsDirName = "thumbnails"
	WebPDirName       = "webp"

	// MediumPrefix marks medium derivatives, which are co-located with
	// originals in the photos directory.
	MediumPrefix = "medium_"
)

var randMax = big.NewInt(1_000_000_000)

// Store owns the artifact root and maps stored names to the files of an
// original and its derivatives. Correctness under concurrent ingestion
// relies on generated-name collision freedom, not locking.
type Store struct {
	root string
}

// New resolves the artifact root to an absolute path and ensures the
// photos, thumbnails, and webp directories exist.
func New(root string) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve artifact root: %w", err)
	}

	for _, dir := range []string{
		absRoot,
		filepath.Join(absRoot, PhotosDirName),
		filepath.Join(absRoot, ThumbnailsDirName),
		filepath.Join(absRoot, WebPDirName),
	} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logging.Debug("storage initialized at %s", absRoot)
	return &Store{root: absRoot}, nil
}

// Root returns the absolute artifact root.
func (s *Store) Root() string {
	return s.root
}

// GenerateStoredName produces a collision-resistant filename for a new
// original: a millisecond timestamp and a random component joined by a
// dash, carrying the normalized lowercase extension of the source name.
func GenerateStoredName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))

	n, err := rand.Int(rand.Reader, randMax)
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; nanosecond fallback keeps names unique enough.
		return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), time.Now().UnixNano()%1_000_000_000, ext)
	}
	return fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), n.Int64(), ext)
}

// ID returns the stable identifier for a stored name: the name with its
// extension stripped.
func ID(storedName string) string {
	return strings.TrimSuffix(storedName, filepath.Ext(storedName))
}

// IsOriginalName reports whether a photos-directory entry name belongs
// to an original (as opposed to a medium derivative or a hidden file).
func IsOriginalName(name string) bool {
	return name != "" && !strings.HasPrefix(name, ".") && !strings.HasPrefix(name, MediumPrefix)
}

// OriginalPath returns the absolute path of an original.
func (s *Store) OriginalPath(storedName string) string {
	return filepath.Join(s.root, PhotosDirName, storedName)
}

// ThumbnailPath returns the absolute path of a thumbnail derivative.
// Thumbnails reuse the stored name, extension included.
func (s *Store) ThumbnailPath(storedName string) string {
	return filepath.Join(s.root, ThumbnailsDirName, storedName)
}

// MediumPath returns the absolute path of a medium derivative.
func (s *Store) MediumPath(storedName string) string {
	return filepath.Join(s.root, PhotosDirName, MediumPrefix+storedName)
}

// WebPPath returns the absolute path of a WebP derivative, substituting
// the extension.
func (s *Store) WebPPath(storedName string) string {
	return filepath.Join(s.root, WebPDirName, ID(storedName)+".webp")
}

// URL path helpers for the externally visible record shape. Served
// under the /uploads static prefix.

// OriginalURL returns the serving path of an original.
func OriginalURL(storedName string) string {
	return "/uploads/" + PhotosDirName + "/" + storedName
}

// ThumbnailURL returns the serving path of a thumbnail derivative.
func ThumbnailURL(storedName string) string {
	return "/uploads/" + ThumbnailsDirName + "/" + storedName
}

// MediumURL returns the serving path of a medium derivative.
func MediumURL(storedName string) string {
	return "/uploads/" + PhotosDirName + "/" + MediumPrefix + storedName
}

// WebPURL returns the serving path of a WebP derivative.
func WebPURL(storedName string) string {
	return "/uploads/" + WebPDirName + "/" + ID(storedName) + ".webp"
}

// SaveOriginal writes the bytes of a new original under its stored name.
func (s *Store) SaveOriginal(storedName string, data []byte) error {
	path := s.OriginalPath(storedName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to store original %s: %w", storedName, err)
	}
	return nil
}

// ListOriginals returns the stored names of all originals in
// filesystem-enumeration order. Medium derivatives and hidden files are
// excluded.
func (s *Store) ListOriginals() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, PhotosDirName))
	if err != nil {
		return nil, fmt.Errorf("failed to read photos directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsOriginalName(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// FindOriginal locates the stored name whose identifier matches id.
// Returns "" when no original matches.
func (s *Store) FindOriginal(id string) (string, error) {
	names, err := s.ListOriginals()
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if ID(name) == id {
			return name, nil
		}
	}
	return "", nil
}

// StatOriginal returns file info for a stored original.
func (s *Store) StatOriginal(storedName string) (os.FileInfo, error) {
	return os.Stat(s.OriginalPath(storedName))
}
