// Package cache stores partially downloaded media files on disk.
//
// Files are addressed by a deterministic path derived from the source
// locator, an optional explicit track identity and an extension hint. A file
// may be written by one downloader while any number of readers consume it:
// writes never truncate, and reads always re-check the current size.
package cache

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const (
	appName          = "streamq"
	dirName          = "AudioCache"
	defaultExtension = "dat"
)

// Store resolves and accesses cached media files under a single root.
// It is safe for concurrent use.
type Store struct {
	root string
}

// DefaultRoot returns the cache root under the user's XDG cache directory.
func DefaultRoot() string {
	return filepath.Join(xdg.CacheHome, appName, dirName)
}

// Open returns a store rooted at root, creating the directory if needed.
// An empty root selects DefaultRoot.
func Open(root string) (*Store, error) {
	if root == "" {
		root = DefaultRoot()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create cache root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the cache root directory.
func (s *Store) Root() string {
	return s.root
}

// ResolvePath returns the cache file path for a source. The result depends
// only on its inputs.
func (s *Store) ResolvePath(locator, identity, ext string) string {
	base := sanitize(identity)
	if base == "" {
		base = Fingerprint(locator)
	}
	return filepath.Join(s.root, base+"."+ResolveExtension(locator, ext))
}

// ResolveExtension returns ext when set, else the extension of the locator's
// path, else a generic placeholder.
func ResolveExtension(locator, ext string) string {
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		return ext
	}
	p := locator
	if u, err := url.Parse(locator); err == nil {
		p = u.Path
	}
	if e := strings.TrimPrefix(path.Ext(p), "."); e != "" {
		return e
	}
	return defaultExtension
}

// Fingerprint returns a 64-bit FNV-1a hash of s as 16 hex digits. It names
// files; it is not collision resistant.
func Fingerprint(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return fmt.Sprintf("%016x", h.Sum64())
}

func sanitize(identity string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "\x00", "_")
	identity = r.Replace(identity)
	if identity == "." || identity == ".." {
		return strings.Repeat("_", len(identity))
	}
	return identity
}

// Write writes data at offset, creating the file if absent. Bytes outside
// the written range are left untouched.
func (s *Store) Write(path string, data []byte, offset int64) error {
	if offset < 0 {
		return fmt.Errorf("write %s: negative offset %d", path, offset)
	}
	start := time.Now()
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		writeErrors.Inc()
		return err
	}
	_, err = f.WriteAt(data, offset)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		writeErrors.Inc()
		return err
	}
	bytesWritten.Add(float64(len(data)))
	writeDuration.Observe(time.Since(start).Seconds())
	return nil
}

// Read returns up to length bytes starting at offset. It returns nil when
// the file is missing or unreadable, or when offset is at or past the end.
func (s *Store) Read(path string, offset int64, length int) []byte {
	if offset < 0 || length <= 0 {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || offset >= info.Size() {
		return nil
	}
	length = int(min(int64(length), info.Size()-offset))

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil
	}
	if n == 0 {
		return nil
	}
	bytesRead.Add(float64(n))
	return buf[:n]
}

// Size returns the current length of the file, 0 if it does not exist.
func (s *Store) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
