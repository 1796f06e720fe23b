// Package uploads stores member-submitted cover images on local disk
// and serves them back under the /uploads URL path.
package uploads

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bookshelfapp/bookshelf/internal/apperr"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

// allowed image types, sniffed from content rather than trusting the
// client-supplied filename or Content-Type
var extensionByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Store persists uploaded cover images.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates an upload store rooted at dir.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Save validates and stores one uploaded image, returning its public
// URL path. The file is written to a temp name first and renamed so
// readers never see a partial file.
func (s *Store) Save(r io.Reader) (string, error) {
	// Read one byte past the limit to tell "exactly at" from "over"
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.Validation("Image is too large. The limit is %d MB.", s.maxBytes/(1024*1024))
	}
	if len(data) == 0 {
		return "", apperr.Validation("No file was uploaded.")
	}

	contentType := http.DetectContentType(data)
	ext, ok := extensionByType[contentType]
	if !ok {
		return "", apperr.Validation("Only JPEG, PNG, WebP, and GIF images are accepted.")
	}

	filename := uuid.NewString() + ext

	tmpFile, err := os.CreateTemp(s.dir, "upload_tmp_")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath) // Clean up if we didn't rename
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	tmpFile.Close()

	if err := os.Rename(tmpPath, filepath.Join(s.dir, filename)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	return URLPrefix + filename, nil
}

// Sweep deletes stored files whose public URL is not in inUse and
// returns how many were removed. Temp files from in-flight saves are
// left alone.
func (s *Store) Sweep(inUse []string) (int, error) {
	keep := make(map[string]bool, len(inUse))
	for _, u := range inUse {
		if name, ok := strings.CutPrefix(u, URLPrefix); ok {
			keep[name] = true
		}
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read uploads dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "upload_tmp_") {
			continue
		}
		if keep[entry.Name()] {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Dir returns the directory uploads are stored in.
func (s *Store) Dir() string {
	return s.dir
}
