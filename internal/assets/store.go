// Package assets stores question images and serves their public URLs.
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store saves an uploaded image and returns the URL to reference it from a
// question's images list.
type Store interface {
	Save(ctx context.Context, day int, filename string, r io.Reader) (string, error)
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// DiskStore writes images under dir/day{N}/ and serves them at baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Dir returns the root directory, used to mount the static file server.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, day int, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	// Uploaded filenames are untrusted; a fresh name avoids both collisions
	// and path traversal.
	name := uuid.New().String() + ext
	dayDir := filepath.Join(s.dir, fmt.Sprintf("day%d", day))
	if err := os.MkdirAll(dayDir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dayDir, name))
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write asset file: %w", err)
	}

	return fmt.Sprintf("%s/day%d/%s", s.baseURL, day, name), nil
}
