package disk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/storeline/products/internal/storage"
)

// Storage keeps uploads as plain files in one directory, served back under
// a URL prefix.
type Storage struct {
	dir       string
	urlPrefix string
}

var _ storage.Storage = (*Storage)(nil)

// New creates the upload directory if needed.
func New(dir, urlPrefix string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Storage{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Dir returns the directory files are written to.
func (s *Storage) Dir() string {
	return s.dir
}

func (s *Storage) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.dir, name), nil
}

// Save streams r to disk, stopping once more than limit bytes were seen.
func (s *Storage) Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error) {
	p, err := s.path(name)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return 0, fmt.Errorf("create %s: %w", name, storage.ErrExists)
	}
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", name, err)
	}

	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n > limit {
		err = storage.ErrTooLarge
	}
	if err != nil {
		_ = os.Remove(p)
		if errors.Is(err, storage.ErrTooLarge) {
			return n, err
		}
		return n, fmt.Errorf("write %s: %w", name, err)
	}
	return n, nil
}

// Delete removes a stored file.
func (s *Storage) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", name, err)
	}
	return nil
}

// URL returns the served path of name.
func (s *Storage) URL(name string) string {
	return path.Join(s.urlPrefix, name)
}

// Ping checks that the upload directory exists and is writable.
func (s *Storage) Ping(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("upload dir not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
