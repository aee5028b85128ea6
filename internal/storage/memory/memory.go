package memory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/storeline/products/internal/storage"
)

// Storage implements storage.Storage in memory.
type Storage struct {
	mu        sync.RWMutex
	files     map[string][]byte
	urlPrefix string
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty in-memory storage.
func New(urlPrefix string) *Storage {
	return &Storage{files: make(map[string][]byte), urlPrefix: urlPrefix}
}

// Save buffers up to limit bytes of r. The name is reserved before r is read.
func (s *Storage) Save(_ context.Context, name string, r io.Reader, limit int64) (int64, error) {
	s.mu.Lock()
	if _, exists := s.files[name]; exists {
		s.mu.Unlock()
		return 0, fmt.Errorf("save %s: %w", name, storage.ErrExists)
	}
	s.files[name] = nil
	s.mu.Unlock()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err == nil && n > limit {
		err = storage.ErrTooLarge
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		delete(s.files, name)
		if errors.Is(err, storage.ErrTooLarge) {
			return n, err
		}
		return n, fmt.Errorf("read %s: %w", name, err)
	}
	s.files[name] = buf.Bytes()
	return n, nil
}

// Delete forgets name.
func (s *Storage) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, name)
	return nil
}

// URL returns the served path of name.
func (s *Storage) URL(name string) string {
	return s.urlPrefix + "/" + name
}

// Ping always succeeds.
func (s *Storage) Ping(context.Context) error { return nil }

// Get returns the stored content of name.
func (s *Storage) Get(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[name]
	return data, ok
}

// Len returns how many files are stored.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
