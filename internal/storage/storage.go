package storage

import (
	"context"
	"errors"
	"io"
)

// ErrTooLarge is returned by Save when the content exceeds the limit. The
// partial file is removed before returning.
var ErrTooLarge = errors.New("content exceeds size limit")

// ErrExists is returned by Save when name is already taken. Nothing is read
// from the content in that case.
var ErrExists = errors.New("file already exists")

// Storage persists uploaded product images under generated names.
type Storage interface {
	// Save writes at most limit bytes from r under name and returns the
	// number of bytes written. Exceeding limit yields ErrTooLarge and an
	// existing name yields ErrExists.
	Save(ctx context.Context, name string, r io.Reader, limit int64) (int64, error)

	// Delete removes name. Deleting a missing file is not an error.
	Delete(ctx context.Context, name string) error

	// URL returns the public path the file is served from.
	URL(name string) string

	// Ping reports whether the store can accept writes.
	Ping(ctx context.Context) error
}
