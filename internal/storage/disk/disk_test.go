package disk

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeline/products/internal/storage"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "public"), "uploads/")
	require.NoError(t, err)
	return s
}

func TestStorage_SaveAndDelete(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()

	n, err := s.Save(ctx, "myImage-1.png", strings.NewReader("png-bytes"), 100)
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "myImage-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "myImage-1.png"))
	_, err = os.Stat(filepath.Join(s.Dir(), "myImage-1.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, "myImage-1.png"), "deleting twice is fine")
}

func TestStorage_SaveExactlyAtLimit(t *testing.T) {
	s := newStorage(t)
	n, err := s.Save(context.Background(), "a.gif", strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestStorage_SaveTooLarge(t *testing.T) {
	s := newStorage(t)
	_, err := s.Save(context.Background(), "big.png", strings.NewReader("123456"), 5)
	require.ErrorIs(t, err, storage.ErrTooLarge)

	_, statErr := os.Stat(filepath.Join(s.Dir(), "big.png"))
	assert.True(t, os.IsNotExist(statErr), "partial file must be removed")
}

func TestStorage_RejectsPathNames(t *testing.T) {
	s := newStorage(t)
	for _, name := range []string{"", "..", "../escape.png", "sub/dir.png"} {
		_, err := s.Save(context.Background(), name, strings.NewReader("x"), 10)
		assert.Error(t, err, name)
	}
}

func TestStorage_SaveDoesNotOverwrite(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	_, err := s.Save(ctx, "dup.png", strings.NewReader("first"), 10)
	require.NoError(t, err)
	rest := strings.NewReader("second")
	_, err = s.Save(ctx, "dup.png", rest, 10)
	require.ErrorIs(t, err, storage.ErrExists)
	assert.Equal(t, 6, rest.Len(), "content must not be consumed")

	data, err := os.ReadFile(filepath.Join(s.Dir(), "dup.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestStorage_URLAndPing(t *testing.T) {
	s := newStorage(t)
	assert.Equal(t, "/uploads/myImage-1.png", s.URL("myImage-1.png"))
	assert.NoError(t, s.Ping(context.Background()))
}
