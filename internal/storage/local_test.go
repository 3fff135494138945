package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/clementroume/holbertonschool-files-manager/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "abc", bytes.NewReader([]byte("hello"))))

	data, err := ReadAll(ctx, s, "abc")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	// Overwrite in place
	require.NoError(t, s.Save(ctx, "abc", bytes.NewReader([]byte("bye"))))
	data, err = ReadAll(ctx, s, "abc")
	require.NoError(t, err)
	assert.Equal(t, "bye", string(data))

	// No temp files left behind
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, s.Delete(ctx, "abc"))
	require.NoError(t, s.Delete(ctx, "abc"))

	_, err = s.Open(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../evil", "/etc/passwd", "a/../../b"} {
		err := s.Save(ctx, key, bytes.NewReader(nil))
		assert.ErrorIs(t, err, ErrInvalidKey, key)
		_, err = s.Open(ctx, key)
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestLocalStorage_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "files_manager")
	_, err := NewLocalStorage(root)
	require.NoError(t, err)

	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNew_Drivers(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, &config.Config{StorageDriver: "local", FolderPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(ctx, &config.Config{StorageDriver: "ftp"})
	assert.Error(t, err)
}
