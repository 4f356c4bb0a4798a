package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedIDs struct{ id string }

func (f fixedIDs) Generate() string { return f.id }

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("read failed") }

func TestNewUploadFileStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := NewUploadFileStorage(dir, nil)
	require.NoError(t, err)
	require.NotNil(t, s)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewUploadFileStorage_EmptyDir(t *testing.T) {
	_, err := NewUploadFileStorage(" ", nil)
	assert.ErrorIs(t, err, ErrEmptyUploadDir)
}

func TestSave_WritesUUIDNamedFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewUploadFileStorage(dir, nil)
	require.NoError(t, err)

	path, err := s.Save(context.Background(), "photo.PNG", strings.NewReader("image-bytes"))
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".PNG", filepath.Ext(path))

	id, err := uuid.Parse(strings.TrimSuffix(filepath.Base(path), ".PNG"))
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(content))
}

func TestSave_ExtensionHandling(t *testing.T) {
	tests := []struct {
		name     string
		original string
		wantExt  string
	}{
		{name: "plain", original: "report.pdf", wantExt: ".pdf"},
		{name: "no extension", original: "README", wantExt: ""},
		{name: "windows path", original: `C:\Users\me\doc.txt`, wantExt: ".txt"},
		{name: "unix path traversal", original: "../../etc/passwd.conf", wantExt: ".conf"},
		{name: "unsafe extension", original: "evil.p/hp", wantExt: ""},
		{name: "overlong extension", original: "a.abcdefghijklmnopq", wantExt: ""},
		{name: "dotfile", original: ".env", wantExt: ".env"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			s, err := NewUploadFileStorage(dir, fixedIDs{id: "fixed"})
			require.NoError(t, err)

			path, err := s.Save(context.Background(), tt.original, strings.NewReader("x"))
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, "fixed"+tt.wantExt), path)
		})
	}
}

func TestSave_ExclusiveCreate(t *testing.T) {
	dir := t.TempDir()
	s, err := NewUploadFileStorage(dir, fixedIDs{id: "same"})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "a.txt", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "b.txt", strings.NewReader("second"))
	assert.ErrorIs(t, err, ErrFileNotSaved)

	content, err := os.ReadFile(filepath.Join(dir, "same.txt"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(content))
}

func TestSave_ReadFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewUploadFileStorage(dir, fixedIDs{id: "broken"})
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "a.bin", failingReader{})
	assert.ErrorIs(t, err, ErrFileNotSaved)

	_, statErr := os.Stat(filepath.Join(dir, "broken.bin"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_CancelledContext(t *testing.T) {
	s, err := NewUploadFileStorage(t.TempDir(), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
