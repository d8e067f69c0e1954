package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadService_StoresImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(NewLocalBlobStore(dir, "http://localhost:8080/uploads/"), 1024, zap.NewNop())

	res, err := svc.UploadImage(context.Background(), "u-1", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, strings.HasPrefix(res.Key, "u-1/"))
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.Equal(t, "http://localhost:8080/uploads/"+res.Key, res.URL)
	assert.Equal(t, int64(len(pngHeader)), res.Size)

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(res.Key)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)
}

func TestUploadService_Rejects(t *testing.T) {
	svc := NewUploadService(NewLocalBlobStore(t.TempDir(), "/uploads"), 16, zap.NewNop())
	ctx := context.Background()

	_, err := svc.UploadImage(ctx, "u-1", bytes.NewReader(pngHeader))
	assert.True(t, errors.Is(err, ErrFileTooLarge))

	_, err = svc.UploadImage(ctx, "u-1", strings.NewReader("hello world"))
	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))

	_, err = svc.UploadImage(ctx, "u-1", strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
}

func TestLocalBlobStore_RejectsEscapingKeys(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalBlobStore(dir, "/uploads")

	url, err := s.Put(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/etc/passwd", url)
	_, err = os.Stat(filepath.Join(dir, "etc", "passwd"))
	assert.NoError(t, err)

	_, err = s.Put(context.Background(), "/", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)
}
