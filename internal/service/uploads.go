package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BlobStore keeps uploaded files and hands back a public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// LocalBlobStore writes under dir and serves from publicBaseURL/<key>.
type LocalBlobStore struct {
	dir           string
	publicBaseURL string
}

func NewLocalBlobStore(dir, publicBaseURL string) *LocalBlobStore {
	return &LocalBlobStore{dir: dir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *LocalBlobStore) Dir() string { return s.dir }

func (s *LocalBlobStore) Put(_ context.Context, key, _ string, body io.Reader) (string, error) {
	clean := path.Clean("/" + key)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	full := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), full); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("move upload: %w", err)
	}
	return s.publicBaseURL + "/" + clean, nil
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// UploadResult public location of a stored image
type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

// UploadService validates and stores profile/page images.
type UploadService struct {
	store    BlobStore
	maxBytes int64
	logger   *zap.Logger
}

func NewUploadService(store BlobStore, maxBytes int64, logger *zap.Logger) *UploadService {
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &UploadService{store: store, maxBytes: maxBytes, logger: logger}
}

// MaxBytes upload size limit
func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// UploadImage sniffs the content type from the bytes (the client header is
// not trusted) and stores the image under <userID>/<uuid><ext>.
func (s *UploadService) UploadImage(ctx context.Context, userID string, body io.Reader) (*UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(body, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, s.maxBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrUnsupportedMediaType)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	key := userID + "/" + uuid.NewString() + ext
	url, err := s.store.Put(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		s.logger.Warn("Failed to store upload", zap.String("user_id", userID), zap.Error(err))
		return nil, backendErr("store upload", err)
	}
	return &UploadResult{URL: url, Key: key, ContentType: contentType, Size: int64(len(data))}, nil
}
