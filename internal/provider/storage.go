package provider

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ObjectStorage stores photo bytes and deletes them by URL. Deletion is
// expected to be idempotent on missing keys.
type ObjectStorage interface {
	Store(ctx context.Context, body io.Reader, size int64, contentType, folder string) (string, error)
	Delete(ctx context.Context, photoURL string) error
}

// S3PhotoStorage is an ObjectStorage over an S3-compatible endpoint.
type S3PhotoStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	logger    *slog.Logger

	ensureOnce sync.Once
	ensureErr  error
}

// NewS3PhotoStorage creates a photo store. publicURL is the externally visible
// base under which objects are served (e.g. the CDN or minio endpoint); object
// URLs are publicURL/bucket/key.
func NewS3PhotoStorage(client *minio.Client, bucket, publicURL string, logger *slog.Logger) *S3PhotoStorage {
	return &S3PhotoStorage{
		client:    client,
		bucket:    strings.TrimSpace(bucket),
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}
}

func (s *S3PhotoStorage) ensureBucket(ctx context.Context) error {
	s.ensureOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucket)
		if err != nil {
			s.ensureErr = err
			return
		}
		if exists {
			return
		}
		s.ensureErr = s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
	})

	if s.ensureErr != nil {
		return fmt.Errorf("ensure bucket %q: %w", s.bucket, s.ensureErr)
	}
	return nil
}

// Store uploads the photo under a generated key in the given folder and
// returns its public URL.
func (s *S3PhotoStorage) Store(ctx context.Context, body io.Reader, size int64, contentType, folder string) (string, error) {
	if err := s.ensureBucket(ctx); err != nil {
		return "", err
	}

	key := objectKey(folder, contentType)
	_, err := s.client.PutObject(ctx, s.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

// Delete removes the object backing photoURL. Unknown URLs and already-removed
// objects are not errors.
func (s *S3PhotoStorage) Delete(ctx context.Context, photoURL string) error {
	key, ok := s.keyFromURL(photoURL)
	if !ok {
		s.logger.Warn("storage delete skipped: url not under this store", "url", photoURL)
		return nil
	}

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %s: %w", key, err)
	}
	return nil
}

// keyFromURL strips the public prefix and bucket to recover the object key.
func (s *S3PhotoStorage) keyFromURL(photoURL string) (string, bool) {
	prefix := fmt.Sprintf("%s/%s/", s.publicURL, s.bucket)
	if !strings.HasPrefix(photoURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(photoURL, prefix)
	return key, key != ""
}

func objectKey(folder, contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = "photos"
	}
	return fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)
}
