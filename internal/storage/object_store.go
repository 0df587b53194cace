// Package storage wraps the external image host behind a small interface:
// bytes in, durable URL out, best-effort delete by URL. Uploads happen
// synchronously inside the request that triggered them; there is no retry
// queue, so a failing store fails the owning create/update.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mouradf/it-asset-tracker/internal/utils"
)

// MaxImageBytes caps accepted uploads at 5 MB.
const MaxImageBytes = 5 * 1024 * 1024

// ErrNotConfigured is returned when a file is attached but no object
// storage credentials were supplied.
var ErrNotConfigured = errors.New("object storage not configured")

// allowed image content types, matching the old upload filter.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// ImageExt maps an accepted content type to a file extension. The bool is
// false for rejected types.
func ImageExt(contentType string) (string, bool) {
	ext, ok := allowedImageTypes[strings.ToLower(contentType)]
	return ext, ok
}

// ObjectStore stores uploaded images and returns durable reference URLs.
type ObjectStore interface {
	// Put uploads an object and returns the URL to store in the row.
	Put(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes the object a previously returned URL points at.
	Remove(ctx context.Context, objectURL string) error
}

// MinioStore implements ObjectStore for MinIO/S3 compatible storage.
type MinioStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
	folder   string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	return &MinioStore{
		client:   client,
		bucket:   bucket,
		endpoint: endpoint,
		secure:   useSSL,
		folder:   "it-asset-tracker",
	}, nil
}

// Put uploads an image under a random key and returns its public URL.
func (m *MinioStore) Put(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	ext, ok := ImageExt(contentType)
	if !ok {
		ext = ""
	}
	token, err := utils.NewSessionToken()
	if err != nil {
		return "", err
	}
	key := m.folder + "/" + token + ext
	if _, err := m.client.PutObject(ctx, m.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, key), nil
}

// Remove deletes the object behind objectURL. Callers treat errors as
// advisory: a broken old-image cleanup must never block an update.
func (m *MinioStore) Remove(ctx context.Context, objectURL string) error {
	key, err := m.keyFromURL(objectURL)
	if err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}

// keyFromURL recovers the object key from a URL produced by Put.
func (m *MinioStore) keyFromURL(objectURL string) (string, error) {
	u, err := url.Parse(objectURL)
	if err != nil {
		return "", fmt.Errorf("parse object url: %w", err)
	}
	trimmed := strings.TrimPrefix(path.Clean(u.Path), "/")
	key := strings.TrimPrefix(trimmed, m.bucket+"/")
	if !strings.HasPrefix(key, m.folder+"/") {
		return "", fmt.Errorf("url %q does not reference bucket %q", objectURL, m.bucket)
	}
	return key, nil
}

// Disabled is the ObjectStore used when no credentials are configured.
// Every call fails with ErrNotConfigured; requests without attachments
// never reach it.
type Disabled struct{}

func (Disabled) Put(context.Context, io.Reader, int64, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) Remove(context.Context, string) error { return ErrNotConfigured }
