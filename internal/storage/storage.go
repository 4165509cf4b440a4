// Package storage provides the object store access layer for image blobs.
// It wraps an S3-compatible endpoint; public URLs are derived from an
// optional CDN base URL or from the endpoint itself.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrBucketNotFound indicates the configured bucket has not been
// provisioned. Image upload treats this as a degraded-mode signal, not a
// hard failure.
var ErrBucketNotFound = errors.New("storage bucket not found")

// Config holds object storage connection settings.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// Client provides object storage access methods.
type Client struct {
	mc            *minio.Client
	bucket        string
	publicBaseURL string
}

// New creates a storage client. It does not verify the bucket exists;
// provisioning failures surface per-operation so uploads can degrade.
func New(cfg Config) (*Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &Client{
		mc:            mc,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
	}, nil
}

// Upload stores a blob under the given key and returns its public URL.
// Returns ErrBucketNotFound when the bucket is missing.
func (c *Client) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := c.mc.PutObject(ctx, c.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		if isNoSuchBucket(err) {
			return "", ErrBucketNotFound
		}
		return "", fmt.Errorf("failed to upload object %q: %w", key, err)
	}

	return c.PublicURL(key), nil
}

// Remove deletes a blob. Removing a missing object is not an error.
func (c *Client) Remove(ctx context.Context, key string) error {
	err := c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		if isNoSuchBucket(err) {
			return ErrBucketNotFound
		}
		return fmt.Errorf("failed to remove object %q: %w", key, err)
	}
	return nil
}

// Ping checks that the storage backend is reachable and the bucket exists.
func (c *Client) Ping(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("storage ping failed: %w", err)
	}
	if !exists {
		return ErrBucketNotFound
	}
	return nil
}

// PublicURL returns the public URL for a stored object key.
func (c *Client) PublicURL(key string) string {
	return c.publicBaseURL + "/" + key
}

// KeyFromURL maps a stored public URL back to its object key.
// Returns false for URLs this client did not produce, placeholder URLs
// included.
func (c *Client) KeyFromURL(url string) (string, bool) {
	prefix := c.publicBaseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// PlaceholderURL returns the URL recorded when the bucket is not
// provisioned. The host is reserved (RFC 2606) so it never resolves.
func PlaceholderURL(key string) string {
	return placeholderBase + key
}

// IsPlaceholderURL reports whether a stored URL is a placeholder with no
// backing blob.
func IsPlaceholderURL(url string) bool {
	return strings.HasPrefix(url, placeholderBase)
}

const placeholderBase = "https://images.invalid/"

// isNoSuchBucket detects the S3 "bucket does not exist" error.
func isNoSuchBucket(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchBucket"
}
