package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"farmmap-backend/internal/mediastore"
)

// Config holds the settings for an S3-compatible image host.
type Config struct {
	Endpoint  string // host:port, no scheme
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
	PathStyle bool // MinIO needs path-style access
}

// Client stores plant images in an S3-compatible bucket via the MinIO SDK.
type Client struct {
	client *minio.Client
	cfg    Config
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Client{client: client, cfg: cfg}, nil
}

func (c *Client) Upload(ctx context.Context, name string, data []byte, onProgress mediastore.ProgressFunc) (mediastore.UploadResult, error) {
	key := "plants/" + name
	reader := mediastore.NewProgressReader(bytes.NewReader(data), int64(len(data)), onProgress)

	info, err := c.client.PutObject(ctx, c.cfg.Bucket, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to put object: %w", err)
	}

	return mediastore.UploadResult{
		URL:       c.objectURL(info.Key),
		Reference: info.Key,
	}, nil
}

// Delete removes a stored object by its key reference.
func (c *Client) Delete(ctx context.Context, reference string) error {
	return c.client.RemoveObject(ctx, c.cfg.Bucket, reference, minio.RemoveObjectOptions{})
}

func (c *Client) objectURL(key string) string {
	scheme := "http"
	if c.cfg.UseSSL {
		scheme = "https"
	}
	if c.cfg.PathStyle {
		return fmt.Sprintf("%s://%s/%s/%s", scheme, c.cfg.Endpoint, c.cfg.Bucket, key)
	}
	return fmt.Sprintf("%s://%s.%s/%s", scheme, c.cfg.Bucket, c.cfg.Endpoint, key)
}
