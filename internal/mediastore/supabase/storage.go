package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"farmmap-backend/internal/mediastore"
)

// Client uploads plant images to a Supabase Storage bucket and serves them
// through the bucket's public object URLs.
type Client struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewClient(supabaseURL, serviceKey, bucket string) (*Client, error) {
	if supabaseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &Client{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

func (c *Client) Upload(ctx context.Context, name string, data []byte, onProgress mediastore.ProgressFunc) (mediastore.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return mediastore.UploadResult{}, err
	}

	storagePath := "plants/" + name
	contentType := detectContentType(name)
	upsert := true

	reader := mediastore.NewProgressReader(bytes.NewReader(data), int64(len(data)), onProgress)
	_, err := c.client.UploadFile(c.bucket, storagePath, reader, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to upload file: %w", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, storagePath)
	return mediastore.UploadResult{
		URL:       publicURL,
		Reference: storagePath,
	}, nil
}

// Delete removes a previously uploaded object by its storage path reference.
func (c *Client) Delete(reference string) error {
	_, err := c.client.RemoveFile(c.bucket, []string{reference})
	return err
}

func detectContentType(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return "image/png"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	case strings.HasSuffix(lower, ".heic"):
		return "image/heic"
	default:
		return "image/jpeg"
	}
}
