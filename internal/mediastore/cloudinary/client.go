package cloudinary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"farmmap-backend/internal/mediastore"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1/"

type Client struct {
	baseURL      string
	cloudName    string
	uploadPreset string
	httpClient   *http.Client
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(baseURL, cloudName, uploadPreset string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:      baseURL,
		cloudName:    cloudName,
		uploadPreset: uploadPreset,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Upload posts the image as an unsigned multipart upload and resolves with
// the hosted secure URL plus the public id for later deletion. Progress is
// derived from the bytes written to the request body, not server signals.
func (c *Client) Upload(ctx context.Context, name string, data []byte, onProgress mediastore.ProgressFunc) (mediastore.UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.WriteField("upload_preset", c.uploadPreset); err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to write upload preset: %w", err)
	}
	if err := writer.Close(); err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to finalize form: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/" + c.cloudName + "/image/upload"
	total := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		url, mediastore.NewProgressReader(&body, total, onProgress))
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.ContentLength = total

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to execute upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return mediastore.UploadResult{}, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result uploadResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return mediastore.UploadResult{}, fmt.Errorf("failed to decode response: %w, body: %s", err, string(respBody))
	}
	if result.SecureURL == "" {
		if result.Error.Message != "" {
			return mediastore.UploadResult{}, fmt.Errorf("upload rejected: %s", result.Error.Message)
		}
		return mediastore.UploadResult{}, fmt.Errorf("secure_url is empty in response, body: %s", string(respBody))
	}

	return mediastore.UploadResult{
		URL:       result.SecureURL,
		Reference: result.PublicID,
	}, nil
}
