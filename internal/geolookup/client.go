package geolookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"farmmap-backend/internal/models"
)

// Extractor estimates where an image was taken. Implementations return the
// location plus an advisory confidence score in [0,1].
type Extractor interface {
	Extract(ctx context.Context, imageURL, imageName string) (models.GeoLocation, float64, error)
}

// Client talks to the remote extraction endpoint.
type Client struct {
	baseURL    string
	callerID   string
	httpClient *http.Client
}

type extractRequest struct {
	ImageURL  string `json:"imageUrl"`
	ImageName string `json:"imageName,omitempty"`
	EmailID   string `json:"emailId,omitempty"`
}

type extractResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    struct {
		// Pointers distinguish "missing" from zero coordinates; a response
		// without both numbers is a failure, not a success with nulls.
		Latitude   *float64 `json:"latitude"`
		Longitude  *float64 `json:"longitude"`
		Confidence *float64 `json:"confidence"`
	} `json:"data"`
}

func NewClient(baseURL, callerID string) *Client {
	return &Client{
		baseURL:  baseURL,
		callerID: callerID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) Extract(ctx context.Context, imageURL, imageName string) (models.GeoLocation, float64, error) {
	payload, err := json.Marshal(extractRequest{
		ImageURL:  imageURL,
		ImageName: imageName,
		EmailID:   c.callerID,
	})
	if err != nil {
		return models.GeoLocation{}, 0, fmt.Errorf("failed to encode request: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/extract-latitude-longitude"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return models.GeoLocation{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.GeoLocation{}, 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.GeoLocation{}, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.GeoLocation{}, 0, fmt.Errorf("extraction failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result extractResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return models.GeoLocation{}, 0, fmt.Errorf("failed to decode response: %w, body: %s", err, string(body))
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "service reported failure"
		}
		return models.GeoLocation{}, 0, fmt.Errorf("extraction rejected: %s", msg)
	}
	if result.Data.Latitude == nil || result.Data.Longitude == nil {
		return models.GeoLocation{}, 0, fmt.Errorf("response is missing coordinates, body: %s", string(body))
	}

	confidence := models.DefaultConfidence
	if result.Data.Confidence != nil {
		confidence = *result.Data.Confidence
	}

	location := models.GeoLocation{
		Latitude:  *result.Data.Latitude,
		Longitude: *result.Data.Longitude,
	}
	return location, confidence, nil
}
