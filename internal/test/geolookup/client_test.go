package geolookup_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmap-backend/internal/geolookup"
	"farmmap-backend/internal/models"
)

const extractURL = "https://geo.test/api/extract-latitude-longitude"

func setupMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient() *geolookup.Client {
	return geolookup.NewClient("https://geo.test/api", "grower@example.com")
}

func TestClient_Extract_Success(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, extractURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"success": true, "data": {"latitude": 35.1, "longitude": -80.2, "confidence": 0.92}}`))

	location, confidence, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")

	require.NoError(t, err)
	assert.InDelta(t, 35.1, location.Latitude, 1e-9)
	assert.InDelta(t, -80.2, location.Longitude, 1e-9)
	assert.InDelta(t, 0.92, confidence, 1e-9)
}

func TestClient_Extract_MissingConfidenceDefaults(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, extractURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"success": true, "data": {"latitude": 10.5, "longitude": 20.25}}`))

	_, confidence, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")

	require.NoError(t, err)
	assert.InDelta(t, models.DefaultConfidence, confidence, 1e-9)
}

func TestClient_Extract_MissingCoordinatesFails(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, extractURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"success": true, "data": {"latitude": 35.1}}`))

	_, _, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing coordinates")
}

func TestClient_Extract_ServiceReportsFailure(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, extractURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"success": false, "message": "no location found"}`))

	_, _, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no location found")
}

func TestClient_Extract_HTTPError(t *testing.T) {
	setupMock(t)

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad_request", http.StatusBadRequest},
		{"not_found", http.StatusNotFound},
		{"internal_server_error", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder(http.MethodPost, extractURL,
				httpmock.NewStringResponder(tt.statusCode, `{"error": "boom"}`))

			_, _, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")
			require.Error(t, err)
		})
	}
}

func TestClient_Extract_InvalidJSON(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, extractURL,
		httpmock.NewStringResponder(http.StatusOK, `{invalid json`))

	_, _, err := newTestClient().Extract(context.Background(), "https://host/leaf.jpg", "leaf")
	require.Error(t, err)
}

func TestStub_Deterministic(t *testing.T) {
	stub := geolookup.NewStub()

	first, confFirst, err := stub.Extract(context.Background(), "https://host/leaf.jpg", "leaf")
	require.NoError(t, err)
	second, confSecond, err := stub.Extract(context.Background(), "https://host/leaf.jpg", "leaf")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.InDelta(t, confFirst, confSecond, 1e-9)
}

func TestStub_CoordinatesInRange(t *testing.T) {
	stub := geolookup.NewStub()

	urls := []string{
		"https://host/a.jpg",
		"https://host/some-much-longer-name.png",
		"https://elsewhere/z.webp",
	}
	for _, url := range urls {
		location, confidence, err := stub.Extract(context.Background(), url, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, location.Latitude, -90.0)
		assert.LessOrEqual(t, location.Latitude, 90.0)
		assert.GreaterOrEqual(t, location.Longitude, -180.0)
		assert.LessOrEqual(t, location.Longitude, 180.0)
		assert.GreaterOrEqual(t, confidence, 0.0)
		assert.LessOrEqual(t, confidence, 1.0)
	}
}
