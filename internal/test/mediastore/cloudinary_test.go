package mediastore_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmap-backend/internal/mediastore"
	"farmmap-backend/internal/mediastore/cloudinary"
)

const uploadURL = "https://media.test/v1_1/demo-cloud/image/upload"

func setupMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient() *cloudinary.Client {
	return cloudinary.NewClient("https://media.test/v1_1/", "demo-cloud", "unsigned_upload")
}

func TestClient_Upload_Success(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, uploadURL,
		httpmock.NewStringResponder(http.StatusOK,
			`{"secure_url": "https://media.test/demo-cloud/leaf.jpg", "public_id": "leaf-abc123"}`))

	result, err := newTestClient().Upload(context.Background(), "leaf.jpg", []byte("image-bytes"), nil)

	require.NoError(t, err)
	assert.Equal(t, "https://media.test/demo-cloud/leaf.jpg", result.URL)
	assert.Equal(t, "leaf-abc123", result.Reference)
}

func TestClient_Upload_MissingSecureURLFails(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, uploadURL,
		httpmock.NewStringResponder(http.StatusOK, `{"public_id": "leaf-abc123"}`))

	_, err := newTestClient().Upload(context.Background(), "leaf.jpg", []byte("image-bytes"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "secure_url is empty")
}

func TestClient_Upload_RemoteError(t *testing.T) {
	setupMock(t)
	httpmock.RegisterResponder(http.MethodPost, uploadURL,
		httpmock.NewStringResponder(http.StatusBadRequest,
			`{"error": {"message": "Upload preset not found"}}`))

	_, err := newTestClient().Upload(context.Background(), "leaf.jpg", []byte("image-bytes"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestClient_Upload_ServerErrors(t *testing.T) {
	setupMock(t)

	for _, status := range []int{http.StatusUnauthorized, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, uploadURL,
			httpmock.NewStringResponder(status, `{}`))

		_, err := newTestClient().Upload(context.Background(), "leaf.jpg", []byte("image-bytes"), nil)
		require.Error(t, err)
	}
}

func TestProgressReader_ReportsBytes(t *testing.T) {
	data := bytes.Repeat([]byte("x"), 1000)

	var (
		lastLoaded  int64
		lastPercent int
		callCount   int
	)
	reader := mediastore.NewProgressReader(bytes.NewReader(data), int64(len(data)),
		func(loaded, total int64, percent int) {
			assert.GreaterOrEqual(t, loaded, lastLoaded)
			lastLoaded = loaded
			lastPercent = percent
			callCount++
		})

	buf := make([]byte, 128)
	for {
		_, err := reader.Read(buf)
		if err != nil {
			break
		}
	}

	assert.Positive(t, callCount)
	assert.Equal(t, int64(1000), lastLoaded)
	assert.Equal(t, 100, lastPercent)
}

func TestProgressReader_NilCallbackPassesThrough(t *testing.T) {
	data := []byte("plain")
	reader := mediastore.NewProgressReader(bytes.NewReader(data), int64(len(data)), nil)

	buf := make([]byte, 16)
	n, _ := reader.Read(buf)
	assert.Equal(t, len(data), n)
}
