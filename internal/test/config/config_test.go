package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmmap-backend/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo-cloud")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "stub", cfg.GeoProvider)
	assert.Equal(t, "file", cfg.RecordStore)
	assert.Equal(t, "./data/plants.json", cfg.RecordStorePath)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.InDelta(t, 0.6, cfg.ConfidenceLowCutoff, 1e-9)
	assert.InDelta(t, 0.8, cfg.ConfidenceHighCutoff, 1e-9)
	assert.False(t, cfg.AuthEnabled())
}

func TestLoad_CloudinaryRequiresCloudName(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLOUDINARY_CLOUD_NAME")
}

func TestLoad_UnknownMediaDriver(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "ftp")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown MEDIA_DRIVER")
}

func TestLoad_RemoteGeoRequiresBaseURL(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo-cloud")
	t.Setenv("GEO_PROVIDER", "remote")
	t.Setenv("GEO_API_BASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEO_API_BASE_URL")
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo-cloud")
	t.Setenv("RECORD_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_InvertedConfidenceCutoffsRejected(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo-cloud")
	t.Setenv("CONFIDENCE_LOW_CUTOFF", "0.9")
	t.Setenv("CONFIDENCE_HIGH_CUTOFF", "0.5")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "confidence cutoffs")
}

func TestLoad_AuthEnabledWhenSecretSet(t *testing.T) {
	t.Setenv("MEDIA_DRIVER", "cloudinary")
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo-cloud")
	t.Setenv("SUPABASE_JWT_SECRET", "secret")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.AuthEnabled())
}
