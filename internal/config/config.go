package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string

	// Media store (image host)
	MediaDriver            string // "cloudinary", "supabase" or "s3"
	CloudinaryBaseURL      string
	CloudinaryCloudName    string
	CloudinaryUploadPreset string
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string
	S3Endpoint             string
	S3AccessKey            string
	S3SecretKey            string
	S3Bucket               string
	S3Region               string
	S3UseSSL               bool
	S3PathStyle            bool

	// Location extraction
	GeoProvider   string // "remote" or "stub"
	GeoAPIBaseURL string
	CallerEmail   string

	// Record store
	RecordStore     string // "file" or "postgres"
	RecordStorePath string
	DatabaseURL     string

	// Upload limits
	MaxUploadSize int64

	// Marker-confidence cutoffs consumed by map clients. Presentation
	// policy, kept out of the pipeline.
	ConfidenceLowCutoff  float64
	ConfidenceHighCutoff float64
}

func Load() (*Config, error) {
	maxUpload, err := getInt64Env("MAX_UPLOAD_SIZE", 10<<20)
	if err != nil {
		return nil, err
	}
	lowCutoff, err := getFloatEnv("CONFIDENCE_LOW_CUTOFF", 0.6)
	if err != nil {
		return nil, err
	}
	highCutoff, err := getFloatEnv("CONFIDENCE_HIGH_CUTOFF", 0.8)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		MediaDriver:            getEnv("MEDIA_DRIVER", "cloudinary"),
		CloudinaryBaseURL:      getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1/"),
		CloudinaryCloudName:    getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryUploadPreset: getEnv("CLOUDINARY_UPLOAD_PRESET", "unsigned_upload"),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "plant-images"),

		S3Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "farmmap"),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3UseSSL:    getBoolEnv("S3_USE_SSL", false),
		S3PathStyle: getBoolEnv("S3_PATH_STYLE", true),

		GeoProvider:   getEnv("GEO_PROVIDER", "stub"),
		GeoAPIBaseURL: getEnv("GEO_API_BASE_URL", ""),
		CallerEmail:   getEnv("GEO_CALLER_EMAIL", ""),

		RecordStore:     getEnv("RECORD_STORE", "file"),
		RecordStorePath: getEnv("RECORD_STORE_PATH", "./data/plants.json"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),

		MaxUploadSize:        maxUpload,
		ConfidenceLowCutoff:  lowCutoff,
		ConfidenceHighCutoff: highCutoff,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.MediaDriver {
	case "cloudinary":
		if c.CloudinaryCloudName == "" {
			return fmt.Errorf("CLOUDINARY_CLOUD_NAME is required for the cloudinary media driver")
		}
	case "supabase":
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase media driver")
		}
		if c.SupabasePublishableKey == "" {
			return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required for the supabase media driver")
		}
	case "s3":
		if c.S3AccessKey == "" || c.S3SecretKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY and S3_SECRET_KEY are required for the s3 media driver")
		}
	default:
		return fmt.Errorf("unknown MEDIA_DRIVER %q", c.MediaDriver)
	}

	switch c.GeoProvider {
	case "remote":
		if c.GeoAPIBaseURL == "" {
			return fmt.Errorf("GEO_API_BASE_URL is required for the remote geo provider")
		}
	case "stub":
	default:
		return fmt.Errorf("unknown GEO_PROVIDER %q", c.GeoProvider)
	}

	switch c.RecordStore {
	case "file":
		if c.RecordStorePath == "" {
			return fmt.Errorf("RECORD_STORE_PATH is required for the file record store")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres record store")
		}
	default:
		return fmt.Errorf("unknown RECORD_STORE %q", c.RecordStore)
	}

	if c.ConfidenceLowCutoff < 0 || c.ConfidenceHighCutoff > 1 || c.ConfidenceLowCutoff > c.ConfidenceHighCutoff {
		return fmt.Errorf("confidence cutoffs must satisfy 0 <= low <= high <= 1")
	}

	return nil
}

// AuthEnabled reports whether bearer-token auth is active. Leaving the JWT
// secret unset runs the API open, for local development.
func (c *Config) AuthEnabled() bool {
	return c.SupabaseJWTSecret != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	lower := strings.ToLower(raw)
	return lower == "true" || lower == "1" || lower == "yes"
}

func getInt64Env(key string, defaultValue int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	if value <= 0 {
		return defaultValue, nil
	}
	return value, nil
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", key, err)
	}
	return value, nil
}
