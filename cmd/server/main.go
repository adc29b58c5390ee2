package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"farmmap-backend/internal/config"
	"farmmap-backend/internal/database"
	"farmmap-backend/internal/geolookup"
	"farmmap-backend/internal/handlers"
	"farmmap-backend/internal/mediastore"
	"farmmap-backend/internal/mediastore/cloudinary"
	s3store "farmmap-backend/internal/mediastore/s3"
	supabasestore "farmmap-backend/internal/mediastore/supabase"
	"farmmap-backend/internal/middleware"
	"farmmap-backend/internal/pipeline"
	"farmmap-backend/internal/realtime"
	"farmmap-backend/internal/repository"
	"farmmap-backend/internal/repository/localfile"
	"farmmap-backend/internal/repository/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	uploader, err := buildUploader(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	extractor := buildExtractor(cfg)
	records := buildRecordStore(cfg)
	notifier := buildNotifier(cfg)

	validator := pipeline.NewValidator(cfg.MaxUploadSize)
	ingestion := pipeline.New(uploader, extractor, records, validator)

	uploadHandler := handlers.NewUploadHandler(ingestion, notifier)
	plantsHandler := handlers.NewPlantsHandler(records)
	exportHandler := handlers.NewExportHandler(records)
	settingsHandler := handlers.NewSettingsHandler(cfg)

	router := gin.Default()
	router.Use(middleware.Metrics())

	// Health and metrics (no auth)
	router.GET("/health", handlers.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	if cfg.AuthEnabled() {
		api.Use(middleware.AuthMiddleware(cfg))
	} else {
		log.Println("Warning: SUPABASE_JWT_SECRET not set, running without authentication")
	}

	api.POST("/plants/upload", uploadHandler.Upload)
	api.GET("/plants", plantsHandler.List)
	api.PATCH("/plants/:id", plantsHandler.Update)
	api.DELETE("/plants/:id", plantsHandler.Delete)
	api.GET("/plants/export", exportHandler.Export)
	api.GET("/settings", settingsHandler.GetSettings)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildUploader(cfg *config.Config) (mediastore.Uploader, error) {
	switch cfg.MediaDriver {
	case "supabase":
		return supabasestore.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	case "s3":
		return s3store.New(context.Background(), s3store.Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			UseSSL:    cfg.S3UseSSL,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return cloudinary.NewClient(cfg.CloudinaryBaseURL, cfg.CloudinaryCloudName, cfg.CloudinaryUploadPreset), nil
	}
}

func buildExtractor(cfg *config.Config) geolookup.Extractor {
	if cfg.GeoProvider == "remote" {
		return geolookup.NewClient(cfg.GeoAPIBaseURL, cfg.CallerEmail)
	}
	log.Println("Warning: using the stub location provider; coordinates are derived, not extracted")
	return geolookup.NewStub()
}

func buildRecordStore(cfg *config.Config) repository.Records {
	if cfg.RecordStore == "postgres" {
		migrator, err := database.NewMigrator(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize migrator: %v", err)
		}
		defer migrator.Close()
		if err := migrator.Run(); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migrations completed successfully")

		store, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize postgres record store: %v", err)
		}
		return store
	}

	store, err := localfile.NewStore(cfg.RecordStorePath)
	if err != nil {
		log.Fatalf("Failed to initialize file record store: %v", err)
	}
	return store
}

func buildNotifier(cfg *config.Config) realtime.Notifier {
	if cfg.SupabaseURL == "" || cfg.SupabasePublishableKey == "" {
		return realtime.NoopNotifier{}
	}
	notifier, err := realtime.NewSupabaseNotifier(cfg.SupabaseURL, cfg.SupabasePublishableKey)
	if err != nil {
		log.Printf("Warning: failed to initialize realtime notifier: %v", err)
		return realtime.NoopNotifier{}
	}
	return notifier
}
