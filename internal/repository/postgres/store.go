package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"farmmap-backend/internal/models"
	"farmmap-backend/internal/repository"
)

// Store persists plant records in a Postgres table. The schema is applied by
// the embedded migrator in internal/database.
type Store struct {
	db *sql.DB
}

func NewStore(connectionString string) (*Store, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListAll(ctx context.Context) ([]models.PlantRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, image_url, media_reference, display_name, species,
		       latitude, longitude, confidence, created_at, notes
		FROM plants
		ORDER BY created_at ASC
	`)
	if err != nil {
		// Reads degrade to an empty result; only writes surface store errors.
		log.Printf("Warning: failed to list plants, returning empty set: %v", err)
		return []models.PlantRecord{}, nil
	}
	defer rows.Close()

	records := []models.PlantRecord{}
	for rows.Next() {
		var (
			r         models.PlantRecord
			reference sql.NullString
			species   sql.NullString
			notes     sql.NullString
		)
		err := rows.Scan(
			&r.ID, &r.ImageURL, &reference, &r.DisplayName, &species,
			&r.Location.Latitude, &r.Location.Longitude, &r.Confidence,
			&r.Timestamp, &notes,
		)
		if err != nil {
			log.Printf("Warning: skipping unreadable plant row: %v", err)
			continue
		}
		r.MediaReference = reference.String
		r.Species = species.String
		r.Notes = notes.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Warning: plant listing ended early: %v", err)
	}

	return records, nil
}

func (s *Store) Create(ctx context.Context, record models.PlantRecord) (models.PlantRecord, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := repository.ValidateRecord(record); err != nil {
		return models.PlantRecord{}, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plants (id, image_url, media_reference, display_name, species,
		                    latitude, longitude, confidence, created_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, record.ImageURL, nullable(record.MediaReference), record.DisplayName,
		nullable(record.Species), record.Location.Latitude, record.Location.Longitude,
		record.Confidence, record.Timestamp, nullable(record.Notes))
	if err != nil {
		return models.PlantRecord{}, fmt.Errorf("failed to create plant record: %w", err)
	}

	return record, nil
}

func (s *Store) Update(ctx context.Context, id string, update models.PlantUpdate) error {
	if err := repository.ValidateUpdate(update); err != nil {
		return err
	}

	// COALESCE keeps stored values for fields the caller omitted. Zero rows
	// affected means the id is absent, which is a no-op by contract.
	_, err := s.db.ExecContext(ctx, `
		UPDATE plants
		SET display_name = COALESCE($2, display_name),
		    species      = COALESCE($3, species),
		    notes        = COALESCE($4, notes)
		WHERE id = $1
	`, id, nullableTrimmed(update.DisplayName), nullableTrimmed(update.Species), nullablePtr(update.Notes))
	if err != nil {
		return fmt.Errorf("failed to update plant record: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM plants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant record: %w", err)
	}
	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}

func nullablePtr(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

// nullableTrimmed matches ApplyUpdate's trimming for the file backend so both
// stores persist identical values for the same update.
func nullableTrimmed(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: strings.TrimSpace(*value), Valid: true}
}
