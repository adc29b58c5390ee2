package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"farmmap-backend/internal/models"
)

// ErrValidation marks input that a backend refused to store. Callers can
// match it with errors.Is regardless of the backing store.
var ErrValidation = errors.New("validation failed")

// Records is the single source of truth for plant records. Both backings
// (local JSON file and Postgres) satisfy the same contract: insertion-order
// listing, silent no-op updates and deletes for absent ids, and reads that
// degrade to an empty list instead of failing.
type Records interface {
	ListAll(ctx context.Context) ([]models.PlantRecord, error)
	Create(ctx context.Context, record models.PlantRecord) (models.PlantRecord, error)
	Update(ctx context.Context, id string, update models.PlantUpdate) error
	Delete(ctx context.Context, id string) error
}

// ValidateRecord checks the fields every backend requires before a record
// may be stored.
func ValidateRecord(record models.PlantRecord) error {
	if strings.TrimSpace(record.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	if record.Location.Latitude < -90 || record.Location.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range [-90,90]", ErrValidation, record.Location.Latitude)
	}
	if record.Location.Longitude < -180 || record.Location.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range [-180,180]", ErrValidation, record.Location.Longitude)
	}
	if record.Confidence < 0 || record.Confidence > 1 {
		return fmt.Errorf("%w: confidence %v out of range [0,1]", ErrValidation, record.Confidence)
	}
	if record.ImageURL == "" {
		return fmt.Errorf("%w: image url is required", ErrValidation)
	}
	return nil
}

// ValidateUpdate checks the fields of a partial update before any backend
// applies it. Both backends share this gate so a blank display name is
// rejected identically regardless of the backing store.
func ValidateUpdate(update models.PlantUpdate) error {
	if update.DisplayName != nil && strings.TrimSpace(*update.DisplayName) == "" {
		return fmt.Errorf("%w: display name is required", ErrValidation)
	}
	return nil
}

// ApplyUpdate merges the non-nil update fields into record.
func ApplyUpdate(record *models.PlantRecord, update models.PlantUpdate) {
	if update.DisplayName != nil {
		record.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Species != nil {
		record.Species = strings.TrimSpace(*update.Species)
	}
	if update.Notes != nil {
		record.Notes = *update.Notes
	}
}
