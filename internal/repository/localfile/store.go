package localfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"farmmap-backend/internal/models"
	"farmmap-backend/internal/repository"
)

// Store keeps every record in a single JSON file. A mutex serializes the
// read-modify-write cycle so interleaved creates and deletes cannot lose
// updates.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) ListAll(ctx context.Context) ([]models.PlantRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

func (s *Store) Create(ctx context.Context, record models.PlantRecord) (models.PlantRecord, error) {
	if err := ctx.Err(); err != nil {
		return models.PlantRecord{}, err
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	if err := repository.ValidateRecord(record); err != nil {
		return models.PlantRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	records = append(records, record)
	if err := s.save(records); err != nil {
		return models.PlantRecord{}, err
	}
	return record, nil
}

func (s *Store) Update(ctx context.Context, id string, update models.PlantUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := repository.ValidateUpdate(update); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	for i := range records {
		if records[i].ID == id {
			repository.ApplyUpdate(&records[i], update)
			if err := repository.ValidateRecord(records[i]); err != nil {
				return err
			}
			return s.save(records)
		}
	}
	// Absent id is a deliberate no-op, matching the delete policy.
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	filtered := records[:0]
	for _, r := range records {
		if r.ID != id {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == len(records) {
		return nil
	}
	return s.save(filtered)
}

// load reads the backing file. A missing or unparsable file yields an empty
// list; corruption is logged but never surfaced to readers.
func (s *Store) load() []models.PlantRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: failed to read record store %s: %v", s.path, err)
		}
		return []models.PlantRecord{}
	}

	var records []models.PlantRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Warning: record store %s is corrupted, treating as empty: %v", s.path, err)
		return []models.PlantRecord{}
	}
	return records
}

// save writes through a temp file and renames it into place so a crash
// mid-write cannot leave a half-written store.
func (s *Store) save(records []models.PlantRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write record store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace record store: %w", err)
	}
	return nil
}
