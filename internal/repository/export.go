package repository

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"farmmap-backend/internal/models"
)

// EmptyCSVSentinel is returned instead of a header-only CSV when there is
// nothing to export.
const EmptyCSVSentinel = "No records to export"

var csvHeaders = []string{"ID", "Plant Name", "Species", "Latitude", "Longitude", "Confidence", "Timestamp", "Notes"}

// ExportJSON serializes records as a pretty-printed JSON array.
func ExportJSON(records []models.PlantRecord) (string, error) {
	if records == nil {
		records = []models.PlantRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal records: %w", err)
	}
	return string(data), nil
}

// ExportCSV renders records as CSV. Every field is quoted, with embedded
// quotes doubled, so commas and quotes in free-text fields survive.
func ExportCSV(records []models.PlantRecord) string {
	if len(records) == 0 {
		return EmptyCSVSentinel
	}

	lines := make([]string, 0, len(records)+1)
	lines = append(lines, strings.Join(csvHeaders, ","))

	for _, r := range records {
		row := []string{
			r.ID,
			r.DisplayName,
			r.Species,
			strconv.FormatFloat(r.Location.Latitude, 'f', -1, 64),
			strconv.FormatFloat(r.Location.Longitude, 'f', -1, 64),
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Notes,
		}
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		lines = append(lines, strings.Join(cells, ","))
	}

	return strings.Join(lines, "\n")
}
