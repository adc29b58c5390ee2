package models

import (
	"time"
)

// GeoLocation is a point estimate for where a photo was taken.
type GeoLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// PlantRecord is one geotagged plant observation. Records are written once by
// the ingestion pipeline and only change through explicit repository updates.
type PlantRecord struct {
	ID             string      `json:"id"`
	ImageURL       string      `json:"image_url"`
	MediaReference string      `json:"media_reference,omitempty"`
	DisplayName    string      `json:"display_name"`
	Species        string      `json:"species,omitempty"`
	Location       GeoLocation `json:"location"`
	Confidence     float64     `json:"confidence"`
	Timestamp      time.Time   `json:"timestamp"`
	Notes          string      `json:"notes,omitempty"`
}

// PlantUpdate carries the fields a caller may change after ingestion.
// Nil pointers leave the stored value untouched.
type PlantUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Species     *string `json:"species,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// DefaultConfidence is used when the location service omits a score.
const DefaultConfidence = 0.8
