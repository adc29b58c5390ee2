package geolookup

import (
	"context"

	"farmmap-backend/internal/models"
)

// Stub derives plausible coordinates from a hash of the image URL. It stands
// in for the remote service in development and acts as the fixture generator
// in tests; the same URL always yields the same point.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Extract(ctx context.Context, imageURL, imageName string) (models.GeoLocation, float64, error) {
	if err := ctx.Err(); err != nil {
		return models.GeoLocation{}, 0, err
	}

	hash := 0
	for _, ch := range imageURL {
		hash += int(ch)
	}

	location := models.GeoLocation{
		Latitude:  35 + float64(hash%100-50)/100,
		Longitude: -100 + float64(hash%200-100)/100,
	}
	confidence := 0.75 + float64(hash%25)/100

	return location, confidence, nil
}
