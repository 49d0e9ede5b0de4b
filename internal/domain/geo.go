package domain

import (
	"encoding/json"
	"fmt"
)

// GeoPoint is a GeoJSON Point stored as [longitude, latitude].
// MongoDB's 2dsphere index requires this exact shape and ordering.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// NewGeoPoint builds a validated GeoJSON point from a lon/lat pair
func NewGeoPoint(longitude, latitude float64) (*GeoPoint, error) {
	p := &GeoPoint{Type: "Point", Coordinates: []float64{longitude, latitude}}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the GeoJSON shape and coordinate ranges
func (p *GeoPoint) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: point is nil", ErrInvalidLocation)
	}
	if p.Type != "" && p.Type != "Point" {
		return fmt.Errorf("%w: unsupported geometry type %q", ErrInvalidLocation, p.Type)
	}
	if len(p.Coordinates) != 2 {
		return fmt.Errorf("%w: expected [longitude, latitude], got %d coordinates", ErrInvalidLocation, len(p.Coordinates))
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	if lng < -180 || lng > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, lng)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, lat)
	}
	return nil
}

// Longitude returns the first coordinate
func (p *GeoPoint) Longitude() float64 { return p.Coordinates[0] }

// Latitude returns the second coordinate
func (p *GeoPoint) Latitude() float64 { return p.Coordinates[1] }

// ParseGeoPoint decodes a client-supplied JSON string like
// {"coordinates":[77.59,12.97]} into a validated point.
func ParseGeoPoint(raw string) (*GeoPoint, error) {
	var p GeoPoint
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}
	p.Type = "Point"
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}
