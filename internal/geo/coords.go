// Package geo holds the coordinate validation and proximity ranking logic.
// All of it is synchronous and allocation-light; nothing here talks to the
// network or recomputes geodesic distance.
package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cleanify-client/internal/model"
)

var ErrInvalidCoordinates = errors.New("invalid coordinates")

// ValidatePair checks a structured (lat, lng) pair, typically from a device
// location fix. Device APIs are treated as authoritative but are still an
// external collaborator, so the numeric ranges are re-checked.
func ValidatePair(lat, lng float64) (model.Point, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return model.Point{}, fmt.Errorf("%w: not finite", ErrInvalidCoordinates)
	}
	if lat < -90 || lat > 90 {
		return model.Point{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidCoordinates, lat)
	}
	if lng < -180 || lng > 180 {
		return model.Point{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidCoordinates, lng)
	}
	return model.Point{Lat: lat, Lng: lng}, nil
}

// ParseText parses free text expected to hold exactly two comma-separated
// decimal numbers, "lat,lng". Extra commas are a format error, not a
// best-effort parse.
func ParseText(input string) (model.Point, error) {
	parts := strings.Split(input, ",")
	if len(parts) != 2 {
		return model.Point{}, fmt.Errorf("%w: expected \"lat,lng\"", ErrInvalidCoordinates)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("%w: latitude %q", ErrInvalidCoordinates, strings.TrimSpace(parts[0]))
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Point{}, fmt.Errorf("%w: longitude %q", ErrInvalidCoordinates, strings.TrimSpace(parts[1]))
	}

	return ValidatePair(lat, lng)
}

// FormatPoint renders a point at fixed 5-decimal precision, the form used
// for the derived display address when the user supplied none.
func FormatPoint(p model.Point) string {
	return fmt.Sprintf("%.5f, %.5f", p.Lat, p.Lng)
}
