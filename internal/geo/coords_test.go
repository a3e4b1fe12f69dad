package geo

import (
	"errors"
	"math"
	"testing"

	"cleanify-client/internal/model"
)

func TestParseText(t *testing.T) {
	tests := []struct {
		input   string
		want    model.Point
		wantErr bool
	}{
		{"18.5204,73.8567", model.Point{Lat: 18.5204, Lng: 73.8567}, false},
		{"18.5204, 73.8567", model.Point{Lat: 18.5204, Lng: 73.8567}, false},
		{" -90,180 ", model.Point{Lat: -90, Lng: 180}, false},
		{"90,-180", model.Point{Lat: 90, Lng: -180}, false},
		{"0,0", model.Point{}, false},
		{"200,73.8", model.Point{}, true},  // latitude out of range
		{"45,181", model.Point{}, true},    // longitude out of range
		{"abc,73.8", model.Point{}, true},  // not a number
		{"18.5,73.8,5", model.Point{}, true}, // extra comma is a format error
		{"18.5", model.Point{}, true},
		{"", model.Point{}, true},
		{"Main Street, City", model.Point{}, true},
	}
	for _, tc := range tests {
		got, err := ParseText(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseText(%q) = %+v, want error", tc.input, got)
			} else if !errors.Is(err, ErrInvalidCoordinates) {
				t.Errorf("ParseText(%q) error %v, want ErrInvalidCoordinates", tc.input, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseText(%q) unexpected error: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseText(%q) = %+v, want %+v", tc.input, got, tc.want)
		}
	}
}

func TestValidatePairRejectsNonFinite(t *testing.T) {
	for _, bad := range [][2]float64{
		{math.NaN(), 73.8},
		{18.5, math.NaN()},
		{math.Inf(1), 0},
		{0, math.Inf(-1)},
	} {
		if _, err := ValidatePair(bad[0], bad[1]); !errors.Is(err, ErrInvalidCoordinates) {
			t.Errorf("ValidatePair(%v, %v) = %v, want ErrInvalidCoordinates", bad[0], bad[1], err)
		}
	}
}

func TestValidatePairRoundTrips(t *testing.T) {
	p, err := ValidatePair(18.5204, 73.8567)
	if err != nil {
		t.Fatalf("ValidatePair: %v", err)
	}
	if p.Lat != 18.5204 || p.Lng != 73.8567 {
		t.Fatalf("ValidatePair returned %+v, pair must come back unswapped", p)
	}
}

func TestFormatPoint(t *testing.T) {
	got := FormatPoint(model.Point{Lat: 18.5204, Lng: 73.8567})
	if got != "18.52040, 73.85670" {
		t.Fatalf("FormatPoint = %q, want fixed 5-decimal rendering", got)
	}
}
