// Package mapsync keeps a map surface's drawn markers consistent with a
// dynamically refreshed entity list and at most one selected entity.
package mapsync

// MarkerID identifies one drawn marker on a surface. IDs are assigned by
// the surface and opaque to the controller.
type MarkerID string

// Surface is the drawing boundary. Nothing beyond these four primitives
// is assumed of the underlying map library. The entity id passed to
// AddMarker is an opaque tag the surface may attach to the marker (for
// click handling on the far side); the returned MarkerID is the handle
// every later call uses.
type Surface interface {
	AddMarker(entity string, lat, lng float64, label string) MarkerID
	RemoveMarker(id MarkerID)
	SetView(lat, lng float64, zoom int)
	FitBounds(points [][2]float64)
}

// MarkerUpdater is an optional capability: surfaces that can move a
// marker in place implement it, and the controller will update rather
// than remove-and-add when a kept entity changes position or label.
type MarkerUpdater interface {
	UpdateMarker(id MarkerID, lat, lng float64, label string)
}

type Op string

const (
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpRemove    Op = "remove"
	OpSetView   Op = "set_view"
	OpFitBounds Op = "fit_bounds"
)

// Instruction is one reconcile step, observable by tests and replayable
// to a map client that connects after the markers were drawn. Coordinates
// and zoom serialize unconditionally: zero is a valid latitude, longitude
// and zoom level, not absence.
type Instruction struct {
	Op     Op           `json:"op"`
	Marker MarkerID     `json:"marker,omitempty"`
	Entity string       `json:"entity,omitempty"`
	Lat    float64      `json:"lat"`
	Lng    float64      `json:"lng"`
	Label  string       `json:"label,omitempty"`
	Zoom   int          `json:"zoom"`
	Bounds [][2]float64 `json:"bounds,omitempty"`
}
