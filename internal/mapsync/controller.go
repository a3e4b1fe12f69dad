package mapsync

import (
	"errors"
	"sync"

	"cleanify-client/internal/model"
)

// Default overview when no entities remain and no reference is known.
const (
	DefaultLat  = 20.0
	DefaultLng  = 78.0
	DefaultZoom = 5

	focusZoom     = 15
	referenceZoom = 13
)

var (
	ErrSurfaceAttached = errors.New("surface already attached")
	ErrNotAttached     = errors.New("no surface attached")
)

type drawn struct {
	marker MarkerID
	pos    model.Point
	label  string
}

// Controller reconciles drawn markers against entity snapshots. It starts
// uninitialized; AttachSurface moves it to ready exactly once, and
// DetachSurface is required before reattaching. Calls are serialized: a
// reconcile that arrives while another holds the lock simply applies
// after it, and since every call carries the full desired state the last
// one wins.
type Controller struct {
	mu       sync.Mutex
	surface  Surface
	drawn    map[string]drawn
	selected string
	lastView *Instruction
}

func NewController() *Controller {
	return &Controller{drawn: make(map[string]drawn)}
}

func (c *Controller) AttachSurface(s Surface) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface != nil {
		return ErrSurfaceAttached
	}
	c.surface = s
	return nil
}

// DetachSurface releases every marker before releasing the surface, so no
// reference to a torn-down surface can leak. Safe to call when nothing is
// attached.
func (c *Controller) DetachSurface() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface == nil {
		return
	}
	for id, d := range c.drawn {
		c.surface.RemoveMarker(d.marker)
		delete(c.drawn, id)
	}
	c.surface = nil
	c.selected = ""
	c.lastView = nil
}

// Selected returns the current selection, empty when cleared.
func (c *Controller) Selected() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

// Reconcile brings the surface in agreement with the snapshot: markers for
// vanished entities are removed, new entities are added, kept entities are
// updated in place. If selectedID is present the view recenters on it; if
// it vanished from the snapshot the selection clears and the view falls
// back to a bounding box of what remains (including the reference point),
// or the default overview when nothing is left.
func (c *Controller) Reconcile(entities []model.Located, selectedID string, reference *model.Point) ([]Instruction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.surface == nil {
		return nil, ErrNotAttached
	}

	current := make(map[string]model.Located, len(entities))
	for _, e := range entities {
		current[e.EntityID()] = e
	}

	var batch []Instruction

	// Vanished entities first, so the surface never holds stale markers
	// while the view moves.
	for id, d := range c.drawn {
		if _, ok := current[id]; ok {
			continue
		}
		c.surface.RemoveMarker(d.marker)
		batch = append(batch, Instruction{Op: OpRemove, Marker: d.marker, Entity: id})
		delete(c.drawn, id)
	}

	for _, e := range entities {
		id := e.EntityID()
		pos := e.Position()
		label := e.Label()

		d, ok := c.drawn[id]
		if !ok {
			marker := c.surface.AddMarker(id, pos.Lat, pos.Lng, label)
			c.drawn[id] = drawn{marker: marker, pos: pos, label: label}
			batch = append(batch, Instruction{Op: OpAdd, Marker: marker, Entity: id, Lat: pos.Lat, Lng: pos.Lng, Label: label})
			continue
		}
		if d.pos == pos && d.label == label {
			continue
		}
		if u, can := c.surface.(MarkerUpdater); can {
			u.UpdateMarker(d.marker, pos.Lat, pos.Lng, label)
		} else {
			c.surface.RemoveMarker(d.marker)
			d.marker = c.surface.AddMarker(id, pos.Lat, pos.Lng, label)
		}
		d.pos = pos
		d.label = label
		c.drawn[id] = d
		batch = append(batch, Instruction{Op: OpUpdate, Marker: d.marker, Entity: id, Lat: pos.Lat, Lng: pos.Lng, Label: label})
	}

	c.selected = selectedID
	if selectedID != "" {
		if e, ok := current[selectedID]; ok {
			pos := e.Position()
			view := Instruction{Op: OpSetView, Entity: selectedID, Lat: pos.Lat, Lng: pos.Lng, Zoom: focusZoom}
			c.surface.SetView(pos.Lat, pos.Lng, focusZoom)
			c.lastView = &view
			return append(batch, view), nil
		}
		// Selected entity vanished from the feed: clear and fall through
		// to the overview.
		c.selected = ""
	}

	view := c.overview(entities, reference)
	c.applyView(view)
	c.lastView = &view
	return append(batch, view), nil
}

func (c *Controller) overview(entities []model.Located, reference *model.Point) Instruction {
	if len(entities) > 0 {
		bounds := make([][2]float64, 0, len(entities)+1)
		if reference != nil {
			bounds = append(bounds, [2]float64{reference.Lat, reference.Lng})
		}
		for _, e := range entities {
			p := e.Position()
			bounds = append(bounds, [2]float64{p.Lat, p.Lng})
		}
		return Instruction{Op: OpFitBounds, Bounds: bounds}
	}
	if reference != nil {
		return Instruction{Op: OpSetView, Lat: reference.Lat, Lng: reference.Lng, Zoom: referenceZoom}
	}
	return Instruction{Op: OpSetView, Lat: DefaultLat, Lng: DefaultLng, Zoom: DefaultZoom}
}

func (c *Controller) applyView(view Instruction) {
	switch view.Op {
	case OpFitBounds:
		c.surface.FitBounds(view.Bounds)
	case OpSetView:
		c.surface.SetView(view.Lat, view.Lng, view.Zoom)
	}
}

// Snapshot replays the drawn state as instructions, for map clients that
// attach after markers were already drawn.
func (c *Controller) Snapshot() []Instruction {
	c.mu.Lock()
	defer c.mu.Unlock()

	batch := make([]Instruction, 0, len(c.drawn)+1)
	for id, d := range c.drawn {
		batch = append(batch, Instruction{Op: OpAdd, Marker: d.marker, Entity: id, Lat: d.pos.Lat, Lng: d.pos.Lng, Label: d.label})
	}
	if c.lastView != nil {
		batch = append(batch, *c.lastView)
	}
	return batch
}
