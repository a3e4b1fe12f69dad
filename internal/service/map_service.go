package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cleanify-client/internal/mapsync"
	"cleanify-client/internal/model"
	"cleanify-client/internal/refresh"
	"cleanify-client/internal/stream"
)

var ErrViewNotFound = errors.New("map view not found")

// FetchFunc loads the entity snapshot for a view, using the view's
// current reference point when one is known.
type FetchFunc func(ctx context.Context, ref *model.Point) ([]model.Located, error)

// mapView is one live map panel: its controller, its polling task, the
// latest snapshot and the reference point. The view owns its drawing
// surface exclusively while open.
type mapView struct {
	name string
	ctrl *mapsync.Controller
	task *refresh.Task

	mu     sync.Mutex
	latest []model.Located
	ref    *model.Point
}

func (v *mapView) reference() *model.Point {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ref
}

// apply is the refresh sink: replace the snapshot wholesale and reconcile
// with whatever is currently selected.
func (v *mapView) apply(entities []model.Located) {
	v.mu.Lock()
	v.latest = entities
	ref := v.ref
	v.mu.Unlock()

	v.ctrl.Reconcile(entities, v.ctrl.Selected(), ref)
}

func (v *mapView) reconcile(selectedID string) {
	v.mu.Lock()
	entities := v.latest
	ref := v.ref
	v.mu.Unlock()

	v.ctrl.Reconcile(entities, selectedID, ref)
}

// MapService owns every named map view and its lifecycle. Views are
// opened at startup and closed on shutdown; a closed view rejects late
// state changes, which is how a stale geolocation fix for a navigated-
// away panel gets dropped.
type MapService struct {
	hub *stream.Hub

	mu    sync.Mutex
	views map[string]*mapView
}

func NewMapService(hub *stream.Hub) *MapService {
	return &MapService{hub: hub, views: make(map[string]*mapView)}
}

// OpenView attaches a fresh surface for the named panel and starts its
// polling loop.
func (s *MapService) OpenView(name string, interval time.Duration, fetch FetchFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.views[name]; ok {
		return fmt.Errorf("map view %q already open", name)
	}

	v := &mapView{name: name, ctrl: mapsync.NewController()}
	if err := v.ctrl.AttachSurface(stream.NewMapSurface(s.hub, name)); err != nil {
		return err
	}

	v.task = refresh.Start(name, interval, func(ctx context.Context) ([]model.Located, error) {
		return fetch(ctx, v.reference())
	}, v.apply)

	s.views[name] = v
	return nil
}

// CloseView stops polling and releases the surface, markers first.
func (s *MapService) CloseView(name string) error {
	s.mu.Lock()
	v, ok := s.views[name]
	delete(s.views, name)
	s.mu.Unlock()

	if !ok {
		return ErrViewNotFound
	}
	v.task.Stop()
	v.ctrl.DetachSurface()
	return nil
}

func (s *MapService) CloseAll() {
	s.mu.Lock()
	views := make([]*mapView, 0, len(s.views))
	for name, v := range s.views {
		views = append(views, v)
		delete(s.views, name)
	}
	s.mu.Unlock()

	for _, v := range views {
		v.task.Stop()
		v.ctrl.DetachSurface()
	}
}

func (s *MapService) view(name string) (*mapView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.views[name]
	if !ok {
		return nil, ErrViewNotFound
	}
	return v, nil
}

// Select marks an entity as selected and reconciles immediately. If the
// id is absent from the latest snapshot the controller clears selection
// and falls back to the overview.
func (s *MapService) Select(name, entityID string) error {
	v, err := s.view(name)
	if err != nil {
		return err
	}
	v.reconcile(entityID)
	return nil
}

func (s *MapService) ClearSelection(name string) error {
	v, err := s.view(name)
	if err != nil {
		return err
	}
	v.reconcile("")
	return nil
}

// Selected reports the view's current selection, empty when none.
func (s *MapService) Selected(name string) (string, error) {
	v, err := s.view(name)
	if err != nil {
		return "", err
	}
	return v.ctrl.Selected(), nil
}

// SetReference records a device location fix for the view and reconciles
// so the overview can include it. Fixes arriving after the view closed
// return ErrViewNotFound and are ignored by the caller.
func (s *MapService) SetReference(name string, ref model.Point) error {
	v, err := s.view(name)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.ref = &ref
	v.mu.Unlock()
	v.reconcile(v.ctrl.Selected())
	return nil
}

// Subscribe registers a stream client for the view and returns the replay
// snapshot of the drawn state. Registration happens before the snapshot is
// taken: an instruction raced between the two steps reaches the client
// through both its channel and the replay, never through neither, and
// replaying an add for an already drawn marker id is a no-op on the far
// side.
func (s *MapService) Subscribe(name string) (*stream.Client, []mapsync.Instruction, error) {
	v, err := s.view(name)
	if err != nil {
		return nil, nil, err
	}
	client := s.hub.RegisterClient(name)
	return client, v.ctrl.Snapshot(), nil
}

func (s *MapService) Unsubscribe(client *stream.Client) {
	s.hub.UnregisterClient(client)
}

// Snapshot replays the view's drawn state for a late-joining map client.
func (s *MapService) Snapshot(name string) ([]mapsync.Instruction, error) {
	v, err := s.view(name)
	if err != nil {
		return nil, err
	}
	return v.ctrl.Snapshot(), nil
}
