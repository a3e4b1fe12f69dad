// Package stream fans marker instructions out to connected map clients
// over SSE. It is the production mapsync.Surface: every drawing primitive
// becomes an instruction broadcast to the view's subscribers.
package stream

import (
	"cleanify-client/internal/mapsync"

	"github.com/google/uuid"
)

type Client struct {
	ID      uuid.UUID
	View    string
	Channel chan []mapsync.Instruction
}

type viewBatch struct {
	view  string
	batch []mapsync.Instruction
}

// Hub routes instruction batches to the clients watching each named map
// view. One goroutine owns all client state, so no locks are needed.
type Hub struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan viewBatch
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan viewBatch, 100),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.View] = append(h.clients[client.View], client)

		case client := <-h.unregister:
			viewClients := h.clients[client.View]
			for i, c := range viewClients {
				if c == client {
					h.clients[client.View] = append(viewClients[:i], viewClients[i+1:]...)
					break
				}
			}
			close(client.Channel)

		case vb := <-h.broadcast:
			for _, client := range h.clients[vb.view] {
				select {
				case client.Channel <- vb.batch:
				default:
					// channel full, skip; the next reconcile supersedes
				}
			}
		}
	}
}

func (h *Hub) RegisterClient(view string) *Client {
	client := &Client{
		ID:      uuid.New(),
		View:    view,
		Channel: make(chan []mapsync.Instruction, 16),
	}
	h.register <- client
	return client
}

func (h *Hub) UnregisterClient(client *Client) {
	h.unregister <- client
}

func (h *Hub) Broadcast(view string, batch []mapsync.Instruction) {
	if len(batch) == 0 {
		return
	}
	h.broadcast <- viewBatch{view: view, batch: batch}
}

// MapSurface is the drawing surface for one named view. Primitive calls
// are forwarded as single-instruction batches; marker handles are minted
// here and meaningful only to clients of this surface.
type MapSurface struct {
	hub  *Hub
	view string
}

func NewMapSurface(hub *Hub, view string) *MapSurface {
	return &MapSurface{hub: hub, view: view}
}

func (s *MapSurface) AddMarker(entity string, lat, lng float64, label string) mapsync.MarkerID {
	id := mapsync.MarkerID(uuid.NewString())
	s.hub.Broadcast(s.view, []mapsync.Instruction{{
		Op: mapsync.OpAdd, Marker: id, Entity: entity, Lat: lat, Lng: lng, Label: label,
	}})
	return id
}

func (s *MapSurface) RemoveMarker(id mapsync.MarkerID) {
	s.hub.Broadcast(s.view, []mapsync.Instruction{{Op: mapsync.OpRemove, Marker: id}})
}

func (s *MapSurface) UpdateMarker(id mapsync.MarkerID, lat, lng float64, label string) {
	s.hub.Broadcast(s.view, []mapsync.Instruction{{
		Op: mapsync.OpUpdate, Marker: id, Lat: lat, Lng: lng, Label: label,
	}})
}

func (s *MapSurface) SetView(lat, lng float64, zoom int) {
	s.hub.Broadcast(s.view, []mapsync.Instruction{{Op: mapsync.OpSetView, Lat: lat, Lng: lng, Zoom: zoom}})
}

func (s *MapSurface) FitBounds(points [][2]float64) {
	s.hub.Broadcast(s.view, []mapsync.Instruction{{Op: mapsync.OpFitBounds, Bounds: points}})
}
