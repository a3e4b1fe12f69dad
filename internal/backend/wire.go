package backend

import (
	"time"

	"cleanify-client/internal/model"
)

// wireLocation is the backend's GeoJSON-style position. Coordinates are
// [longitude, latitude] on the wire, reversed from the internal (lat, lng)
// convention. toPoint is the single place that swap happens.
type wireLocation struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

func (l wireLocation) toPoint() model.Point {
	return model.Point{Lat: l.Coordinates[1], Lng: l.Coordinates[0]}
}

type wireReport struct {
	ID          string       `json:"_id"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Status      string       `json:"status"`
	Votes       int          `json:"votes"`
	Photos      []string     `json:"photos"`
	Location    wireLocation `json:"location"`
	CreatedAt   time.Time    `json:"createdAt"`
	Distance    *float64     `json:"distance,omitempty"`
}

func (w wireReport) toReport() model.Report {
	return model.Report{
		ID:          w.ID,
		Category:    w.Category,
		Description: w.Description,
		Address:     w.Address,
		Pos:         w.Location.toPoint(),
		Status:      model.ReportStatus(w.Status),
		Votes:       w.Votes,
		Photos:      w.Photos,
		CreatedAt:   w.CreatedAt,
		DistanceM:   w.Distance,
	}
}

type wireToilet struct {
	ID        string       `json:"_id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Status    string       `json:"status"`
	Location  wireLocation `json:"location"`
	CreatedAt time.Time    `json:"createdAt"`
	Distance  *float64     `json:"distance,omitempty"`
}

func (w wireToilet) toFacility() model.Facility {
	return model.Facility{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		Pos:       w.Location.toPoint(),
		Status:    model.FacilityStatus(w.Status),
		CreatedAt: w.CreatedAt,
		DistanceM: w.Distance,
	}
}

type wireBadge struct {
	Badge            string `json:"badge"`
	BadgeLevel       int    `json:"badgeLevel"`
	ReportsSubmitted int    `json:"reportsSubmitted"`
}

func (w wireBadge) toBadge() model.Badge {
	return model.Badge{
		Tier:             model.BadgeTier(w.Badge),
		Level:            w.BadgeLevel,
		ReportsSubmitted: w.ReportsSubmitted,
	}
}

type wireChatMessage struct {
	ID        string    `json:"_id,omitempty"`
	Sender    string    `json:"sender"`
	Badge     string    `json:"badge,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

func (w wireChatMessage) toMessage() model.ChatMessage {
	return model.ChatMessage{
		ID:        w.ID,
		Sender:    w.Sender,
		Badge:     w.Badge,
		Text:      w.Text,
		CreatedAt: w.CreatedAt,
	}
}

// Outbound payloads are flat lat/lng; the backend builds its own GeoJSON.
type createReportPayload struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Lat         float64  `json:"lat"`
	Lng         float64  `json:"lng"`
	Photos      []string `json:"photos"`
}

type createToiletPayload struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

type updateToiletPayload struct {
	Status string `json:"status"`
}

type voteResult struct {
	Votes int `json:"votes"`
}
