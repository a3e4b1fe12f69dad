package model

import "time"

type ReportStatus string

const (
	StatusOpen   ReportStatus = "Open"
	StatusSolved ReportStatus = "Solved"
)

type FacilityStatus string

const (
	FacilityOperational FacilityStatus = "Operational"
	FacilityMaintenance FacilityStatus = "Maintenance"
	FacilityClosed      FacilityStatus = "Closed"
)

// Point is a validated geographic position, always (latitude, longitude).
// The backend wire format is [longitude, latitude]; only the backend
// adapter converts between the two, exactly once per crossing.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Located is any entity that can be placed on the map surface and ranked
// by proximity. Distance reports the server-computed distance in meters;
// ok is false when the server did not attach one.
type Located interface {
	EntityID() string
	Position() Point
	Distance() (meters float64, ok bool)
	Label() string
}

// Report is a read-only snapshot of a citizen complaint. Snapshots are
// replaced wholesale on every refresh, never merged field by field.
type Report struct {
	ID          string       `json:"id"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Address     string       `json:"address"`
	Pos         Point        `json:"position"`
	Status      ReportStatus `json:"status"`
	Votes       int          `json:"votes"`
	Photos      []string     `json:"photos,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	DistanceM   *float64     `json:"distance_m,omitempty"`
}

func (r Report) EntityID() string { return r.ID }
func (r Report) Position() Point  { return r.Pos }
func (r Report) Label() string    { return r.Category }

func (r Report) Distance() (float64, bool) {
	if r.DistanceM == nil {
		return 0, false
	}
	return *r.DistanceM, true
}

// Facility is a public toilet record from the facility directory.
type Facility struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	Pos       Point          `json:"position"`
	Status    FacilityStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	DistanceM *float64       `json:"distance_m,omitempty"`
}

func (f Facility) EntityID() string { return f.ID }
func (f Facility) Position() Point  { return f.Pos }
func (f Facility) Label() string    { return f.Name }

func (f Facility) Distance() (float64, bool) {
	if f.DistanceM == nil {
		return 0, false
	}
	return *f.DistanceM, true
}

// Request/Response DTOs for the local facade.
type CreateReportRequest struct {
	Category    string   `json:"category" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Address     string   `json:"address"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Photos      []string `json:"photos"`
}

type CreateFacilityRequest struct {
	Name    string   `json:"name" binding:"required"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type UpdateFacilityStatusRequest struct {
	Status FacilityStatus `json:"status" binding:"required"`
}

type VoteResponse struct {
	Votes        int  `json:"votes"`
	AlreadyVoted bool `json:"already_voted"`
}

type ReportListResponse struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
}

type FacilityListResponse struct {
	Facilities []Facility `json:"facilities"`
	Total      int        `json:"total"`
}

type ChatMessage struct {
	ID        string    `json:"id,omitempty"`
	Sender    string    `json:"sender"`
	Badge     string    `json:"badge,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type SendChatRequest struct {
	Text string `json:"text" binding:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" binding:"required"`
}
