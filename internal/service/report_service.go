package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cleanify-client/internal/geo"
	"cleanify-client/internal/model"
	"cleanify-client/internal/session"
)

var ErrCoordinatesRequired = errors.New("coordinates are required")

// ReportBackend is the slice of the remote API the report flows need.
type ReportBackend interface {
	ListReports(ctx context.Context) ([]model.Report, error)
	ListReportsNearby(ctx context.Context, ref model.Point, radiusM float64) ([]model.Report, error)
	GetReport(ctx context.Context, id string) (model.Report, error)
	CreateReport(ctx context.Context, category, description, address string, pos model.Point, photos []string) (model.Report, error)
	IncrementReports(ctx context.Context, name string) (model.Badge, error)
}

// Business logic for listing and submitting reports.
type ReportService struct {
	backend ReportBackend
	ledgers *session.Manager
	radiusM float64
}

func NewReportService(backend ReportBackend, ledgers *session.Manager, nearbyRadiusM float64) *ReportService {
	return &ReportService{
		backend: backend,
		ledgers: ledgers,
		radiusM: nearbyRadiusM,
	}
}

// List returns reports in server order.
func (s *ReportService) List(ctx context.Context) (*model.ReportListResponse, error) {
	reports, err := s.backend.ListReports(ctx)
	if err != nil {
		return nil, err
	}
	return &model.ReportListResponse{Reports: reports, Total: len(reports)}, nil
}

// ListNearby fetches reports around the reference point and ranks them by
// the server-attached distance.
func (s *ReportService) ListNearby(ctx context.Context, ref model.Point) (*model.ReportListResponse, error) {
	reports, err := s.backend.ListReportsNearby(ctx, ref, s.radiusM)
	if err != nil {
		return nil, err
	}
	ranked := geo.Rank(reports, &ref)
	return &model.ReportListResponse{Reports: ranked, Total: len(ranked)}, nil
}

func (s *ReportService) Get(ctx context.Context, id string) (model.Report, error) {
	return s.backend.GetReport(ctx, id)
}

// Submit validates the draft's coordinates, creates the report, then bumps
// the submitter's badge progression. Submission is refused while
// coordinates are absent or invalid.
func (s *ReportService) Submit(ctx context.Context, name string, req *model.CreateReportRequest) (model.Report, model.Badge, error) {
	pos, err := resolvePosition(req.Lat, req.Lng, req.Address)
	if err != nil {
		return model.Report{}, model.Badge{}, err
	}

	// Derived display address, only when the caller supplied none.
	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = geo.FormatPoint(pos)
	}

	report, err := s.backend.CreateReport(ctx, req.Category, req.Description, address, pos, req.Photos)
	if err != nil {
		return model.Report{}, model.Badge{}, err
	}

	// The report exists from here on; badge bookkeeping failures must not
	// fail the submission.
	ledger, err := s.ledgers.Ledger(name)
	if err != nil {
		log.Printf("report: ledger for %s: %v", name, err)
	}

	badge, err := s.backend.IncrementReports(ctx, name)
	if err != nil {
		log.Printf("report: badge increment for %s: %v", name, err)
		if ledger == nil {
			return report, model.NewBadge(0), nil
		}
		return report, ledger.CurrentBadge(), nil
	}

	if ledger != nil {
		badge, err = ledger.RecordSubmission(badge.ReportsSubmitted)
		if err != nil {
			if errors.Is(err, session.ErrMonotonicityViolation) {
				// Out-of-order response from a concurrent submission; the
				// ledger kept the higher count.
				log.Printf("report: stale badge count for %s discarded", name)
			} else {
				log.Printf("report: persist badge for %s: %v", name, err)
			}
		}
	}
	return report, badge, nil
}

// resolvePosition prefers a structured device pair and falls back to
// parsing the free-text address as "lat,lng". Both paths end in the same
// range validation.
func resolvePosition(lat, lng *float64, address string) (model.Point, error) {
	if lat != nil && lng != nil {
		return geo.ValidatePair(*lat, *lng)
	}
	if lat != nil || lng != nil {
		return model.Point{}, fmt.Errorf("%w: got only one of lat/lng", geo.ErrInvalidCoordinates)
	}
	if strings.TrimSpace(address) == "" {
		return model.Point{}, ErrCoordinatesRequired
	}
	return geo.ParseText(address)
}
