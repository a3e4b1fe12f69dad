package service

import (
	"context"
	"fmt"
	"strings"

	"cleanify-client/internal/geo"
	"cleanify-client/internal/model"
)

type FacilityBackend interface {
	ListFacilities(ctx context.Context, near *model.Point) ([]model.Facility, error)
	CreateFacility(ctx context.Context, name, address string, pos model.Point) (model.Facility, error)
	UpdateFacilityStatus(ctx context.Context, id string, status model.FacilityStatus) error
	DeleteFacility(ctx context.Context, id string) error
}

// FacilityService drives the public toilet directory: nearby listing for
// citizens, create/status/delete for municipal staff.
type FacilityService struct {
	backend FacilityBackend
}

func NewFacilityService(backend FacilityBackend) *FacilityService {
	return &FacilityService{backend: backend}
}

// List returns the directory, ranked by distance when a reference point
// is supplied.
func (s *FacilityService) List(ctx context.Context, near *model.Point) (*model.FacilityListResponse, error) {
	facilities, err := s.backend.ListFacilities(ctx, near)
	if err != nil {
		return nil, err
	}
	ranked := geo.Rank(facilities, near)
	return &model.FacilityListResponse{Facilities: ranked, Total: len(ranked)}, nil
}

func (s *FacilityService) Create(ctx context.Context, req *model.CreateFacilityRequest) (model.Facility, error) {
	pos, err := resolvePosition(req.Lat, req.Lng, req.Address)
	if err != nil {
		return model.Facility{}, err
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		address = geo.FormatPoint(pos)
	}

	return s.backend.CreateFacility(ctx, req.Name, address, pos)
}

func (s *FacilityService) UpdateStatus(ctx context.Context, id string, status model.FacilityStatus) error {
	switch status {
	case model.FacilityOperational, model.FacilityMaintenance, model.FacilityClosed:
	default:
		return fmt.Errorf("invalid facility status %q", status)
	}
	return s.backend.UpdateFacilityStatus(ctx, id, status)
}

func (s *FacilityService) Delete(ctx context.Context, id string) error {
	return s.backend.DeleteFacility(ctx, id)
}
