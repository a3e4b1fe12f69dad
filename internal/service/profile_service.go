package service

import (
	"context"
	"errors"
	"log"

	"cleanify-client/internal/model"
	"cleanify-client/internal/session"
)

type ProfileBackend interface {
	GetBadge(ctx context.Context, name string) (model.Badge, error)
	UpdateEmail(ctx context.Context, name, email string) error
}

// ProfileService serves the badge card. The backend owns the canonical
// count; the ledger mirror lets the profile render while offline.
type ProfileService struct {
	backend ProfileBackend
	ledgers *session.Manager
}

func NewProfileService(backend ProfileBackend, ledgers *session.Manager) *ProfileService {
	return &ProfileService{backend: backend, ledgers: ledgers}
}

// Badge fetches the canonical badge and syncs the local mirror. When the
// backend is unreachable the mirrored progression is returned instead.
func (s *ProfileService) Badge(ctx context.Context, name string) (model.Badge, error) {
	ledger, err := s.ledgers.Ledger(name)
	if err != nil {
		return model.Badge{}, err
	}

	badge, err := s.backend.GetBadge(ctx, name)
	if err != nil {
		log.Printf("profile: badge fetch for %s: %v, using local mirror", name, err)
		return ledger.CurrentBadge(), nil
	}

	if _, err := ledger.RecordSubmission(badge.ReportsSubmitted); err != nil && !errors.Is(err, session.ErrMonotonicityViolation) {
		log.Printf("profile: mirror badge for %s: %v", name, err)
	}
	return badge, nil
}

func (s *ProfileService) UpdateEmail(ctx context.Context, name, email string) error {
	return s.backend.UpdateEmail(ctx, name, email)
}
