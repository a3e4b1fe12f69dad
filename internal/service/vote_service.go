package service

import (
	"context"
	"errors"
	"log"

	"cleanify-client/internal/model"
	"cleanify-client/internal/session"
)

type VoteBackend interface {
	Vote(ctx context.Context, reportID string) (int, error)
}

// VoteService enforces one vote per (session, report). The ledger check
// runs before any network call, so a double click never issues two vote
// requests; the count of record is always whatever the backend returns.
type VoteService struct {
	backend VoteBackend
	ledgers *session.Manager
}

func NewVoteService(backend VoteBackend, ledgers *session.Manager) *VoteService {
	return &VoteService{backend: backend, ledgers: ledgers}
}

func (s *VoteService) CastVote(ctx context.Context, name, reportID string) (*model.VoteResponse, error) {
	ledger, err := s.ledgers.Ledger(name)
	if err != nil {
		return nil, err
	}

	if ledger.HasVoted(reportID) {
		// Duplicate votes are refused quietly, not reported as failures.
		last, _ := ledger.LastVoteCount(reportID)
		return &model.VoteResponse{Votes: last, AlreadyVoted: true}, nil
	}

	votes, err := s.backend.Vote(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if err := ledger.RecordVote(reportID, votes); err != nil && !errors.Is(err, session.ErrAlreadyVoted) {
		log.Printf("vote: persist %s for %s: %v", reportID, name, err)
	}

	return &model.VoteResponse{Votes: votes}, nil
}

func (s *VoteService) HasVoted(name, reportID string) (bool, error) {
	ledger, err := s.ledgers.Ledger(name)
	if err != nil {
		return false, err
	}
	return ledger.HasVoted(reportID), nil
}
