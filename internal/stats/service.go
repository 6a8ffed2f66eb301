package stats

import (
	"context"
	"fmt"
	"time"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) ForUser(ctx context.Context, userID string) (Stats, error) {
	collections, err := s.repo.CountCollections(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("count collections: %w", err)
	}
	entries, err := s.repo.Entries(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("load entries: %w", err)
	}
	recent, err := s.repo.Recent(ctx, userID, RecentLimit)
	if err != nil {
		return Stats{}, fmt.Errorf("load recent additions: %w", err)
	}

	st := Compute(collections, entries, s.now())
	if recent == nil {
		recent = []Recent{}
	}
	st.RecentAdditions = recent
	return st, nil
}
