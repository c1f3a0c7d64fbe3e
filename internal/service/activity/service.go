// Package activity serves the dispatch history and daily counters built from
// the activity journal.
package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const (
	DefaultHistoryLimit = 100
	MaxHistoryLimit     = 1000
)

type journalRepo interface {
	ListByLevel(ctx context.Context, account domain.AccountID, level domain.LogLevel, limit int) ([]domain.ActivityEntry, error)
	CountSince(ctx context.Context, account domain.AccountID, level domain.LogLevel, since time.Time) (int, error)
}

// Stats summarizes an account's dispatches.
type Stats struct {
	TodayTriggers int
}

// Service implements history queries.
type Service struct {
	log   *slog.Logger
	repo  journalRepo
	clock clockwork.Clock
}

// NewService creates a new activity service.
func NewService(logger *slog.Logger, repo journalRepo, clock clockwork.Clock) *Service {
	return &Service{
		log:   logger.With("service", "activity"),
		repo:  repo,
		clock: clock,
	}
}

// History returns the account's recent dispatches, newest first.
func (s *Service) History(ctx context.Context, account domain.AccountID, limit int) ([]domain.ActivityEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	entries, err := s.repo.ListByLevel(ctx, account, domain.LogLevelSuccess, limit)
	if err != nil {
		return nil, fmt.Errorf("activity.History: %w", err)
	}
	return entries, nil
}

// Stats counts dispatches since midnight UTC.
func (s *Service) Stats(ctx context.Context, account domain.AccountID) (Stats, error) {
	now := s.clock.Now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	n, err := s.repo.CountSince(ctx, account, domain.LogLevelSuccess, midnight)
	if err != nil {
		return Stats{}, fmt.Errorf("activity.Stats: %w", err)
	}
	return Stats{TodayTriggers: n}, nil
}
