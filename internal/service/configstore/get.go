package configstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// Snapshot returns the current configuration of the account, loading it from
// storage on first use. The result is shared and must be treated as read-only.
func (s *Service) Snapshot(ctx context.Context, account domain.AccountID) (*Snapshot, error) {
	e := s.entry(account)
	if snap := e.snap.Load(); snap != nil {
		return snap, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return s.loadLocked(ctx, account, e)
}

// Get returns copies of the account's links (in saved order) and alarm config.
func (s *Service) Get(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, domain.AlarmConfig, error) {
	snap, err := s.Snapshot(ctx, account)
	if err != nil {
		return nil, domain.AlarmConfig{}, err
	}
	return cloneLinks(snap.Links), snap.Alarm, nil
}

// loadLocked must be called with e.mu held.
func (s *Service) loadLocked(ctx context.Context, account domain.AccountID, e *entry) (*Snapshot, error) {
	if snap := e.snap.Load(); snap != nil {
		return snap, nil
	}

	ok, err := s.accounts.Exists(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("check account %v: %w", account, err)
	}
	if !ok {
		s.Forget(account)
		return nil, fmt.Errorf("account %v: %w", account, domain.ErrUnknownAccount)
	}

	links, err := s.links.List(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	alarm, err := s.alarms.Get(ctx, account)
	if errors.Is(err, domain.ErrNotFound) {
		alarm = domain.DefaultAlarmConfig()
	} else if err != nil {
		return nil, fmt.Errorf("load alarm config: %w", err)
	}

	snap := NewSnapshot(links, alarm)
	e.snap.Store(snap)
	s.log.DebugContext(ctx, "config loaded",
		"account_id", account,
		"links", len(links),
		"threshold_s", alarm.NoRecognitionThreshold,
	)
	return snap, nil
}

// Verify checks storage for the account, bypassing the cached snapshot. A
// missing account is forgotten so later reads fail with ErrUnknownAccount
// too.
func (s *Service) Verify(ctx context.Context, account domain.AccountID) error {
	ok, err := s.accounts.Exists(ctx, account)
	if err != nil {
		return fmt.Errorf("check account %v: %w", account, err)
	}
	if !ok {
		s.Forget(account)
		return fmt.Errorf("account %v: %w", account, domain.ErrUnknownAccount)
	}
	return nil
}

// Alarm returns the account's current alarm config.
func (s *Service) Alarm(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error) {
	snap, err := s.Snapshot(ctx, account)
	if err != nil {
		return domain.AlarmConfig{}, err
	}
	return snap.Alarm, nil
}
