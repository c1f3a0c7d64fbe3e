// Package configstore holds each account's link and alarm configuration as
// immutable snapshots. Readers never block writers and never see a partial
// replacement.
package configstore

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

type accountRepo interface {
	Exists(ctx context.Context, id domain.AccountID) (bool, error)
}

type linkRepo interface {
	List(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, error)
	Replace(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error
}

type alarmRepo interface {
	Get(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error)
	Upsert(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error
}

type auditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// entry is the per-account slot. mu serializes loaders and writers; snap is
// read lock-free.
type entry struct {
	mu   sync.Mutex
	snap atomic.Pointer[Snapshot]
}

// Service implements the config store.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	links    linkRepo
	alarms   alarmRepo
	audit    auditRecorder
	tx       txManager

	mu      sync.Mutex
	entries map[domain.AccountID]*entry

	subsMu sync.RWMutex
	subs   []func(domain.AccountID)
}

// NewService creates a new config store.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	links linkRepo,
	alarms alarmRepo,
	audit auditRecorder,
	tx txManager,
) *Service {
	return &Service{
		log:      logger.With("service", "configstore"),
		accounts: accounts,
		links:    links,
		alarms:   alarms,
		audit:    audit,
		tx:       tx,
		entries:  make(map[domain.AccountID]*entry),
	}
}

// OnAlarmChange registers fn to be called after an account's alarm config
// is replaced. fn runs synchronously and must not block.
func (s *Service) OnAlarmChange(fn func(domain.AccountID)) {
	s.subsMu.Lock()
	s.subs = append(s.subs, fn)
	s.subsMu.Unlock()
}

// Forget drops the cached snapshot so the next read reloads from storage.
// Called whenever storage reports the account as missing.
func (s *Service) Forget(account domain.AccountID) {
	s.mu.Lock()
	delete(s.entries, account)
	s.mu.Unlock()
}

func (s *Service) entry(account domain.AccountID) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[account]
	if !ok {
		e = &entry{}
		s.entries[account] = e
	}
	return e
}

func (s *Service) notifyAlarmChange(account domain.AccountID) {
	s.subsMu.RLock()
	subs := s.subs
	s.subsMu.RUnlock()

	for _, fn := range subs {
		fn(account)
	}
}
