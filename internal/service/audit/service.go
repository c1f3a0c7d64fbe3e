// Package audit records administrative and connection lifecycle events.
// Recording is best-effort: storage failures are logged and never reach the
// operation that triggered them.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/pkg/ctxutil"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	writeTimeout = 5 * time.Second
)

type auditRepo interface {
	Create(ctx context.Context, entry domain.AuditEntry) error
	ListByAccount(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error)
}

// Service implements the audit recorder.
type Service struct {
	log   *slog.Logger
	repo  auditRepo
	clock clockwork.Clock
}

// NewService creates a new audit recorder.
func NewService(logger *slog.Logger, repo auditRepo, clock clockwork.Clock) *Service {
	return &Service{
		log:   logger.With("service", "audit"),
		repo:  repo,
		clock: clock,
	}
}

// Record appends entry. Missing ID, Timestamp and IPAddress are filled in.
// The write outlives cancellation of ctx so a closing connection still gets
// its DISCONNECT entry.
func (s *Service) Record(ctx context.Context, entry domain.AuditEntry) {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.clock.Now().UTC()
	}
	if entry.IPAddress == "" {
		entry.IPAddress = ctxutil.ClientIPFromCtx(ctx)
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, entry); err != nil {
		s.log.ErrorContext(ctx, "audit record dropped",
			slog.String("action", entry.Action.String()),
			slog.Any("account_id", entry.Account),
			slog.String("error", err.Error()),
		)
	}
}

// List returns up to limit entries for the account, newest first.
// Non-positive limits fall back to DefaultListLimit; larger ones are capped.
func (s *Service) List(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error) {
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.repo.ListByAccount(ctx, account, limit)
}
