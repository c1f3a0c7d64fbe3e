// Package auth authenticates operators and validates their bearer tokens.
package auth

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// accountRepo defines the account repository interface needed by auth service.
type accountRepo interface {
	GetByUsername(ctx context.Context, username string) (domain.Account, error)
}

// auditRecorder defines the audit interface needed by auth service.
type auditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// jwtManager defines the JWT token management interface needed by auth service.
type jwtManager interface {
	GenerateAccessToken(account domain.AccountID, username string) (string, error)
	ValidateAccessToken(token string) (domain.AccountID, error)
}

// Service implements auth operations.
type Service struct {
	log      *slog.Logger
	accounts accountRepo
	audit    auditRecorder
	jwt      jwtManager
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	accounts accountRepo,
	audit auditRecorder,
	jwt jwtManager,
) *Service {
	return &Service{
		log:      logger.With("service", "auth"),
		accounts: accounts,
		audit:    audit,
		jwt:      jwt,
	}
}

// ValidateToken validates an access token and returns the account id.
// Returns ErrUnauthorized if the token is invalid or expired.
func (s *Service) ValidateToken(ctx context.Context, token string) (domain.AccountID, error) {
	account, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return account, nil
}
