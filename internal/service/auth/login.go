package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// Login authenticates an operator with username + password and records a
// LOGIN audit entry. Returns ErrUnauthorized if the account is unknown,
// disabled, or the password is wrong.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// Normalize input before validation.
	input.Username = strings.TrimSpace(input.Username)

	if err := input.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("auth.Login get account: %w", err)
	}

	if !account.IsActive {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.jwt.GenerateAccessToken(account.ID, account.Username)
	if err != nil {
		return nil, fmt.Errorf("auth.Login generate access token: %w", err)
	}

	s.audit.Record(ctx, domain.AuditEntry{
		Account: account.ID,
		Action:  domain.AuditActionLogin,
		Details: "user logged in",
	})

	s.log.InfoContext(ctx, "account logged in", slog.Any("account_id", account.ID))

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		Account:     account.ID,
	}, nil
}

// HashPassword returns the bcrypt hash stored for new accounts.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
