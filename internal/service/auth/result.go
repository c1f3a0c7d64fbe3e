package auth

import "github.com/heartmarshall/livecue-backend/internal/domain"

// LoginResult is returned by Login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	Account     domain.AccountID
}
