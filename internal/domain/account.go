package domain

import (
	"strconv"
	"time"
)

// AccountID identifies an operator account. Each account owns one channel,
// one configuration set and one watchdog.
type AccountID int64

func (id AccountID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseAccountID parses a decimal account identifier as found in URL paths
// and token subjects.
func ParseAccountID(s string) (AccountID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, NewValidationError("account_id", "must be a positive integer")
	}
	return AccountID(n), nil
}

// Account is a provisioned operator identity.
type Account struct {
	ID           AccountID
	Username     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}
