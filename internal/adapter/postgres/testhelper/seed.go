package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedAccount inserts an active account with a throwaway password hash.
func SeedAccount(t *testing.T, pool *pgxpool.Pool) domain.Account {
	t.Helper()

	acc := domain.Account{
		Username:     "operator-" + uniqueSuffix(),
		PasswordHash: "$2a$10$seedseedseedseedseedseOq3m0b8G3kq3V1c3Q6Z2m5tY9o0u5Qe",
		IsActive:     true,
	}

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO accounts (username, password_hash, is_active)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		acc.Username, acc.PasswordHash, acc.IsActive,
	).Scan(&id, &acc.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedAccount insert: %v", err)
	}
	acc.ID = domain.AccountID(id)
	acc.CreatedAt = acc.CreatedAt.UTC().Truncate(time.Microsecond)

	return acc
}

// SeedLinks stores links for the account in the given order.
func SeedLinks(t *testing.T, pool *pgxpool.Pool, account domain.AccountID, links ...domain.LinkConfig) {
	t.Helper()

	for i, l := range links {
		_, err := pool.Exec(context.Background(),
			`INSERT INTO link_configs (account_id, link_id, position, keywords) VALUES ($1, $2, $3, $4)`,
			int64(account), l.ID, i, l.Keywords,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedLinks insert link %d: %v", l.ID, err)
		}
	}
}
