package testhelper

import (
	"context"
	"testing"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

func TestSetupTestDB_Smoke(t *testing.T) {
	pool := SetupTestDB(t)

	acc := SeedAccount(t, pool)
	SeedLinks(t, pool, acc.ID, domain.LinkConfig{ID: 1, Keywords: []string{"hello"}})

	var username string
	err := pool.QueryRow(
		context.Background(),
		`SELECT username FROM accounts WHERE id = $1`,
		int64(acc.ID),
	).Scan(&username)
	if err != nil {
		t.Fatalf("expected account in DB, got error: %v", err)
	}
	if username != acc.Username {
		t.Fatalf("expected username %q, got %q", acc.Username, username)
	}

	var n int
	if err := pool.QueryRow(context.Background(),
		`SELECT count(*) FROM link_configs WHERE account_id = $1`, int64(acc.ID),
	).Scan(&n); err != nil {
		t.Fatalf("count links: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 link, got %d", n)
	}
}
