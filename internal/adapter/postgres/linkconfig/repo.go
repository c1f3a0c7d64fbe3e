// Package linkconfig persists the keyword-to-link table of each account.
package linkconfig

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const table = "link_configs"

// Repo provides link config persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new link config repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// List returns the account's links in the order they were last saved.
func (r *Repo) List(ctx context.Context, account domain.AccountID) ([]domain.LinkConfig, error) {
	sql, args, err := postgres.Builder.
		Select("link_id", "keywords").
		From(table).
		Where(squirrel.Eq{"account_id": int64(account)}).
		OrderBy("position ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("linkconfig.List build: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "link_config", account)
	}
	defer rows.Close()

	links := make([]domain.LinkConfig, 0)
	for rows.Next() {
		var l domain.LinkConfig
		if err := rows.Scan(&l.ID, &l.Keywords); err != nil {
			return nil, postgres.MapError(err, "link_config", account)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "link_config", account)
	}

	return links, nil
}

// Replace deletes every stored link of the account and inserts links in order.
// Callers run it inside a transaction so readers never observe a partial table.
func (r *Repo) Replace(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	sql, args, err := postgres.Builder.Delete(table).Where(squirrel.Eq{"account_id": int64(account)}).ToSql()
	if err != nil {
		return fmt.Errorf("linkconfig.Replace build delete: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "link_config", account)
	}

	if len(links) == 0 {
		return nil
	}

	insert := postgres.Builder.Insert(table).Columns("account_id", "link_id", "position", "keywords")
	for i, l := range links {
		insert = insert.Values(int64(account), l.ID, i, l.Keywords)
	}

	sql, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("linkconfig.Replace build insert: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "link_config", account)
	}

	return nil
}
