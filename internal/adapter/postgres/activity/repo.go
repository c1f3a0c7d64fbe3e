// Package activity persists the per-account activity journal shown on the
// console history page.
package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const table = "activity_logs"

// Repo provides activity journal persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new activity repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Create appends an entry and returns its id.
func (r *Repo) Create(ctx context.Context, entry domain.ActivityEntry) (int64, error) {
	var details []byte
	if entry.Details != nil {
		b, err := json.Marshal(entry.Details)
		if err != nil {
			return 0, fmt.Errorf("activity_log marshal details: %w", err)
		}
		details = b
	}

	sql, args, err := postgres.Builder.
		Insert(table).
		Columns("account_id", "level", "message", "details", "created_at").
		Values(int64(entry.Account), string(entry.Level), entry.Message, details, entry.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("activity_log build insert: %w", err)
	}

	var id int64
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, postgres.MapError(err, "activity_log", entry.Account)
	}
	return id, nil
}

// ListByLevel returns the account's entries of one level, newest first.
func (r *Repo) ListByLevel(ctx context.Context, account domain.AccountID, level domain.LogLevel, limit int) ([]domain.ActivityEntry, error) {
	sql, args, err := postgres.Builder.
		Select("id", "account_id", "level", "message", "details", "created_at").
		From(table).
		Where(squirrel.Eq{"account_id": int64(account), "level": string(level)}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("activity_log build select: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "activity_log", account)
	}
	defer rows.Close()

	entries := make([]domain.ActivityEntry, 0, limit)
	for rows.Next() {
		var (
			e         domain.ActivityEntry
			accountID int64
			lvl       string
			details   []byte
		)
		if err := rows.Scan(&e.ID, &accountID, &lvl, &e.Message, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity_log: %w", err)
		}
		e.Account = domain.AccountID(accountID)
		e.Level = domain.LogLevel(lvl)
		if len(details) > 0 {
			if err := json.Unmarshal(details, &e.Details); err != nil {
				return nil, fmt.Errorf("activity_log %d unmarshal details: %w", e.ID, err)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "activity_log", account)
	}

	return entries, nil
}

// CountSince counts the account's entries of one level created at or after since.
func (r *Repo) CountSince(ctx context.Context, account domain.AccountID, level domain.LogLevel, since time.Time) (int, error) {
	sql, args, err := postgres.Builder.
		Select("count(*)").
		From(table).
		Where(squirrel.Eq{"account_id": int64(account), "level": string(level)}).
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("activity_log build count: %w", err)
	}

	var n int
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, postgres.MapError(err, "activity_log", account)
	}
	return n, nil
}
