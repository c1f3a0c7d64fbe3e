// Package audit implements the Audit repository using PostgreSQL.
// It provides append-only operations for audit log records.
package audit

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const table = "audit_logs"

// Repo provides audit log persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new audit repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create appends one audit entry.
func (r *Repo) Create(ctx context.Context, entry domain.AuditEntry) error {
	if entry.ID == uuid.Nil {
		return fmt.Errorf("audit_log: %w", domain.NewValidationError("id", "required"))
	}
	if !entry.Action.IsValid() {
		return fmt.Errorf("audit_log %s: %w", entry.ID, domain.NewValidationError("action", "unknown action"))
	}

	sql, args, err := postgres.Builder.
		Insert(table).
		Columns("id", "account_id", "action", "details", "ip_address", "created_at").
		Values(entry.ID, int64(entry.Account), string(entry.Action), entry.Details, entry.IPAddress, entry.Timestamp).
		ToSql()
	if err != nil {
		return fmt.Errorf("audit_log build insert: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "audit_log", entry.ID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListByAccount returns the account's audit entries, newest first.
func (r *Repo) ListByAccount(ctx context.Context, account domain.AccountID, limit int) ([]domain.AuditEntry, error) {
	sql, args, err := postgres.Builder.
		Select("id", "account_id", "action", "details", "ip_address", "created_at").
		From(table).
		Where(squirrel.Eq{"account_id": int64(account)}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("audit_log build select: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit_logs by account: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var (
			e         domain.AuditEntry
			accountID int64
			action    string
		)
		if err := rows.Scan(&e.ID, &accountID, &action, &e.Details, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit_log: %w", err)
		}
		e.Account = domain.AccountID(accountID)
		e.Action = domain.AuditAction(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list audit_logs by account: %w", err)
	}

	return entries, nil
}
