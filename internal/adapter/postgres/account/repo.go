// Package account implements the Account repository using PostgreSQL.
package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const table = "accounts"

var columns = []string{"id", "username", "password_hash", "is_active", "created_at"}

// Repo provides account persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new account repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns an account by primary key.
func (r *Repo) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	query := postgres.Builder.Select(columns...).From(table).Where(squirrel.Eq{"id": int64(id)})
	return r.getOne(ctx, query, id)
}

// GetByUsername returns an account by its login name.
func (r *Repo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	query := postgres.Builder.Select(columns...).From(table).Where(squirrel.Eq{"username": username})
	return r.getOne(ctx, query, username)
}

// Exists reports whether an active account with the given id exists.
func (r *Repo) Exists(ctx context.Context, id domain.AccountID) (bool, error) {
	sql, args, err := postgres.Builder.
		Select("1").
		Prefix("SELECT EXISTS (").
		From(table).
		Where(squirrel.Eq{"id": int64(id), "is_active": true}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("account.Exists build: %w", err)
	}

	var ok bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).Scan(&ok); err != nil {
		return false, postgres.MapError(err, "account", id)
	}
	return ok, nil
}

// Create inserts a new account and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, username, passwordHash string) (domain.Account, error) {
	query := postgres.Builder.
		Insert(table).
		Columns("username", "password_hash").
		Values(username, passwordHash).
		Suffix("RETURNING " + strings.Join(columns, ", "))
	return r.getOne(ctx, query, username)
}

// Delete removes an account. Owned link and alarm configs cascade.
func (r *Repo) Delete(ctx context.Context, id domain.AccountID) error {
	sql, args, err := postgres.Builder.Delete(table).Where(squirrel.Eq{"id": int64(id)}).ToSql()
	if err != nil {
		return fmt.Errorf("account.Delete build: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...)
	if err != nil {
		return postgres.MapError(err, "account", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %v: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *Repo) getOne(ctx context.Context, query squirrel.Sqlizer, key any) (domain.Account, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return domain.Account{}, fmt.Errorf("account build query: %w", err)
	}

	row := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...)
	acc, err := scanAccount(row)
	if err != nil {
		return domain.Account{}, postgres.MapError(err, "account", key)
	}
	return acc, nil
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		acc domain.Account
		id  int64
	)
	if err := row.Scan(&id, &acc.Username, &acc.PasswordHash, &acc.IsActive, &acc.CreatedAt); err != nil {
		return domain.Account{}, err
	}
	acc.ID = domain.AccountID(id)
	return acc, nil
}
