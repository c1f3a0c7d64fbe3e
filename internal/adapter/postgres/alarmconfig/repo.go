// Package alarmconfig persists the per-account silence alarm settings.
package alarmconfig

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	postgres "github.com/heartmarshall/livecue-backend/internal/adapter/postgres"
	"github.com/heartmarshall/livecue-backend/internal/domain"
)

const table = "alarm_configs"

// Repo provides alarm config persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new alarm config repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Get returns the stored alarm config. Accounts that never saved one
// yield domain.ErrNotFound; callers fall back to domain.DefaultAlarmConfig.
func (r *Repo) Get(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error) {
	sql, args, err := postgres.Builder.
		Select("no_recognition_threshold", "email_notification", "email_address").
		From(table).
		Where(squirrel.Eq{"account_id": int64(account)}).
		ToSql()
	if err != nil {
		return domain.AlarmConfig{}, fmt.Errorf("alarmconfig.Get build: %w", err)
	}

	var cfg domain.AlarmConfig
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, sql, args...).
		Scan(&cfg.NoRecognitionThreshold, &cfg.EmailNotification, &cfg.EmailAddress)
	if err != nil {
		return domain.AlarmConfig{}, postgres.MapError(err, "alarm_config", account)
	}
	return cfg, nil
}

// Upsert stores cfg as the account's alarm config, replacing any previous row.
func (r *Repo) Upsert(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error {
	sql, args, err := postgres.Builder.
		Insert(table).
		Columns("account_id", "no_recognition_threshold", "email_notification", "email_address").
		Values(int64(account), cfg.NoRecognitionThreshold, cfg.EmailNotification, cfg.EmailAddress).
		Suffix(`ON CONFLICT (account_id) DO UPDATE SET
			no_recognition_threshold = EXCLUDED.no_recognition_threshold,
			email_notification = EXCLUDED.email_notification,
			email_address = EXCLUDED.email_address,
			updated_at = now()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("alarmconfig.Upsert build: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, sql, args...); err != nil {
		return postgres.MapError(err, "alarm_config", account)
	}
	return nil
}
