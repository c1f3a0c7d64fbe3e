package configstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/validate"
	"github.com/heartmarshall/livecue-backend/pkg/ctxutil"
)

// ReplaceLinks swaps the account's whole link list. Invalid input returns a
// *domain.ValidationError and leaves the stored list untouched.
func (s *Service) ReplaceLinks(ctx context.Context, account domain.AccountID, links []domain.LinkConfig) error {
	if err := domain.ValidateLinks(links); err != nil {
		return err
	}
	cleaned := trimLinks(links)

	e := s.entry(account)
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, err := s.loadLocked(ctx, account, e)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.links.Replace(ctx, account, cleaned)
	})
	if err != nil {
		s.forgetIfGone(account, err)
		return fmt.Errorf("replace links: %w", err)
	}

	e.snap.Store(NewSnapshot(cleaned, prev.Alarm))

	s.log.InfoContext(ctx, "links replaced", "account_id", account, "links", len(cleaned))
	s.audit.Record(ctx, domain.AuditEntry{
		ID:        uuid.New(),
		Account:   account,
		Action:    domain.AuditActionConfigUpdate,
		Details:   diffLinks(prev.Links, cleaned),
		IPAddress: ctxutil.ClientIPFromCtx(ctx),
	})
	return nil
}

// ReplaceAlarmConfig swaps the account's alarm config. Invalid input returns a
// *domain.ValidationError and leaves the stored config untouched. A changed
// threshold is picked up by the watchdog on its next tick.
func (s *Service) ReplaceAlarmConfig(ctx context.Context, account domain.AccountID, cfg domain.AlarmConfig) error {
	cfg.EmailAddress = strings.TrimSpace(cfg.EmailAddress)
	if err := validate.Struct(cfg); err != nil {
		return err
	}

	e := s.entry(account)
	e.mu.Lock()
	defer e.mu.Unlock()

	prev, err := s.loadLocked(ctx, account, e)
	if err != nil {
		return err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.alarms.Upsert(ctx, account, cfg)
	})
	if err != nil {
		s.forgetIfGone(account, err)
		return fmt.Errorf("replace alarm config: %w", err)
	}

	next := *prev
	next.Alarm = cfg
	e.snap.Store(&next)

	s.log.InfoContext(ctx, "alarm config replaced",
		"account_id", account,
		"threshold_s", cfg.NoRecognitionThreshold,
		"email", cfg.EmailNotification,
	)
	s.audit.Record(ctx, domain.AuditEntry{
		ID:        uuid.New(),
		Account:   account,
		Action:    domain.AuditActionAlarmConfigUpdate,
		Details:   diffAlarm(prev.Alarm, cfg),
		IPAddress: ctxutil.ClientIPFromCtx(ctx),
	})
	s.notifyAlarmChange(account)
	return nil
}

// forgetIfGone drops the cache when a write found the account deleted.
func (s *Service) forgetIfGone(account domain.AccountID, err error) {
	if errors.Is(err, domain.ErrUnknownAccount) {
		s.Forget(account)
	}
}

func trimLinks(links []domain.LinkConfig) []domain.LinkConfig {
	out := make([]domain.LinkConfig, len(links))
	for i, l := range links {
		c := l.Clone()
		for j := range c.Keywords {
			c.Keywords[j] = strings.TrimSpace(c.Keywords[j])
		}
		out[i] = c
	}
	return out
}
