// Package watchdog raises an alarm when an account stops receiving
// recognition fragments for longer than its configured threshold.
package watchdog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

type configSource interface {
	Verify(ctx context.Context, account domain.AccountID) error
	Alarm(ctx context.Context, account domain.AccountID) (domain.AlarmConfig, error)
}

type sink interface {
	Send(account domain.AccountID, msg domain.Outbound)
}

type mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config tunes the evaluation loop shared by all accounts.
type Config struct {
	MinTick        time.Duration
	MaxTick        time.Duration
	ResendInterval time.Duration
	SendTimeout    time.Duration
}

func (c Config) withDefaults() Config {
	if c.MinTick <= 0 {
		c.MinTick = time.Second
	}
	if c.MaxTick <= 0 {
		c.MaxTick = 30 * time.Second
	}
	if c.MaxTick < c.MinTick {
		c.MaxTick = c.MinTick
	}
	if c.ResendInterval <= 0 {
		c.ResendInterval = 5 * time.Minute
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 15 * time.Second
	}
	return c
}

// account is the watchdog slot of one account. mu guards everything except
// connected and kick.
type account struct {
	id        domain.AccountID
	connected atomic.Bool
	kick      chan struct{}

	mu          sync.Mutex
	state       domain.WatchdogState
	episode     uint64
	lastAttempt time.Time
	sending     bool
	delivered   bool
}

// Service implements the alarm watchdog.
type Service struct {
	log    *slog.Logger
	clock  clockwork.Clock
	cfg    Config
	config configSource
	sink   sink
	mailer mailer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	accounts map[domain.AccountID]*account
}

// NewService creates a new watchdog. Call Close to stop every loop.
func NewService(
	logger *slog.Logger,
	clock clockwork.Clock,
	cfg Config,
	config configSource,
	sink sink,
	mailer mailer,
) *Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		log:      logger.With("service", "watchdog"),
		clock:    clock,
		cfg:      cfg.withDefaults(),
		config:   config,
		sink:     sink,
		mailer:   mailer,
		ctx:      ctx,
		cancel:   cancel,
		accounts: make(map[domain.AccountID]*account),
	}
}

// Arm starts tracking an account if it is not tracked yet and marks its
// console as attached. An existing state, including its last activity, is
// kept across reconnects.
func (s *Service) Arm(id domain.AccountID) {
	a := s.ensure(id)
	if a == nil {
		return
	}
	a.connected.Store(true)
}

// Detach marks the account's console as gone. Tracking continues and the
// alarm can still fire.
func (s *Service) Detach(id domain.AccountID) {
	s.mu.Lock()
	a := s.accounts[id]
	s.mu.Unlock()

	if a != nil {
		a.connected.Store(false)
	}
}

// Touch records a processed fragment. It clears a triggered alarm.
func (s *Service) Touch(id domain.AccountID, at time.Time) {
	a := s.ensure(id)
	if a == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if at.After(a.state.LastActivity) {
		a.state.LastActivity = at
	}
	if a.state.Status != domain.WatchdogTriggered {
		return
	}

	a.state.Status = domain.WatchdogArmed
	a.state.TriggeredAt = nil
	a.episode++
	a.lastAttempt = time.Time{}
	a.delivered = false

	s.sink.Send(id, domain.AlarmMessage(at, false))
	s.sink.Send(id, domain.LogMessage(at, domain.LogLevelInfo, "recognition resumed"))
	s.log.Info("alarm cleared", "account_id", id)
}

// Reconfigure asks the account's loop to reload its alarm config and
// recompute its tick period.
func (s *Service) Reconfigure(id domain.AccountID) {
	s.mu.Lock()
	a := s.accounts[id]
	s.mu.Unlock()

	if a == nil {
		return
	}
	select {
	case a.kick <- struct{}{}:
	default:
	}
}

// State returns a copy of the account's watchdog state.
func (s *Service) State(id domain.AccountID) (domain.WatchdogState, bool) {
	s.mu.Lock()
	a := s.accounts[id]
	s.mu.Unlock()

	if a == nil {
		return domain.WatchdogState{}, false
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.state
	if st.TriggeredAt != nil {
		t := *st.TriggeredAt
		st.TriggeredAt = &t
	}
	if st.LastAlarmSent != nil {
		t := *st.LastAlarmSent
		st.LastAlarmSent = &t
	}
	return st, true
}

// Close stops all loops and waits for in-flight emails.
func (s *Service) Close() {
	s.cancel()
	s.wg.Wait()
}

func (s *Service) ensure(id domain.AccountID) *account {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.accounts[id]; ok {
		return a
	}
	if s.ctx.Err() != nil {
		return nil
	}

	a := &account{
		id:   id,
		kick: make(chan struct{}, 1),
		state: domain.WatchdogState{
			LastActivity: s.clock.Now(),
			Status:       domain.WatchdogArmed,
		},
	}
	s.accounts[id] = a

	s.wg.Add(1)
	go s.run(a)

	s.log.Debug("watchdog armed", "account_id", id)
	return a
}

func (s *Service) remove(a *account) {
	s.mu.Lock()
	if s.accounts[a.id] == a {
		delete(s.accounts, a.id)
	}
	s.mu.Unlock()
}

func (s *Service) lookup(id domain.AccountID) *account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[id]
}

func (s *Service) run(a *account) {
	defer s.wg.Done()

	interval, ok := s.tick(a)
	if !ok {
		return
	}
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-a.kick:
		case <-ticker.Chan():
		}

		next, ok := s.tick(a)
		if !ok {
			return
		}
		if next != interval {
			interval = next
			ticker.Reset(interval)
		}
	}
}

// tick confirms the account still exists, loads its alarm config and
// evaluates it once. It returns the period for the next tick, or false when
// the account is gone.
func (s *Service) tick(a *account) (time.Duration, bool) {
	var cfg domain.AlarmConfig
	err := s.config.Verify(s.ctx, a.id)
	if err == nil {
		cfg, err = s.config.Alarm(s.ctx, a.id)
	}
	switch {
	case errors.Is(err, domain.ErrUnknownAccount):
		s.remove(a)
		s.log.Info("watchdog stopped: unknown account", "account_id", a.id)
		return 0, false
	case err != nil:
		if s.ctx.Err() == nil {
			s.log.Error("load alarm config", "account_id", a.id, "error", err)
		}
		return s.interval(domain.DefaultAlarmConfig()), true
	}

	s.evaluate(a, cfg)
	return s.interval(cfg), true
}

// interval is threshold/10 clamped to [MinTick, MaxTick].
func (s *Service) interval(cfg domain.AlarmConfig) time.Duration {
	return min(max(cfg.Threshold()/10, s.cfg.MinTick), s.cfg.MaxTick)
}

func (s *Service) evaluate(a *account, cfg domain.AlarmConfig) {
	now := s.clock.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.Status == domain.WatchdogArmed {
		silence := a.state.Silence(now)
		if silence < cfg.Threshold() {
			return
		}

		a.state.Status = domain.WatchdogTriggered
		triggeredAt := now
		a.state.TriggeredAt = &triggeredAt

		s.sink.Send(a.id, domain.AlarmMessage(now, true))
		s.sink.Send(a.id, domain.LogMessage(now, domain.LogLevelWarning,
			fmt.Sprintf("no recognition for %s", silence.Truncate(time.Second))))
		s.log.Warn("alarm triggered",
			"account_id", a.id,
			"silence", silence,
			"threshold", cfg.Threshold(),
			"connected", a.connected.Load(),
		)
	}

	s.maybeSendLocked(a, cfg, now)
}

// maybeSendLocked starts an alarm email for the current episode unless one
// was delivered, one is in flight, or the previous attempt is too recent.
func (s *Service) maybeSendLocked(a *account, cfg domain.AlarmConfig, now time.Time) {
	if !cfg.EmailNotification || cfg.EmailAddress == "" {
		return
	}
	if a.delivered || a.sending {
		return
	}
	if !a.lastAttempt.IsZero() && now.Sub(a.lastAttempt) < s.cfg.ResendInterval {
		return
	}

	a.sending = true
	a.lastAttempt = now

	msg := alarmEmail{
		account:      a.id,
		to:           cfg.EmailAddress,
		threshold:    cfg.Threshold(),
		lastActivity: a.state.LastActivity,
		triggeredAt:  *a.state.TriggeredAt,
		connected:    a.connected.Load(),
	}

	s.wg.Add(1)
	go s.deliver(a, a.episode, msg)
}

func (s *Service) deliver(a *account, episode uint64, msg alarmEmail) {
	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SendTimeout)
	defer cancel()

	err := s.mailer.Send(ctx, msg.to, msg.subject(), msg.body())
	now := s.clock.Now()

	a.mu.Lock()
	defer a.mu.Unlock()

	a.sending = false
	if err != nil {
		s.log.Error("alarm email failed", "account_id", a.id, "to", msg.to, "error", err)
		s.sink.Send(a.id, domain.LogMessage(now, domain.LogLevelError, "alarm email failed: "+err.Error()))
		return
	}

	sent := now
	a.state.LastAlarmSent = &sent
	if a.episode == episode {
		a.delivered = true
	}
	s.log.Info("alarm email sent", "account_id", a.id, "to", msg.to)
	s.sink.Send(a.id, domain.LogMessage(now, domain.LogLevelInfo, "alarm email sent to "+msg.to))
}
