// Package dispatch matches recognition fragments against an account's
// keywords and pushes the results to the account's live console.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/configstore"
)

// journalTimeout bounds a journal write made while the account's lock is held.
const journalTimeout = 5 * time.Second

type configSource interface {
	Snapshot(ctx context.Context, account domain.AccountID) (*configstore.Snapshot, error)
}

type activityTracker interface {
	Touch(account domain.AccountID, at time.Time)
}

type sink interface {
	Send(account domain.AccountID, msg domain.Outbound)
}

type journal interface {
	Create(ctx context.Context, entry domain.ActivityEntry) (int64, error)
}

// Service implements the keyword dispatcher.
type Service struct {
	log      *slog.Logger
	clock    clockwork.Clock
	config   configSource
	activity activityTracker
	sink     sink
	journal  journal

	mu    sync.Mutex
	locks map[domain.AccountID]*sync.Mutex

	dropped atomic.Uint64
}

// NewService creates a new dispatcher.
func NewService(
	logger *slog.Logger,
	clock clockwork.Clock,
	config configSource,
	activity activityTracker,
	sink sink,
	journal journal,
) *Service {
	return &Service{
		log:      logger.With("service", "dispatch"),
		clock:    clock,
		config:   config,
		activity: activity,
		sink:     sink,
		journal:  journal,
		locks:    make(map[domain.AccountID]*sync.Mutex),
	}
}

// Dropped returns how many fragments were discarded for unknown accounts.
func (s *Service) Dropped() uint64 {
	return s.dropped.Load()
}

// OnFragment processes one fragment: it records activity, pushes a console
// line, and returns one event per (link, keyword) pair found in the text, in
// link id order then keyword order. Fragments of one account are processed
// one at a time.
func (s *Service) OnFragment(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error) {
	if f.ReceivedAt.IsZero() {
		f.ReceivedAt = s.clock.Now()
	}

	snap, err := s.config.Snapshot(ctx, f.Account)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			s.dropped.Add(1)
			s.log.WarnContext(ctx, "fragment dropped", "account_id", f.Account, "dropped_total", s.dropped.Load())
		}
		return nil, fmt.Errorf("dispatch fragment: %w", err)
	}

	lock := s.lockFor(f.Account)
	lock.Lock()
	defer lock.Unlock()

	events := match(snap.Matchers, f)

	s.activity.Touch(f.Account, f.ReceivedAt)
	s.sink.Send(f.Account, domain.LogMessage(f.ReceivedAt, domain.LogLevelInfo, "recognized: "+f.Text))

	for _, ev := range events {
		msg := fmt.Sprintf("dispatched link %d on %q", ev.LinkID, ev.MatchedKeyword)
		s.sink.Send(f.Account, domain.LogMessage(ev.Timestamp, domain.LogLevelSuccess, msg))
		s.sink.Send(f.Account, domain.DispatchMessage(ev))
		s.record(ctx, ev, msg)
	}

	if len(events) > 0 {
		s.log.DebugContext(ctx, "fragment dispatched", "account_id", f.Account, "events", len(events))
	}
	return events, nil
}

func match(matchers []configstore.Matcher, f domain.Fragment) []domain.DispatchEvent {
	text := domain.NormalizeText(f.Text)
	if text == "" {
		return nil
	}

	var events []domain.DispatchEvent
	for _, m := range matchers {
		for i, kw := range m.Normalized {
			if kw == "" || !strings.Contains(text, kw) {
				continue
			}
			events = append(events, domain.DispatchEvent{
				Account:        f.Account,
				LinkID:         m.LinkID,
				MatchedKeyword: m.Keywords[i],
				Text:           f.Text,
				Timestamp:      f.ReceivedAt,
			})
		}
	}
	return events
}

// record stores the dispatch in the activity journal. Failures are logged.
func (s *Service) record(ctx context.Context, ev domain.DispatchEvent, msg string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	_, err := s.journal.Create(ctx, domain.ActivityEntry{
		Account: ev.Account,
		Level:   domain.LogLevelSuccess,
		Message: msg,
		Details: map[string]any{
			"link_id":         ev.LinkID,
			"matched_keyword": ev.MatchedKeyword,
			"text":            ev.Text,
		},
		CreatedAt: ev.Timestamp,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "activity journal write failed",
			"account_id", ev.Account,
			"link_id", ev.LinkID,
			"error", err,
		)
	}
}

func (s *Service) lockFor(account domain.AccountID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[account]
	if !ok {
		l = &sync.Mutex{}
		s.locks[account] = l
	}
	return l
}
