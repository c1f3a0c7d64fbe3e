// Package channel keeps the single live transport of each account and
// serializes everything written to it.
package channel

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// Transport is one open client connection.
type Transport interface {
	Send(ctx context.Context, msg domain.Outbound) error
	Close(reason string) error
}

type router interface {
	OnFragment(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error)
}

type lifecycle interface {
	Arm(account domain.AccountID)
	Detach(account domain.AccountID)
}

type auditRecorder interface {
	Record(ctx context.Context, entry domain.AuditEntry)
}

// Config tunes per-transport buffering.
type Config struct {
	SendQueueSize int
	WriteTimeout  time.Duration
}

// Close reasons reported to clients and recorded in the audit log.
const (
	ReasonSuperseded = "superseded by a new connection"
	ReasonOverflow   = "send queue overflow"
	ReasonShutdown   = "server shutting down"
	ReasonClosed     = "closed by server"
	ReasonRemoved    = "account removed"
)

// Registry implements the channel registry.
type Registry struct {
	log   *slog.Logger
	cfg   Config
	audit auditRecorder

	router    router
	lifecycle lifecycle

	mu       sync.Mutex
	channels map[domain.AccountID]*channel
	nextGen  uint64

	// connecting serializes Connect per account so a supersede finishes
	// before the next one starts.
	connectMu  sync.Mutex
	connecting map[domain.AccountID]*sync.Mutex

	wg sync.WaitGroup
}

// NewRegistry creates an empty registry. Bind must be called before the
// first Connect.
func NewRegistry(logger *slog.Logger, cfg Config, audit auditRecorder) *Registry {
	if cfg.SendQueueSize <= 0 {
		cfg.SendQueueSize = 256
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	return &Registry{
		log:        logger.With("service", "channel"),
		cfg:        cfg,
		audit:      audit,
		channels:   make(map[domain.AccountID]*channel),
		connecting: make(map[domain.AccountID]*sync.Mutex),
	}
}

// Bind attaches the dispatcher and the watchdog. Both depend on the registry
// as their sink, so they are wired after construction.
func (r *Registry) Bind(router router, lifecycle lifecycle) {
	r.router = router
	r.lifecycle = lifecycle
}

// Connect makes t the account's transport, closing any previous one, and
// arms the account's watchdog. Concurrent Connects for one account run one
// after another.
func (r *Registry) Connect(ctx context.Context, account domain.AccountID, t Transport, ip string) *Handle {
	lock := r.connectLock(account)
	lock.Lock()
	defer lock.Unlock()

	ch := &channel{
		account:   account,
		transport: t,
		ip:        ip,
		queue:     make(chan domain.Outbound, r.cfg.SendQueueSize),
		done:      make(chan struct{}),
	}

	r.mu.Lock()
	r.nextGen++
	ch.gen = r.nextGen
	old := r.channels[account]
	r.channels[account] = ch
	r.mu.Unlock()

	if old != nil {
		r.teardown(ctx, old, ReasonSuperseded)
	}

	r.wg.Add(1)
	go r.writer(ch)

	r.audit.Record(ctx, domain.AuditEntry{
		Account:   account,
		Action:    domain.AuditActionConnect,
		Details:   "channel connected",
		IPAddress: ip,
	})
	r.lifecycle.Arm(account)

	r.log.InfoContext(ctx, "channel connected", "account_id", account, "generation", ch.gen, "ip", ip)
	return &Handle{r: r, ch: ch}
}

func (r *Registry) connectLock(account domain.AccountID) *sync.Mutex {
	r.connectMu.Lock()
	defer r.connectMu.Unlock()

	l, ok := r.connecting[account]
	if !ok {
		l = &sync.Mutex{}
		r.connecting[account] = l
	}
	return l
}

// Disconnect closes the account's current transport, if any. The watchdog
// keeps running.
func (r *Registry) Disconnect(ctx context.Context, account domain.AccountID) {
	r.mu.Lock()
	ch := r.channels[account]
	r.mu.Unlock()

	if ch != nil {
		r.release(ctx, ch, ReasonClosed)
	}
}

// Send queues msg for the account's transport. It never blocks and is a
// no-op when no transport is connected. A full queue disconnects the
// transport.
func (r *Registry) Send(account domain.AccountID, msg domain.Outbound) {
	r.mu.Lock()
	ch := r.channels[account]
	r.mu.Unlock()

	if ch == nil {
		return
	}

	select {
	case <-ch.done:
	case ch.queue <- msg:
	default:
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			r.release(context.Background(), ch, ReasonOverflow)
		}()
	}
}

// Route hands an inbound fragment to the dispatcher.
func (r *Registry) Route(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error) {
	return r.router.OnFragment(ctx, f)
}

// Connected reports whether the account has a live transport.
func (r *Registry) Connected(account domain.AccountID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.channels[account]
	return ok
}

// Count returns the number of live transports.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// Close disconnects every transport and waits for the writers to exit.
func (r *Registry) Close(ctx context.Context) {
	r.mu.Lock()
	all := make([]*channel, 0, len(r.channels))
	for _, ch := range r.channels {
		all = append(all, ch)
	}
	r.mu.Unlock()

	for _, ch := range all {
		r.release(ctx, ch, ReasonShutdown)
	}
	r.wg.Wait()
}

// release removes ch if it is still the account's current channel, then
// tears it down and detaches the watchdog.
func (r *Registry) release(ctx context.Context, ch *channel, reason string) {
	r.mu.Lock()
	current := r.channels[ch.account] == ch
	if current {
		delete(r.channels, ch.account)
	}
	r.mu.Unlock()

	if !current {
		return
	}

	r.teardown(ctx, ch, reason)
	r.lifecycle.Detach(ch.account)
}

// teardown closes the transport and records the disconnect once.
func (r *Registry) teardown(ctx context.Context, ch *channel, reason string) {
	if !ch.shutdown() {
		return
	}

	if err := ch.transport.Close(reason); err != nil {
		r.log.DebugContext(ctx, "transport close", "account_id", ch.account, "error", err)
	}

	r.audit.Record(ctx, domain.AuditEntry{
		Account:   ch.account,
		Action:    domain.AuditActionDisconnect,
		Details:   reason,
		IPAddress: ch.ip,
	})
	r.log.InfoContext(ctx, "channel disconnected",
		"account_id", ch.account,
		"generation", ch.gen,
		"reason", reason,
	)
}

func (r *Registry) writer(ch *channel) {
	defer r.wg.Done()

	for {
		select {
		case <-ch.done:
			return
		case msg := <-ch.queue:
			ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
			err := ch.transport.Send(ctx, msg)
			cancel()

			if err != nil {
				r.log.Warn("channel write failed", "account_id", ch.account, "error", err)
				r.release(context.Background(), ch, "write failed")
				return
			}
		}
	}
}
