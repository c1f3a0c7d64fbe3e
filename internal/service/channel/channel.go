package channel

import (
	"context"
	"sync"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// channel is one generation of an account's connection.
type channel struct {
	account   domain.AccountID
	gen       uint64
	transport Transport
	ip        string

	queue chan domain.Outbound

	once sync.Once
	done chan struct{}
}

// shutdown closes done. It reports true only for the first caller.
func (c *channel) shutdown() bool {
	first := false
	c.once.Do(func() {
		close(c.done)
		first = true
	})
	return first
}

// Handle is the read side's view of the channel it opened.
type Handle struct {
	r  *Registry
	ch *channel
}

// Account returns the account the handle belongs to.
func (h *Handle) Account() domain.AccountID { return h.ch.account }

// Done is closed when the channel is superseded, dropped or closed.
func (h *Handle) Done() <-chan struct{} { return h.ch.done }

// Route forwards an inbound fragment for the handle's account.
func (h *Handle) Route(ctx context.Context, f domain.Fragment) ([]domain.DispatchEvent, error) {
	f.Account = h.ch.account
	return h.r.Route(ctx, f)
}

// Close releases the channel. It has no effect once a newer connection has
// replaced this one.
func (h *Handle) Close(ctx context.Context, reason string) {
	h.r.release(ctx, h.ch, reason)
}
