// Package ws serves the per-account live console over WebSocket.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/channel"
	"github.com/heartmarshall/livecue-backend/pkg/ctxutil"
)

type registry interface {
	Connect(ctx context.Context, account domain.AccountID, t channel.Transport, ip string) *channel.Handle
}

type accountSource interface {
	Verify(ctx context.Context, account domain.AccountID) error
}

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (domain.AccountID, error)
}

// Config tunes accepted connections.
type Config struct {
	ReadLimit      int64
	OriginPatterns []string
}

// Handler upgrades /ws/admin/{account_id} requests into live channels.
type Handler struct {
	log      *slog.Logger
	clock    clockwork.Clock
	cfg      Config
	registry registry
	accounts accountSource
	tokens   tokenValidator
}

// NewHandler creates a Handler.
func NewHandler(
	logger *slog.Logger,
	clock clockwork.Clock,
	cfg Config,
	registry registry,
	accounts accountSource,
	tokens tokenValidator,
) *Handler {
	return &Handler{
		log:      logger.With("handler", "ws"),
		clock:    clock,
		cfg:      cfg,
		registry: registry,
		accounts: accounts,
		tokens:   tokens,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// The connection outlives the server's read and write timeouts.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.cfg.OriginPatterns})
	if err != nil {
		h.log.WarnContext(ctx, "websocket accept failed", slog.String("error", err.Error()))
		return
	}
	if h.cfg.ReadLimit > 0 {
		conn.SetReadLimit(h.cfg.ReadLimit)
	}

	account, status, reason := h.authorize(ctx, r)
	if status != 0 {
		h.log.InfoContext(ctx, "websocket refused",
			slog.String("account", chi.URLParam(r, "account_id")),
			slog.Int("code", int(status)),
			slog.String("reason", reason),
		)
		_ = conn.Close(status, reason)
		return
	}

	ip := ctxutil.ClientIPFromCtx(ctx)
	if ip == "" {
		ip = r.RemoteAddr
	}
	handle := h.registry.Connect(ctx, account, &transport{conn: conn}, ip)
	h.readLoop(ctx, conn, handle)
}

// authorize resolves the path account and checks the query token against it.
// A non-zero status means the connection must be closed with that code.
func (h *Handler) authorize(ctx context.Context, r *http.Request) (domain.AccountID, websocket.StatusCode, string) {
	account, err := domain.ParseAccountID(chi.URLParam(r, "account_id"))
	if err != nil {
		return 0, StatusUnknownAccount, "unknown account"
	}

	if err := h.accounts.Verify(ctx, account); err != nil {
		if errors.Is(err, domain.ErrUnknownAccount) {
			return 0, StatusUnknownAccount, "unknown account"
		}
		h.log.ErrorContext(ctx, "check account", slog.Int64("account", int64(account)), slog.String("error", err.Error()))
		return 0, websocket.StatusInternalError, "internal error"
	}

	owner, err := h.tokens.ValidateToken(ctx, r.URL.Query().Get("token"))
	if err != nil || owner != account {
		return 0, StatusForbidden, "forbidden"
	}
	return account, 0, ""
}

func (h *Handler) readLoop(ctx context.Context, conn *websocket.Conn, handle *channel.Handle) {
	log := h.log.With(slog.Int64("account", int64(handle.Account())))
	var reason string

	// A registry-side close of the transport ends Read.
loop:
	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			reason = readEndReason(err)
			if reason == "read failed" {
				log.DebugContext(ctx, "websocket read ended", slog.String("error", err.Error()))
			}
			break loop
		}
		if typ != websocket.MessageText {
			log.WarnContext(ctx, "ignoring binary message")
			continue
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			log.WarnContext(ctx, "malformed fragment", slog.String("error", err.Error()))
			continue
		}

		f := domain.Fragment{Text: in.Text, ReceivedAt: h.clock.Now()}
		if _, err := handle.Route(ctx, f); err != nil {
			if errors.Is(err, domain.ErrUnknownAccount) {
				reason = channel.ReasonRemoved
				break loop
			}
			log.WarnContext(ctx, "route fragment", slog.String("error", err.Error()))
		}
	}

	handle.Close(context.WithoutCancel(ctx), reason)
}

func readEndReason(err error) string {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return "closed by client"
	default:
		return "read failed"
	}
}
