package ws

import (
	"context"
	"fmt"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/heartmarshall/livecue-backend/internal/domain"
	"github.com/heartmarshall/livecue-backend/internal/service/channel"
)

// Close codes sent when the handshake is refused or the account goes away.
const (
	StatusUnknownAccount websocket.StatusCode = 4001
	StatusForbidden      websocket.StatusCode = 4003
)

// transport adapts a websocket connection to channel.Transport.
type transport struct {
	conn *websocket.Conn
}

func (t *transport) Send(ctx context.Context, msg domain.Outbound) error {
	v, err := encode(msg)
	if err != nil {
		return err
	}
	if err := wsjson.Write(ctx, t.conn, v); err != nil {
		return fmt.Errorf("ws.Send: %w: %w", domain.ErrTransport, err)
	}
	return nil
}

func (t *transport) Close(reason string) error {
	return t.conn.Close(closeStatus(reason), reason)
}

func closeStatus(reason string) websocket.StatusCode {
	switch reason {
	case channel.ReasonSuperseded, channel.ReasonOverflow:
		return websocket.StatusPolicyViolation
	case channel.ReasonShutdown:
		return websocket.StatusGoingAway
	case channel.ReasonRemoved:
		return StatusUnknownAccount
	default:
		return websocket.StatusNormalClosure
	}
}
