package ws

import (
	"fmt"
	"time"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

// inbound is a recognition fragment sent by the capture client.
type inbound struct {
	Text string `json:"text"`
}

type logMessage struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

type dispatchMessage struct {
	Type           string    `json:"type"`
	LinkID         int       `json:"link_id"`
	MatchedKeyword string    `json:"matched_keyword"`
	Timestamp      time.Time `json:"timestamp"`
}

type alarmMessage struct {
	Type      string    `json:"type"`
	Triggered bool      `json:"triggered"`
	Timestamp time.Time `json:"timestamp"`
}

// encode converts an outbound message into its tagged wire form.
func encode(msg domain.Outbound) (any, error) {
	switch {
	case msg.Log != nil:
		return logMessage{
			Type:      "log",
			Timestamp: msg.Log.Timestamp,
			Level:     msg.Log.Level.String(),
			Message:   msg.Log.Message,
		}, nil
	case msg.Dispatch != nil:
		return dispatchMessage{
			Type:           "dispatch",
			LinkID:         msg.Dispatch.LinkID,
			MatchedKeyword: msg.Dispatch.MatchedKeyword,
			Timestamp:      msg.Dispatch.Timestamp,
		}, nil
	case msg.Alarm != nil:
		return alarmMessage{
			Type:      "alarm",
			Triggered: msg.Alarm.Triggered,
			Timestamp: msg.Alarm.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("ws.encode: empty message")
	}
}
