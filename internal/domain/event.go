package domain

import "time"

// Fragment is one unit of transcribed speech delivered by the capture client.
// ReceivedAt is assigned by the server on receipt.
type Fragment struct {
	Account    AccountID
	Text       string
	ReceivedAt time.Time
}

// DispatchEvent signals that a configured keyword matched a fragment.
type DispatchEvent struct {
	Account        AccountID
	LinkID         int
	MatchedKeyword string
	Text           string
	Timestamp      time.Time
}

// LogLine is a live console line pushed to the connected client.
type LogLine struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
}

// AlarmNotice reports a watchdog transition to the connected client.
type AlarmNotice struct {
	Triggered bool
	Timestamp time.Time
}

// Outbound is one message queued for an account's transport. Exactly one of
// the pointer fields is set.
type Outbound struct {
	Log      *LogLine
	Dispatch *DispatchEvent
	Alarm    *AlarmNotice
}

// LogMessage builds an Outbound carrying a console line.
func LogMessage(at time.Time, level LogLevel, message string) Outbound {
	return Outbound{Log: &LogLine{Timestamp: at, Level: level, Message: message}}
}

// DispatchMessage builds an Outbound carrying a dispatch notice.
func DispatchMessage(ev DispatchEvent) Outbound {
	return Outbound{Dispatch: &ev}
}

// AlarmMessage builds an Outbound carrying an alarm notice.
func AlarmMessage(at time.Time, triggered bool) Outbound {
	return Outbound{Alarm: &AlarmNotice{Triggered: triggered, Timestamp: at}}
}

// ActivityEntry is a persisted console line kept for the history view.
type ActivityEntry struct {
	ID        int64
	Account   AccountID
	Level     LogLevel
	Message   string
	Details   map[string]any
	CreatedAt time.Time
}
