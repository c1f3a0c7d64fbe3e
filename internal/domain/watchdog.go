package domain

import "time"

// WatchdogState is the silence detector state of one account.
type WatchdogState struct {
	LastActivity  time.Time
	Status        WatchdogStatus
	TriggeredAt   *time.Time
	LastAlarmSent *time.Time
}

// Silence returns how long the account has gone without a fragment.
func (s WatchdogState) Silence(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}
