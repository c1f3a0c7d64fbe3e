package watchdog

import (
	"fmt"
	"strings"
	"time"

	"github.com/heartmarshall/livecue-backend/internal/domain"
)

type alarmEmail struct {
	account      domain.AccountID
	to           string
	threshold    time.Duration
	lastActivity time.Time
	triggeredAt  time.Time
	connected    bool
}

func (m alarmEmail) subject() string {
	return fmt.Sprintf("LiveCue alarm: no recognition for %s", m.threshold)
}

func (m alarmEmail) body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "No speech was recognized for account %s for at least %s.\n\n", m.account, m.threshold)
	fmt.Fprintf(&b, "Last recognition: %s\n", m.lastActivity.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Alarm raised:     %s\n", m.triggeredAt.UTC().Format(time.RFC3339))
	if m.connected {
		b.WriteString("Capture client:   connected\n")
	} else {
		b.WriteString("Capture client:   disconnected\n")
	}
	b.WriteString("\nCheck the microphone and the capture client.\n")
	return b.String()
}
