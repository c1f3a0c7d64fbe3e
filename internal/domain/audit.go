package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an immutable record of an administrative or connection event.
type AuditEntry struct {
	ID        uuid.UUID
	Timestamp time.Time
	Account   AccountID
	Action    AuditAction
	Details   string
	IPAddress string
}
