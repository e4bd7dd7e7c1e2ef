package entities

import "time"

// Severity classifies a notification entry.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// NotificationEntry is one record in the bounded notification feed.
// IDs are assigned monotonically by the feed and never reused.
type NotificationEntry struct {
	ID        uint64    `json:"id"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	CreatedAt time.Time `json:"created_at"`
}
