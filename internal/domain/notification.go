package domain

import "time"

// Notification is an append-only workflow alert for one user. Only the read
// flag ever changes after creation.
type Notification struct {
	ID           string
	UserID       string
	TicketID     string
	TicketSerial string
	Message      string
	Read         bool
	CreatedAt    time.Time
}
