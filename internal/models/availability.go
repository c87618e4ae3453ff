package models

import "time"

// Availability is one free-time window submitted by a user for a group.
// Entries are removed by their owner or cascaded when the owner leaves the group.
type Availability struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// UserID is the member who submitted the window.
	UserID string

	// GroupID is the group the window was submitted for.
	GroupID string

	// Start is the first instant of the window.
	Start time.Time

	// End is the instant the window closes. Always after Start.
	End time.Time

	// CreatedAt is the Unix timestamp when the entry was submitted.
	CreatedAt int64
}
