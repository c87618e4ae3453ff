package models

// Group represents a set of people coordinating a common free time.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Study Group", "Band Practice").
	// A creator cannot own two groups with the same name.
	Name string

	// CreatedBy is the user ID of the creator.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership links a user to a group. Every member must be free for a
// slot to count as resolved.
type Membership struct {
	GroupID  string
	UserID   string
	JoinedAt int64
}

// Member is a group member as shown to other members.
type Member struct {
	UserID string
	Name   string
}
