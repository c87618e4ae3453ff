// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/freeslots/internal/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a uniqueness rule would be violated.
	ErrDuplicate = errors.New("already exists")
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound when no account uses email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// GroupStore persists groups and their memberships.
type GroupStore interface {
	// CreateGroup persists a group and makes its creator the first member.
	// The ID and CreatedAt fields are populated by the store. Returns
	// ErrDuplicate when the creator already owns a group with the same name.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns ErrNotFound when the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember adds userID to the group. Adding an existing member is a no-op.
	AddMember(ctx context.Context, groupID, userID string) error

	// RemoveMember removes userID from the group together with the user's
	// availability for it, and deletes the group once nobody is left.
	// Reports whether the group was deleted.
	RemoveMember(ctx context.Context, groupID, userID string) (bool, error)

	// IsMember reports whether userID belongs to the group.
	IsMember(ctx context.Context, groupID, userID string) (bool, error)

	// ListMembers returns the members of the group in join order.
	ListMembers(ctx context.Context, groupID string) ([]models.Member, error)

	// GroupMemberIDs returns the user IDs of every member of the group.
	GroupMemberIDs(ctx context.Context, groupID string) ([]string, error)
}

// AvailabilityStore persists submitted availability windows.
type AvailabilityStore interface {
	// CreateAvailability persists a window. ID and CreatedAt are populated by the store.
	CreateAvailability(ctx context.Context, entry *models.Availability) error

	// GetAvailability returns ErrNotFound when the entry does not exist.
	GetAvailability(ctx context.Context, id string) (*models.Availability, error)

	// ListUserAvailability returns userID's entries for the group ordered by start.
	ListUserAvailability(ctx context.Context, groupID, userID string) ([]models.Availability, error)

	// DeleteAvailability returns ErrNotFound when the entry does not exist.
	DeleteAvailability(ctx context.Context, id string) error

	// GroupAvailability returns the group's entries submitted by any of userIDs.
	GroupAvailability(ctx context.Context, groupID string, userIDs []string) ([]models.Availability, error)
}

// Store defines every storage operation used by the services.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	AvailabilityStore

	// Close releases any resources held by the store.
	Close() error
}
