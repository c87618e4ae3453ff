package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/freeslots/internal/models"
	"github.com/mmynk/freeslots/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "freeslots-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func window(day, startHour, endHour int) (time.Time, time.Time) {
	base := time.Date(2024, 6, day, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration(startHour) * time.Hour), base.Add(time.Duration(endHour) * time.Hour)
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "")

	t.Run("CreateUser rejects duplicate email", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash")
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("GetUserByEmail and GetUserByID", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != alice.ID {
			t.Errorf("ID mismatch: got %s, want %s", byEmail.ID, alice.ID)
		}

		byID, err := store.GetUserByID(ctx, bob.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "bob@example.com" {
			t.Errorf("Email mismatch: got %s", byID.Email)
		}

		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateGroup makes creator a member", func(t *testing.T) {
		group := &models.Group{Name: "Study Group", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		ids, err := store.GroupMemberIDs(ctx, group.ID)
		if err != nil {
			t.Fatalf("GroupMemberIDs failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != alice.ID {
			t.Errorf("member ids = %v, want [%s]", ids, alice.ID)
		}
	})

	t.Run("CreateGroup rejects same name from same creator", func(t *testing.T) {
		first := &models.Group{Name: "Band", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, first); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		second := &models.Group{Name: "Band", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, second); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("expected ErrDuplicate, got %v", err)
		}

		other := &models.Group{Name: "Band", CreatedBy: bob.ID}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Errorf("same name from another creator should succeed: %v", err)
		}
	})

	t.Run("GetGroup returns ErrNotFound for nonexistent group", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("AddMember is idempotent", func(t *testing.T) {
		group := &models.Group{Name: "Hiking", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		for i := 0; i < 2; i++ {
			if err := store.AddMember(ctx, group.ID, bob.ID); err != nil {
				t.Fatalf("AddMember #%d failed: %v", i+1, err)
			}
		}

		members, err := store.ListMembers(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListMembers failed: %v", err)
		}
		if len(members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(members))
		}
		// Bob has no display name, so the email is used.
		labels := map[string]string{}
		for _, m := range members {
			labels[m.UserID] = m.Name
		}
		if labels[alice.ID] != "Alice" || labels[bob.ID] != "bob@example.com" {
			t.Errorf("unexpected labels: %v", labels)
		}

		isMember, err := store.IsMember(ctx, group.ID, bob.ID)
		if err != nil || !isMember {
			t.Errorf("IsMember = %v, %v; want true", isMember, err)
		}

		groups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		found := false
		for _, g := range groups {
			if g.ID == group.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("ListGroupsForUser(bob) missing %s", group.ID)
		}
	})

	t.Run("Availability round trip", func(t *testing.T) {
		group := &models.Group{Name: "Board Games", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.AddMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		start, end := window(10, 13, 15)
		late := &models.Availability{UserID: alice.ID, GroupID: group.ID, Start: start, End: end}
		start, end = window(10, 9, 11)
		early := &models.Availability{UserID: alice.ID, GroupID: group.ID, Start: start, End: end}
		start, end = window(10, 10, 14)
		bobs := &models.Availability{UserID: bob.ID, GroupID: group.ID, Start: start, End: end}

		for _, entry := range []*models.Availability{late, early, bobs} {
			if err := store.CreateAvailability(ctx, entry); err != nil {
				t.Fatalf("CreateAvailability failed: %v", err)
			}
			if entry.ID == "" {
				t.Error("Expected availability ID to be generated")
			}
		}

		own, err := store.ListUserAvailability(ctx, group.ID, alice.ID)
		if err != nil {
			t.Fatalf("ListUserAvailability failed: %v", err)
		}
		if len(own) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(own))
		}
		if own[0].ID != early.ID {
			t.Errorf("entries not ordered by start: first is %s", own[0].ID)
		}
		if !own[0].Start.Equal(early.Start) || !own[0].End.Equal(early.End) {
			t.Errorf("instants changed in storage: got %v-%v", own[0].Start, own[0].End)
		}

		all, err := store.GroupAvailability(ctx, group.ID, []string{alice.ID, bob.ID})
		if err != nil {
			t.Fatalf("GroupAvailability failed: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 entries, got %d", len(all))
		}

		onlyBob, err := store.GroupAvailability(ctx, group.ID, []string{bob.ID})
		if err != nil {
			t.Fatalf("GroupAvailability failed: %v", err)
		}
		if len(onlyBob) != 1 || onlyBob[0].UserID != bob.ID {
			t.Errorf("expected only bob's entry, got %v", onlyBob)
		}

		got, err := store.GetAvailability(ctx, bobs.ID)
		if err != nil {
			t.Fatalf("GetAvailability failed: %v", err)
		}
		if got.UserID != bob.ID || got.GroupID != group.ID {
			t.Errorf("GetAvailability = %+v", got)
		}

		if err := store.DeleteAvailability(ctx, late.ID); err != nil {
			t.Fatalf("DeleteAvailability failed: %v", err)
		}
		if err := store.DeleteAvailability(ctx, late.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second delete: expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateAvailability rejects non-members", func(t *testing.T) {
		group := &models.Group{Name: "Private", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		start, end := window(10, 9, 10)
		err := store.CreateAvailability(ctx, &models.Availability{UserID: bob.ID, GroupID: group.ID, Start: start, End: end})
		if err == nil {
			t.Error("expected foreign key failure for non-member availability")
		}
	})

	t.Run("RemoveMember cascades availability and drops empty group", func(t *testing.T) {
		group := &models.Group{Name: "Short Lived", CreatedBy: alice.ID}
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if err := store.AddMember(ctx, group.ID, bob.ID); err != nil {
			t.Fatalf("AddMember failed: %v", err)
		}

		start, end := window(11, 9, 10)
		entry := &models.Availability{UserID: bob.ID, GroupID: group.ID, Start: start, End: end}
		if err := store.CreateAvailability(ctx, entry); err != nil {
			t.Fatalf("CreateAvailability failed: %v", err)
		}

		deleted, err := store.RemoveMember(ctx, group.ID, bob.ID)
		if err != nil {
			t.Fatalf("RemoveMember(bob) failed: %v", err)
		}
		if deleted {
			t.Error("group should survive while alice is a member")
		}
		if _, err := store.GetAvailability(ctx, entry.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("bob's availability should cascade, got %v", err)
		}

		if _, err := store.RemoveMember(ctx, group.ID, bob.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("removing a non-member: expected ErrNotFound, got %v", err)
		}

		deleted, err = store.RemoveMember(ctx, group.ID, alice.ID)
		if err != nil {
			t.Fatalf("RemoveMember(alice) failed: %v", err)
		}
		if !deleted {
			t.Error("expected group to be deleted with its last member")
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected group to be gone, got %v", err)
		}
	})

	t.Run("GroupMemberIDs of unknown group is empty", func(t *testing.T) {
		ids, err := store.GroupMemberIDs(ctx, "nonexistent-id")
		if err != nil {
			t.Fatalf("GroupMemberIDs failed: %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("expected no members, got %v", ids)
		}
	})
}

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "?"},
		{3, "?, ?, ?"},
	}

	for _, tt := range tests {
		if got := placeholders(tt.n); got != tt.want {
			t.Errorf("placeholders(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
