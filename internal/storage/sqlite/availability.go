package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/freeslots/internal/models"
	"github.com/mmynk/freeslots/internal/storage"
)

const availabilityColumns = `id, group_id, user_id, start_at, end_at, created_at`

// CreateAvailability persists a new availability window.
func (s *SQLiteStore) CreateAvailability(ctx context.Context, entry *models.Availability) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO availability (`+availabilityColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GroupID, entry.UserID,
		toMillis(entry.Start), toMillis(entry.End), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert availability: %w", err)
	}

	return nil
}

// GetAvailability retrieves an availability window by ID.
func (s *SQLiteStore) GetAvailability(ctx context.Context, id string) (*models.Availability, error) {
	var (
		entry      models.Availability
		start, end int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability WHERE id = ?`,
		id,
	).Scan(&entry.ID, &entry.GroupID, &entry.UserID, &start, &end, &entry.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("availability %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	entry.Start = fromMillis(start)
	entry.End = fromMillis(end)
	return &entry, nil
}

// ListUserAvailability retrieves one user's windows for a group, earliest first.
func (s *SQLiteStore) ListUserAvailability(ctx context.Context, groupID, userID string) ([]models.Availability, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability
		 WHERE group_id = ? AND user_id = ?
		 ORDER BY start_at, id`,
		groupID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	return scanAvailability(rows)
}

// DeleteAvailability removes an availability window by ID.
func (s *SQLiteStore) DeleteAvailability(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM availability WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete availability: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deletion: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("availability %s: %w", id, storage.ErrNotFound)
	}

	return nil
}

// GroupAvailability retrieves the group's windows submitted by any of userIDs.
func (s *SQLiteStore) GroupAvailability(ctx context.Context, groupID string, userIDs []string) ([]models.Availability, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(userIDs)+1)
	args = append(args, groupID)
	for _, id := range userIDs {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability
		 WHERE group_id = ? AND user_id IN (`+placeholders(len(userIDs))+`)
		 ORDER BY start_at, id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group availability: %w", err)
	}
	return scanAvailability(rows)
}

func scanAvailability(rows *sql.Rows) ([]models.Availability, error) {
	defer rows.Close()

	var entries []models.Availability
	for rows.Next() {
		var (
			entry      models.Availability
			start, end int64
		)
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.UserID, &start, &end, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan availability: %w", err)
		}
		entry.Start = fromMillis(start)
		entry.End = fromMillis(end)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate availability: %w", err)
	}

	return entries, nil
}
