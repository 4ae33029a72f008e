package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

// UpsertUser records a sign-in. The first call creates the user.
// An email belongs to the subject that signed in with it most recently: when
// the identity provider hands it to a new subject, the older row is released.
func (s *Store) UpsertUser(ctx context.Context, user *models.User) error {
	now := s.nowMicro()
	if user.CreatedAt == 0 {
		user.CreatedAt = now
	}
	if user.LastSeenAt == 0 {
		user.LastSeenAt = now
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, s.rebind(`DELETE FROM users WHERE email = ? AND id <> ?`), user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("failed to release email: %w", err)
	}

	query := `
		INSERT INTO users (id, email, created_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE
		SET email = excluded.email, last_seen_at = excluded.last_seen_at
	`
	_, err = tx.ExecContext(ctx, s.rebind(query), user.ID, user.Email, user.CreatedAt, user.LastSeenAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, created_at, last_seen_at
		FROM users
		WHERE email = ?
	`

	user := &models.User{}
	err := s.queryRow(ctx, query, strings.ToLower(strings.TrimSpace(email))).Scan(
		&user.ID,
		&user.Email,
		&user.CreatedAt,
		&user.LastSeenAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user with email %q: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}
