package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

// CreateDashboardToken persists a token digest and its bound scope.
func (s *Store) CreateDashboardToken(ctx context.Context, t *models.DashboardToken) error {
	if t.CreatedAt == 0 {
		t.CreatedAt = s.nowMicro()
	}

	_, err := s.exec(ctx,
		`INSERT INTO dashboard_tokens (digest, user_id, month, year, created_at, expires_at, revoked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Digest, t.UserID, t.Month, t.Year, t.CreatedAt, t.ExpiresAt, t.RevokedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dashboard token: %w", err)
	}
	return nil
}

// GetDashboardToken retrieves a token by exact digest match.
func (s *Store) GetDashboardToken(ctx context.Context, digest string) (*models.DashboardToken, error) {
	t := &models.DashboardToken{}
	err := s.queryRow(ctx,
		`SELECT digest, user_id, month, year, created_at, expires_at, revoked_at
		 FROM dashboard_tokens WHERE digest = ?`,
		digest,
	).Scan(&t.Digest, &t.UserID, &t.Month, &t.Year, &t.CreatedAt, &t.ExpiresAt, &t.RevokedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("dashboard token: %w", storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard token: %w", err)
	}
	return t, nil
}

// RevokeDashboardToken stamps revoked_at once; later calls keep the first timestamp.
func (s *Store) RevokeDashboardToken(ctx context.Context, digest, userID string, revokedAt int64) error {
	res, err := s.exec(ctx,
		`UPDATE dashboard_tokens
		 SET revoked_at = CASE WHEN revoked_at = 0 THEN ? ELSE revoked_at END
		 WHERE digest = ? AND user_id = ?`,
		revokedAt, digest, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke dashboard token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check revoked rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("dashboard token: %w", storage.ErrNotFound)
	}
	return nil
}
