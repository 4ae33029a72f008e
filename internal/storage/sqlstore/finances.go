package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

// UpsertMonthlyFinance writes the record with a single conditional statement,
// so concurrent writers to the same key resolve as last-write-wins.
func (s *Store) UpsertMonthlyFinance(ctx context.Context, f *models.MonthlyFinance) error {
	if f.UpdatedAt == 0 {
		f.UpdatedAt = s.nowMicro()
	}

	_, err := s.exec(ctx,
		`INSERT INTO monthly_finances (user_id, month, year, money_received, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, month, year) DO UPDATE
		 SET money_received = excluded.money_received, updated_at = excluded.updated_at`,
		f.UserID, f.Month, f.Year, f.MoneyReceived, f.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly finance: %w", err)
	}
	return nil
}

// GetMonthlyFinance retrieves the record for (userID, period).
func (s *Store) GetMonthlyFinance(ctx context.Context, userID string, period models.Period) (*models.MonthlyFinance, error) {
	f := &models.MonthlyFinance{}
	err := s.queryRow(ctx,
		`SELECT user_id, month, year, money_received, updated_at
		 FROM monthly_finances WHERE user_id = ? AND month = ? AND year = ?`,
		userID, period.Month, period.Year,
	).Scan(&f.UserID, &f.Month, &f.Year, &f.MoneyReceived, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("monthly finance %s: %w", period.Label(), storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get monthly finance: %w", err)
	}
	return f, nil
}
