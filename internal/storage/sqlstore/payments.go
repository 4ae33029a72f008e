package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/payledger/backend/internal/models"
)

const paymentColumns = "id, user_id, bill_id, bill_type, amount, paid_on, month, year, notes, account_number, created_at"

// CreatePayment appends a payment row.
func (s *Store) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = s.nowMicro()
	}

	_, err := s.exec(ctx,
		"INSERT INTO payments ("+paymentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.UserID, p.BillID, p.BillType, p.Amount, p.PaidOn, p.Month, p.Year,
		p.Notes, p.AccountNumber, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// ListPayments returns a user's payments, optionally restricted to one period.
func (s *Store) ListPayments(ctx context.Context, userID string, period *models.Period) ([]models.Payment, error) {
	query := "SELECT " + paymentColumns + " FROM payments WHERE user_id = ?"
	args := []any{userID}
	if period != nil {
		query += " AND month = ? AND year = ?"
		args = append(args, period.Month, period.Year)
	}
	query += " ORDER BY created_at, id"

	rows, err := s.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.BillID, &p.BillType, &p.Amount, &p.PaidOn,
			&p.Month, &p.Year, &p.Notes, &p.AccountNumber, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
