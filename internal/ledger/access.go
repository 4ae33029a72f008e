package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/payledger/backend/internal/events"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

// Authorize returns the strongest role userID holds on billID.
// A user without any link gets ErrNotFound: the bill is invisible to them.
func (l *Ledger) Authorize(ctx context.Context, userID, billID string) (models.Role, error) {
	if userID == "" {
		return "", invalid("user_id", "required")
	}
	if billID == "" {
		return "", invalid("bill_id", "required")
	}

	roles, err := l.store.GetBillRoles(ctx, billID, userID)
	if err != nil {
		return "", fmt.Errorf("failed to load roles: %w", err)
	}
	role := models.Strongest(roles)
	if role == "" {
		return "", fmt.Errorf("bill %s: %w", billID, ErrNotFound)
	}
	return role, nil
}

// ShareBill grants the user behind email viewer access to billID.
// Sharing the same bill with the same user again returns the existing link.
func (l *Ledger) ShareBill(ctx context.Context, billID, ownerID, email string) (*models.BillUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, invalid("email", "must be an email address")
	}

	role, err := l.Authorize(ctx, ownerID, billID)
	if err != nil {
		return nil, err
	}
	if !role.Capabilities().Share {
		return nil, fmt.Errorf("%s cannot share bill %s: %w", role, billID, ErrDenied)
	}

	target, err := l.store.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	link := &models.BillUser{
		BillID:    billID,
		UserID:    target.ID,
		Role:      models.RoleViewer,
		CreatedAt: l.nowMicro(),
	}
	if err := l.store.LinkBillUser(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to share bill: %w", err)
	}

	slog.Info("Bill shared", "bill_id", billID, "owner_id", ownerID, "user_id", target.ID, "role", link.Role)
	l.publish(ctx, events.Event{
		Type:   events.BillShared,
		UserID: ownerID,
		Key:    billID,
		Data:   map[string]string{"user_id": target.ID, "role": string(link.Role)},
	})
	return link, nil
}

// UnshareBill removes the viewer link of targetUserID on billID.
// Owner links cannot be removed this way.
func (l *Ledger) UnshareBill(ctx context.Context, billID, ownerID, targetUserID string) error {
	if targetUserID == "" {
		return invalid("user_id", "required")
	}

	role, err := l.Authorize(ctx, ownerID, billID)
	if err != nil {
		return err
	}
	if !role.Capabilities().RemoveViewer {
		return fmt.Errorf("%s cannot remove viewers from bill %s: %w", role, billID, ErrDenied)
	}

	roles, err := l.store.GetBillRoles(ctx, billID, targetUserID)
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}
	switch models.Strongest(roles) {
	case "":
		return fmt.Errorf("user %s on bill %s: %w", targetUserID, billID, ErrNotFound)
	case models.RoleViewer:
	default:
		return fmt.Errorf("only viewer links can be removed: %w", ErrDenied)
	}

	if err := l.store.DeleteBillUser(ctx, billID, targetUserID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("user %s on bill %s: %w", targetUserID, billID, ErrNotFound)
		}
		return fmt.Errorf("failed to unshare bill: %w", err)
	}

	slog.Info("Bill unshared", "bill_id", billID, "owner_id", ownerID, "user_id", targetUserID)
	return nil
}
