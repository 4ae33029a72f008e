package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/payledger/backend/internal/cache"
	"github.com/payledger/backend/internal/models"
)

// UserStorage defines the user persistence the directory needs.
type UserStorage interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

// Directory records identities as they are seen, so that bills can later be
// shared with them by email. Accounts are never created any other way.
//
// An identity recorded within the refresh window is not written again.
type Directory struct {
	storage UserStorage
	seen    *cache.LRU[string] // user id -> email
	now     func() time.Time
}

// NewDirectory creates a directory over storage.
func NewDirectory(storage UserStorage, refresh time.Duration) *Directory {
	return &Directory{
		storage: storage,
		seen:    cache.NewLRU[string](10000, refresh),
		now:     time.Now,
	}
}

// Record upserts the identity unless it was recorded recently with the same email.
func (d *Directory) Record(ctx context.Context, id Identity) error {
	email := strings.ToLower(strings.TrimSpace(id.Email))
	if id.UserID == "" || email == "" {
		return nil
	}
	if last, ok := d.seen.Get(id.UserID); ok && last == email {
		return nil
	}

	now := d.now().UnixMicro()
	err := d.storage.UpsertUser(ctx, &models.User{
		ID:         id.UserID,
		Email:      email,
		CreatedAt:  now,
		LastSeenAt: now,
	})
	if err != nil {
		return fmt.Errorf("failed to record user: %w", err)
	}

	d.seen.Set(id.UserID, email)
	return nil
}
