// Package sharing issues and resolves dashboard tokens: opaque capabilities
// that give an unauthenticated viewer a read-only summary of one user's
// ledger for one period.
//
// Tokens are 32 random bytes, base64url encoded. Only a BLAKE2b-256 digest
// is stored. Every resolution failure, whatever its cause, is reported as
// ErrInvalidToken.
package sharing

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/payledger/backend/internal/aggregate"
	"github.com/payledger/backend/internal/cache"
	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/models"
	"github.com/payledger/backend/internal/storage"
)

const tokenBytes = 32

// ErrInvalidToken covers malformed, unknown, expired and revoked tokens alike.
var ErrInvalidToken = errors.New("access denied")

// Grant is a resolved token. The bound user is kept unexported so it never
// leaves this package.
type Grant struct {
	userID string
	Period models.Period
}

// Options tunes token lifetime and resolution caching.
type Options struct {
	// TokenTTL bounds how long issued tokens resolve. Zero means no expiry.
	TokenTTL time.Duration

	// CacheSize and CacheTTL size the resolution cache.
	CacheSize int
	CacheTTL  time.Duration
}

// Service issues, resolves and revokes dashboard tokens.
type Service struct {
	store  storage.Store
	ledger *ledger.Ledger
	ttl    time.Duration
	cache  *cache.LRU[models.DashboardToken]
	now    func() time.Time
}

// New creates a sharing service. Views are computed through l.
func New(store storage.Store, l *ledger.Ledger, opts Options) *Service {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	return &Service{
		store:  store,
		ledger: l,
		ttl:    opts.TokenTTL,
		cache:  cache.NewLRU[models.DashboardToken](opts.CacheSize, opts.CacheTTL),
		now:    time.Now,
	}
}

// Issue creates a token bound to (userID, period). The plaintext token is
// returned only here.
func (s *Service) Issue(ctx context.Context, userID string, period models.Period) (string, *models.DashboardToken, error) {
	if userID == "" {
		return "", nil, &ledger.ValidationError{Field: "user_id", Reason: "required"}
	}
	if err := period.Validate(); err != nil {
		return "", nil, &ledger.ValidationError{Field: "period", Reason: err.Error()}
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	now := s.now()
	record := &models.DashboardToken{
		Digest:    digest(raw),
		UserID:    userID,
		Month:     period.Month,
		Year:      period.Year,
		CreatedAt: now.UnixMicro(),
	}
	if s.ttl > 0 {
		record.ExpiresAt = now.Add(s.ttl).UnixMicro()
	}
	if err := s.store.CreateDashboardToken(ctx, record); err != nil {
		return "", nil, fmt.Errorf("failed to save token: %w", err)
	}

	slog.Info("Dashboard token issued", "user_id", userID, "period", period.Label(), "expires_at", record.ExpiresAt)
	return base64.RawURLEncoding.EncodeToString(raw), record, nil
}

// Resolve maps a token to its bound grant. Resolving the same active token
// repeatedly always yields the same grant.
func (s *Service) Resolve(ctx context.Context, token string) (Grant, error) {
	key, ok := parse(token)
	if !ok {
		tokenResolutions.WithLabelValues("malformed").Inc()
		return Grant{}, ErrInvalidToken
	}

	record, cached := s.cache.Get(key)
	if !cached {
		r, err := s.store.GetDashboardToken(ctx, key)
		if errors.Is(err, storage.ErrNotFound) {
			tokenResolutions.WithLabelValues("unknown").Inc()
			return Grant{}, ErrInvalidToken
		}
		if err != nil {
			return Grant{}, fmt.Errorf("failed to look up token: %w", err)
		}
		record = *r
	}

	if !record.Active(s.now().UnixMicro()) {
		s.cache.Delete(key)
		tokenResolutions.WithLabelValues("inactive").Inc()
		return Grant{}, ErrInvalidToken
	}
	if !cached {
		var deadline time.Time
		if record.ExpiresAt != 0 {
			deadline = time.UnixMicro(record.ExpiresAt)
		}
		s.cache.SetUntil(key, record, deadline)
	}

	tokenResolutions.WithLabelValues("ok").Inc()
	return Grant{userID: record.UserID, Period: record.Period()}, nil
}

// View returns the read-only summary a token grants. The period is always the
// one bound at issuance, and payments are stripped of the owner's identity.
func (s *Service) View(ctx context.Context, token string) (aggregate.Summary, error) {
	grant, err := s.Resolve(ctx, token)
	if err != nil {
		return aggregate.Summary{}, err
	}

	summary, err := s.ledger.Summary(ctx, grant.userID, grant.Period)
	if err != nil {
		return aggregate.Summary{}, err
	}

	payments := make([]models.Payment, len(summary.Payments))
	for i, p := range summary.Payments {
		p.UserID = ""
		payments[i] = p
	}
	summary.Payments = payments
	return summary, nil
}

// Revoke disables a token issued by userID. Tokens of other users, and
// anything that is not a token, yield ErrInvalidToken.
func (s *Service) Revoke(ctx context.Context, userID, token string) error {
	key, ok := parse(token)
	if !ok {
		return ErrInvalidToken
	}

	err := s.store.RevokeDashboardToken(ctx, key, userID, s.now().UnixMicro())
	if errors.Is(err, storage.ErrNotFound) {
		return ErrInvalidToken
	}
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.cache.Delete(key)
	slog.Info("Dashboard token revoked", "user_id", userID)
	return nil
}

// parse decodes a token and returns its storage digest.
func parse(token string) (string, bool) {
	if base64.RawURLEncoding.EncodedLen(tokenBytes) != len(token) {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(raw) != tokenBytes {
		return "", false
	}
	return digest(raw), true
}

func digest(raw []byte) string {
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
