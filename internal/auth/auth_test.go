package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/payledger/backend/internal/models"
)

const testSecret = "test-secret-key-that-is-at-least-32-chars"

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	token, err := m.Generate("user-123", "alice@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	id, err := m.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if id.UserID != "user-123" || id.Email != "alice@example.com" {
		t.Errorf("unexpected identity %+v", id)
	}
}

func TestJWTRejects(t *testing.T) {
	m := NewJWTManager(testSecret, time.Hour)

	expired, err := NewJWTManager(testSecret, -time.Minute).Generate("u", "u@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	otherKey, err := NewJWTManager("another-secret-key-also-32-chars-long", time.Hour).Generate("u", "u@example.com")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Email: "u@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u"},
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	tests := map[string]string{
		"garbage":       "not-a-jwt",
		"expired":       expired,
		"wrong key":     otherKey,
		"no subject":    noSubject,
		"no expiration": noExpiry,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

type countingStorage struct {
	users []models.User
}

func (s *countingStorage) UpsertUser(_ context.Context, u *models.User) error {
	s.users = append(s.users, *u)
	return nil
}

func TestDirectoryRecord(t *testing.T) {
	store := &countingStorage{}
	d := NewDirectory(store, time.Hour)
	ctx := context.Background()

	if err := d.Record(ctx, Identity{UserID: "u1", Email: " Alice@Example.com"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := d.Record(ctx, Identity{UserID: "u1", Email: "alice@example.com"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected one write within refresh window, got %d", len(store.users))
	}
	if store.users[0].Email != "alice@example.com" {
		t.Errorf("Email = %q, want normalized", store.users[0].Email)
	}

	if err := d.Record(ctx, Identity{UserID: "u1", Email: "alice@new.example.com"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(store.users) != 2 {
		t.Errorf("email change should be written, got %d writes", len(store.users))
	}

	if err := d.Record(ctx, Identity{UserID: "u2"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if len(store.users) != 2 {
		t.Errorf("identity without email should be skipped")
	}
}
