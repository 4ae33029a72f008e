// Command sessiontoken mints a session token for local development.
//
//	JWT_SECRET=... go run ./cmd/sessiontoken -sub alice -email alice@example.com
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/payledger/backend/internal/auth"
	"github.com/payledger/backend/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	sub := flag.String("sub", "", "user id placed in the sub claim")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		slog.Error("JWT_SECRET must be at least 32 characters")
		os.Exit(1)
	}
	if *sub == "" || *email == "" {
		flag.Usage()
		os.Exit(2)
	}

	token, err := auth.NewJWTManager(secret, *ttl).Generate(*sub, *email)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
