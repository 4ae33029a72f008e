package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/payledger/backend/internal/auth"
	"github.com/payledger/backend/internal/config"
	"github.com/payledger/backend/internal/events"
	"github.com/payledger/backend/internal/ledger"
	"github.com/payledger/backend/internal/mail"
	"github.com/payledger/backend/internal/middleware"
	"github.com/payledger/backend/internal/service"
	"github.com/payledger/backend/internal/sharing"
	"github.com/payledger/backend/internal/storage/postgres"
	"github.com/payledger/backend/internal/storage/sqlite"
	"github.com/payledger/backend/internal/storage/sqlstore"
	"github.com/payledger/backend/pkg/api"
	"github.com/payledger/backend/pkg/logging"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	_ = godotenv.Load()

	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	publisher := newPublisher(cfg)
	defer publisher.Close()

	sender, err := newSender(cfg)
	if err != nil {
		return err
	}
	defer sender.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	directory := auth.NewDirectory(store, 5*time.Minute)

	l := ledger.New(store, ledger.WithPublisher(publisher))
	sh := sharing.New(store, l, sharing.Options{
		TokenTTL:  cfg.TokenTTL,
		CacheSize: cfg.TokenCacheSize,
		CacheTTL:  cfg.TokenCacheTTL,
	})

	authed := connect.WithInterceptors(
		middleware.TimeoutInterceptor(cfg.RequestTimeout),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
		middleware.RequireAuth(jwtManager, directory),
	)
	public := connect.WithInterceptors(
		middleware.TimeoutInterceptor(cfg.RequestTimeout),
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(),
	)

	mux := http.NewServeMux()
	mux.Handle(api.NewLedgerServiceHandler(service.NewLedgerService(l), authed))
	mux.Handle(api.NewDashboardServiceHandler(service.NewDashboardService(l, sh, sender, cfg.Currency), authed))
	mux.Handle(api.NewPublicDashboardServiceHandler(service.NewPublicDashboardService(sh), public))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", healthHandler(store))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	handler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost:%s", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	slog.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	switch cfg.DBDriver {
	case "postgres":
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", "postgres")
		return store, nil
	default:
		store, err := sqlite.New(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize sqlite storage: %w", err)
		}
		slog.Info("Storage initialized", "driver", "sqlite", "database", cfg.SQLiteDBPath)
		return store, nil
	}
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		slog.Info("Ledger events disabled - no KAFKA_BROKERS provided")
		return events.Nop{}
	}
	p := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopicPrefix)
	slog.Info("Ledger events enabled", "brokers", cfg.KafkaBrokers, "topic", p.Topic())
	return p
}

func newSender(cfg *config.Config) (mail.Sender, error) {
	if cfg.AMQPURL == "" {
		slog.Info("Mail delivery disabled - summaries will be logged")
		return mail.LogSender{}, nil
	}
	sender, err := mail.NewAMQPSender(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AMQP sender: %w", err)
	}
	slog.Info("Mail delivery enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return sender, nil
}
