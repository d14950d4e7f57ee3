package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	keymint "github.com/keymint/keymint"
	"github.com/keymint/keymint/internal/httpapi"
	"github.com/keymint/keymint/store"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(logger); err != nil {
		logger.Fatal("keymintd exited", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg := keymint.DefaultConfig()
	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		validity, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.Token.Validity = validity
	}

	builder := keymint.New().
		WithConfig(cfg).
		WithAuditSink(httpapi.NewZapAuditSink(logger)).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true)

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		builder = builder.WithRedis(client)
		logger.Info("using redis store", zap.String("addr", addr))
	} else {
		builder = builder.WithStore(store.NewMemory())
		logger.Warn("REDIS_ADDR not set, credentials and keys are in-memory only")
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer func() { _ = engine.Close() }()

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpapi.NewServer(engine, logger).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
