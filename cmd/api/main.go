// Command api serves the accounts authentication HTTP API.
//
// @title                       Accounts Auth API
// @version                     1.0
// @description                 Account signup, login, logout and JWT refresh.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the access token.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/minitwitter/accounts-auth/internal/api"
	"github.com/minitwitter/accounts-auth/internal/core/service"
	"github.com/minitwitter/accounts-auth/internal/infrastructure/crypto"
	"github.com/minitwitter/accounts-auth/internal/infrastructure/queue"
	"github.com/minitwitter/accounts-auth/internal/pkg/config"
	"github.com/minitwitter/accounts-auth/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "accounts-auth",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage).Msg("failed to open storage")
	}
	defer stores.Close()

	// --- Audit trail ---
	auditService := service.NewAuditService(stores.Audit, log)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditService, log)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)

	// --- Core ---
	tokens := service.NewTokenEngine(service.TokenConfig{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTokenTTL,
		RefreshTTL: cfg.Auth.RefreshTokenTTL,
	}, stores.Blacklist)
	hasher := crypto.NewPasswordHasher(crypto.Argon2Params{
		MemoryKiB:   cfg.Argon2.MemoryKiB,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	authService := service.NewAuthService(stores.Users, hasher, tokens, dispatcher, log)

	e := api.NewRouter(api.Dependencies{
		AuthService: authService,
		Verifier:    tokens,
		Readiness:   stores.Readiness,
		Log:         log,
		Registerer:  prometheus.DefaultRegisterer,
		Gatherer:    prometheus.DefaultGatherer,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.Storage).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Requests are drained; flush what is left in the audit queues.
	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("shutdown complete")
}
