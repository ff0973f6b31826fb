package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blogdesk/internal/config"
	"github.com/blogdesk/internal/db"
	"github.com/blogdesk/internal/handler"
	"github.com/blogdesk/internal/logger"
	"github.com/blogdesk/internal/mail"
	"github.com/blogdesk/internal/router"
	"github.com/blogdesk/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseSource()); err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to initialize database")
	}

	if err := db.EnsureStaffUser(db.DB, cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatal().Err(err).Msg("failed to ensure staff account")
	}

	deps := handler.Dependencies{
		Mailer:       mail.NewLogMailer(log.Logger),
		ResetLink:    service.ResetLinkConfig{Domain: cfg.DefaultDomain, Protocol: cfg.DefaultProtocol},
		ResetTimeout: cfg.PasswordResetTimeout,
	}
	if cfg.SMTP.Host != "" {
		deps.Mailer = mail.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to reach redis")
		}
		defer client.Close()
		deps.ResetStore = service.NewRedisResetTokenStore(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("password reset tokens stored in redis")
	}

	r, err := router.SetupRouter(cfg, handler.NewAPI(db.DB, deps))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up router")
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to run server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
