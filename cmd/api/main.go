package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mrko7853/University-syllabus-app-sub001/internal/api"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/auth"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/calendar"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/config"
	applogger "github.com/mrko7853/University-syllabus-app-sub001/internal/logger"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/metrics"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/store"
	"github.com/mrko7853/University-syllabus-app-sub001/internal/subscription"

	"go.uber.org/zap"
)

type app struct {
	config         *config.Config
	logger         *zap.Logger
	verifier       auth.Verifier
	integrations   integrationManager
	publicHandlers *api.PublicFeedHandlers
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := applogger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	s, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer s.Close()

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = s.Migrate(migrateCtx)
	cancel()
	if err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	rec := metrics.Init(cfg.Metrics.Enabled)

	var verifier auth.Verifier
	if cfg.Auth.ClerkSecretKey != "" {
		verifier = auth.NewClerkVerifier(cfg.Auth.ClerkSecretKey)
		logger.Info("clerk authentication enabled")
	} else {
		verifier = auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)
		logger.Info("shared-secret jwt authentication enabled", zap.String("issuer", cfg.Auth.JWTIssuer))
	}

	app := &app{
		config:         cfg,
		logger:         logger,
		verifier:       verifier,
		integrations:   subscription.NewManager(s, cfg.Feed.PublicBaseURL, logger, rec),
		publicHandlers: api.NewPublicFeedHandlers(s, calendar.NewService(s), cfg.Feed.MaxAge, logger, rec),
	}

	if err := app.serve(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
