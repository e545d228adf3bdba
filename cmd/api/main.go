// The microblog api server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/sethvargo/go-envconfig"

	"github.com/jdholdren/microblog/internal/api"
	"github.com/jdholdren/microblog/internal/auth"
	"github.com/jdholdren/microblog/internal/clock"
	"github.com/jdholdren/microblog/internal/database"
	"github.com/jdholdren/microblog/internal/feed"
	"github.com/jdholdren/microblog/internal/logger"
)

type config struct {
	Port  int    `env:"PORT, default=4444"`
	Store string `env:"STORE, default=sqlite"`

	// Which store backs the app, and how to reach it
	Database      string `env:"DATABASE, default=microblog.db"`
	PostgresDSN   string `env:"POSTGRES_DSN"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE, default=microblog"`

	SecretKey        string        `env:"SECRET_KEY, required"`
	SigningAlgorithm string        `env:"SIGNING_ALGORITHM, default=HS256"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL, default=15m"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL, default=15m"`
	BcryptCost       int           `env:"BCRYPT_COST, default=10"`

	CookieHashKey  string `env:"COOKIE_HASH_KEY"`
	CookieBlockKey string `env:"COOKIE_BLOCK_KEY"`
	HTTPSCookies   bool   `env:"HTTPS_COOKIES, default=false"`
	CORSOrigin     string `env:"CORS_ORIGIN"`

	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=10s"`
	ContentFilter  bool          `env:"CONTENT_FILTER, default=false"`

	// Which format to use for logging: either text or json
	LoggerFormat string `env:"LOGGER_FORMAT, default=text"`
}

func main() {
	ctx := context.Background()

	// Parse the config
	var cfg config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		log.Fatalf("error parsing config: %s", err)
	}

	slog.SetDefault(logger.New(cfg.LoggerFormat))

	// Start the application
	if err := runServer(ctx, cfg); err != nil {
		slog.Error("error running", "error", err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cfg config) error {
	db, err := database.Open(ctx, database.Config{
		Kind:          database.Kind(cfg.Store),
		SQLitePath:    cfg.Database,
		PostgresDSN:   cfg.PostgresDSN,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		return fmt.Errorf("error opening store: %s", err)
	}
	defer db.Close(context.WithoutCancel(ctx))

	clk := clock.Real{}
	authSvc, err := auth.NewService(auth.Config{
		SecretKey:  []byte(cfg.SecretKey),
		Algorithm:  cfg.SigningAlgorithm,
		AccessTTL:  cfg.AccessTokenTTL,
		RefreshTTL: cfg.RefreshTokenTTL,
		BcryptCost: cfg.BcryptCost,
	}, db.Repo, clk)
	if err != nil {
		return fmt.Errorf("error configuring tokens: %s", err)
	}
	feedSvc := feed.NewService(feed.Config{ProfanityFilter: cfg.ContentFilter}, db.Repo, clk)

	s := api.NewServer(api.ServerConfig{
		Port:           cfg.Port,
		CookieHashKey:  []byte(cfg.CookieHashKey),
		CookieBlockKey: []byte(cfg.CookieBlockKey),
		HTTPSCookies:   cfg.HTTPSCookies,
		CORSOrigin:     cfg.CORSOrigin,
		RequestTimeout: cfg.RequestTimeout,
	}, authSvc, feedSvc, db.Repo, db)

	var g run.Group
	g.Add(func() error {
		slog.Info("listening", "port", cfg.Port, "store", cfg.Store)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error listening: %s", err)
		}

		return nil
	}, func(error) {
		downCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(downCtx); err != nil {
			slog.Error("error shutting down server", "error", err)
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	var sigErr run.SignalError
	if err := g.Run(); err != nil && !errors.As(err, &sigErr) {
		return err
	}
	slog.Info("shut down")

	return nil
}

