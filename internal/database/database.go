// Package database opens whichever backing store is configured and hands back
// a repository over it.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"github.com/jdholdren/microblog/internal/docstore"
	"github.com/jdholdren/microblog/internal/microblog"
	"github.com/jdholdren/microblog/internal/migrations"
	"github.com/jdholdren/microblog/internal/sqlstore"
)

// Kind names a backing store.
type Kind string

const (
	SQLite   Kind = "sqlite"
	Postgres Kind = "postgres"
	Mongo    Kind = "mongo"
)

type Config struct {
	Kind Kind

	// Path to the sqlite file
	SQLitePath string

	PostgresDSN string

	MongoURI      string
	MongoDatabase string

	// How many times to ping the store before giving up. Zero means 5.
	PingAttempts uint64
}

// DB is an open store.
type DB struct {
	Repo microblog.Repository

	ping  func(context.Context) error
	close func(context.Context) error
}

// Ping checks the store is still reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.ping(ctx)
}

func (d *DB) Close(ctx context.Context) error {
	return d.close(ctx)
}

// Open connects to the configured store, waits for it to answer, and brings
// its schema up to date.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	switch cfg.Kind {
	case SQLite, "":
		dsn := fmt.Sprintf("%s?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.SQLitePath)
		return openSQL(ctx, cfg, "sqlite", dsn, migrations.SQLite)
	case Postgres:
		return openSQL(ctx, cfg, "pgx", cfg.PostgresDSN, migrations.Postgres)
	case Mongo:
		return openMongo(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Kind)
	}
}

func openSQL(ctx context.Context, cfg Config, driver, dsn string, dialect migrations.Dialect) (*DB, error) {
	dbx, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %s", err)
	}

	if err := waitFor(ctx, cfg, dbx.PingContext); err != nil {
		dbx.Close()
		return nil, fmt.Errorf("error reaching database: %s", err)
	}

	// Migrate, always
	if err := migrations.Run(dbx, dialect); err != nil {
		dbx.Close()
		return nil, fmt.Errorf("error running migrations: %s", err)
	}

	return &DB{
		Repo: sqlstore.New(dbx),
		ping: dbx.PingContext,
		close: func(context.Context) error {
			return dbx.Close()
		},
	}, nil
}

func openMongo(ctx context.Context, cfg Config) (*DB, error) {
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("error connecting to mongo: %s", err)
	}

	ping := func(ctx context.Context) error {
		return cli.Ping(ctx, nil)
	}
	if err := waitFor(ctx, cfg, ping); err != nil {
		_ = cli.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("error reaching mongo: %s", err)
	}

	repo := docstore.New(cli.Database(cfg.MongoDatabase))
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = cli.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}
	slog.Info("indexes ensured", "database", cfg.MongoDatabase)

	return &DB{
		Repo:  repo,
		ping:  ping,
		close: cli.Disconnect,
	}, nil
}

// Retry until the store is ready
func waitFor(ctx context.Context, cfg Config, ping func(context.Context) error) error {
	attempts := cfg.PingAttempts
	if attempts == 0 {
		attempts = 5
	}

	backoff := retry.WithMaxRetries(attempts-1, retry.NewFibonacci(500*time.Millisecond))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			slog.WarnContext(ctx, "store not ready", "store", cfg.Kind, "error", err)
			return retry.RetryableError(err)
		}

		return nil
	})
}
