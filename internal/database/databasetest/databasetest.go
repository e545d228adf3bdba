// Package databasetest opens throwaway stores for tests.
package databasetest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jdholdren/microblog/internal/database"
	"github.com/jdholdren/microblog/internal/microblog"
)

const (
	PostgresEnv = "MICROBLOG_TEST_POSTGRES_DSN"
	MongoEnv    = "MICROBLOG_TEST_MONGO_URI"
)

// SQLite opens a migrated sqlite store in a temp dir, closed when the test ends.
func SQLite(t *testing.T) *database.DB {
	t.Helper()

	return open(t, database.Config{
		Kind:         database.SQLite,
		SQLitePath:   filepath.Join(t.TempDir(), "microblog.db"),
		PingAttempts: 1,
	})
}

// SQLiteRepo is SQLite when only the repository is needed.
func SQLiteRepo(t *testing.T) microblog.Repository {
	return SQLite(t).Repo
}

// Postgres opens the database named by MICROBLOG_TEST_POSTGRES_DSN with every
// table emptied, skipping the test if it isn't set.
func Postgres(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv(PostgresEnv)
	if dsn == "" {
		t.Skipf("%s not set", PostgresEnv)
	}

	db := open(t, database.Config{
		Kind:         database.Postgres,
		PostgresDSN:  dsn,
		PingAttempts: 1,
	})
	truncate(t, dsn)
	return db
}

// Mongo opens a fresh database on the server at MICROBLOG_TEST_MONGO_URI,
// dropped once the test ends.
func Mongo(t *testing.T) *database.DB {
	t.Helper()

	uri := os.Getenv(MongoEnv)
	if uri == "" {
		t.Skipf("%s not set", MongoEnv)
	}

	name := "microblog_test_" + uuid.NewString()[:8]
	db := open(t, database.Config{
		Kind:          database.Mongo,
		MongoURI:      uri,
		MongoDatabase: name,
		PingAttempts:  1,
	})
	t.Cleanup(func() { dropMongo(t, uri, name) })
	return db
}

func open(t *testing.T, cfg database.Config) *database.DB {
	t.Helper()

	db, err := database.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close(context.Background())
	})

	return db
}
