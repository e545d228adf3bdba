package databasetest

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func truncate(t *testing.T, dsn string) {
	t.Helper()

	dbx, err := sqlx.Open("pgx", dsn)
	require.NoError(t, err)
	defer dbx.Close()

	_, err = dbx.Exec(`TRUNCATE likes, follows, posts, users;`)
	require.NoError(t, err)
}

func dropMongo(t *testing.T, uri, name string) {
	t.Helper()

	ctx := context.Background()
	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Logf("error connecting to drop %s: %s", name, err)
		return
	}
	defer cli.Disconnect(ctx)

	if err := cli.Database(name).Drop(ctx); err != nil {
		t.Logf("error dropping %s: %s", name, err)
	}
}
