// Package docstore is the MongoDB backing store. Each entity lives in its own
// collection keyed by the same namespaced string IDs the SQL store uses.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdholdren/microblog/internal/microblog"
)

var _ microblog.Repository = Repo{}

const (
	userNamespace   = "-usr"
	postNamespace   = "-pst"
	followNamespace = "-flw"
	likeNamespace   = "-lk"
)

const (
	usersCollection   = "users"
	postsCollection   = "posts"
	followsCollection = "follows"
	likesCollection   = "likes"
)

type Repo struct {
	db *mongo.Database
}

func New(db *mongo.Database) Repo {
	return Repo{db: db}
}

func (r Repo) users() *mongo.Collection   { return r.db.Collection(usersCollection) }
func (r Repo) posts() *mongo.Collection   { return r.db.Collection(postsCollection) }
func (r Repo) follows() *mongo.Collection { return r.db.Collection(followsCollection) }
func (r Repo) likes() *mongo.Collection   { return r.db.Collection(likesCollection) }

// EnsureIndexes creates the unique and lookup indexes the store relies on.
// It's safe to call on every start.
func (r Repo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		r.users(): {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		r.posts(): {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
			{Keys: bson.D{{Key: "parent_id", Value: 1}}},
		},
		r.follows(): {
			{Keys: bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}}, Options: unique},
		},
		r.likes(): {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "post_id", Value: 1}}, Options: unique},
		},
	}
	for coll, models := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("error creating indexes on %s: %s", coll.Name(), err)
		}
	}

	return nil
}

// Reports whether any document in the collection matches the filter.
func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error counting %s: %s", coll.Name(), err)
	}

	return n > 0, nil
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (T, error) {
	var v T
	err := coll.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return v, microblog.ErrNotFound
	}
	if err != nil {
		return v, fmt.Errorf("error fetching from %s: %s", coll.Name(), err)
	}

	return v, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying %s: %s", coll.Name(), err)
	}

	vs := []T{}
	if err := cur.All(ctx, &vs); err != nil {
		return nil, fmt.Errorf("error decoding %s: %s", coll.Name(), err)
	}

	return vs, nil
}
