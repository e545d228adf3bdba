package docstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdholdren/microblog/internal/microblog"
)

// InsertPost checks the author and parent exist first, there being no foreign
// keys to do it.
func (r Repo) InsertPost(ctx context.Context, post microblog.Post) (microblog.Post, error) {
	ok, err := exists(ctx, r.users(), bson.M{"_id": post.UserID})
	if err != nil {
		return microblog.Post{}, err
	}
	if !ok {
		return microblog.Post{}, fmt.Errorf("author missing: %w", microblog.ErrNotFound)
	}
	if post.ParentID != nil {
		ok, err := exists(ctx, r.posts(), bson.M{"_id": *post.ParentID})
		if err != nil {
			return microblog.Post{}, err
		}
		if !ok {
			return microblog.Post{}, fmt.Errorf("parent post missing: %w", microblog.ErrNotFound)
		}
	}

	post.ID = uuid.NewString() + postNamespace
	if _, err := r.posts().InsertOne(ctx, post); err != nil {
		return microblog.Post{}, fmt.Errorf("error inserting post: %s", err)
	}

	return r.Post(ctx, post.ID)
}

func (r Repo) Post(ctx context.Context, id string) (microblog.Post, error) {
	return findOne[microblog.Post](ctx, r.posts(), bson.M{"_id": id})
}

func (r Repo) Posts(ctx context.Context, args microblog.PostsArgs) ([]microblog.Post, error) {
	filter := bson.M{}
	if len(args.IDs) > 0 {
		filter["_id"] = bson.M{"$in": args.IDs}
	}
	if len(args.UserIDs) > 0 {
		filter["user_id"] = bson.M{"$in": args.UserIDs}
	}
	if args.ParentID != "" {
		filter["parent_id"] = args.ParentID
	}
	if args.RootOnly {
		// Matches both an explicit null and a missing field
		filter["parent_id"] = nil
	}

	dir := -1
	if args.Order == microblog.OldestFirst {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}})
	if args.Limit > 0 {
		opts = opts.SetLimit(int64(args.Limit)).SetSkip(int64(args.Offset))
	}

	return findAll[microblog.Post](ctx, r.posts(), filter, opts)
}
