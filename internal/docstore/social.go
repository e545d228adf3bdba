package docstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jdholdren/microblog/internal/microblog"
)

func (r Repo) InsertFollow(ctx context.Context, f microblog.Follow) (microblog.Follow, error) {
	if f.FollowerID == f.FolloweeID {
		return microblog.Follow{}, fmt.Errorf("cannot follow self: %w", microblog.ErrConflict)
	}
	n, err := r.users().CountDocuments(ctx, bson.M{"_id": bson.M{"$in": []string{f.FollowerID, f.FolloweeID}}})
	if err != nil {
		return microblog.Follow{}, fmt.Errorf("error counting users: %s", err)
	}
	if n < 2 {
		return microblog.Follow{}, fmt.Errorf("follower or followee missing: %w", microblog.ErrNotFound)
	}

	f.ID = uuid.NewString() + followNamespace
	_, err = r.follows().InsertOne(ctx, f)
	if mongo.IsDuplicateKeyError(err) {
		return microblog.Follow{}, fmt.Errorf("follow already exists: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.Follow{}, fmt.Errorf("error inserting follow: %s", err)
	}

	return f, nil
}

func (r Repo) FollowExists(ctx context.Context, followerID, followeeID string) (bool, error) {
	return exists(ctx, r.follows(), bson.M{"follower_id": followerID, "followee_id": followeeID})
}

func (r Repo) FollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	follows, err := findAll[microblog.Follow](ctx, r.follows(), bson.M{"follower_id": followerID}, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(follows))
	for _, f := range follows {
		ids = append(ids, f.FolloweeID)
	}

	return ids, nil
}

func (r Repo) InsertLike(ctx context.Context, l microblog.Like) (microblog.Like, error) {
	ok, err := exists(ctx, r.users(), bson.M{"_id": l.UserID})
	if err != nil {
		return microblog.Like{}, err
	}
	if !ok {
		return microblog.Like{}, fmt.Errorf("user missing: %w", microblog.ErrNotFound)
	}
	ok, err = exists(ctx, r.posts(), bson.M{"_id": l.PostID})
	if err != nil {
		return microblog.Like{}, err
	}
	if !ok {
		return microblog.Like{}, fmt.Errorf("post missing: %w", microblog.ErrNotFound)
	}

	l.ID = uuid.NewString() + likeNamespace
	_, err = r.likes().InsertOne(ctx, l)
	if mongo.IsDuplicateKeyError(err) {
		return microblog.Like{}, fmt.Errorf("like already exists: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.Like{}, fmt.Errorf("error inserting like: %s", err)
	}

	return l, nil
}

func (r Repo) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	return exists(ctx, r.likes(), bson.M{"user_id": userID, "post_id": postID})
}

func (r Repo) LikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	likes, err := findAll[microblog.Like](ctx, r.likes(), bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(likes))
	for _, l := range likes {
		ids = append(ids, l.PostID)
	}

	return ids, nil
}
