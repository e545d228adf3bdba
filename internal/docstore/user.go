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

func (r Repo) InsertUser(ctx context.Context, usr microblog.User) (microblog.User, error) {
	usr.ID = uuid.NewString() + userNamespace
	_, err := r.users().InsertOne(ctx, usr)
	if mongo.IsDuplicateKeyError(err) {
		return microblog.User{}, fmt.Errorf("email or username already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error inserting user: %s", err)
	}

	return r.User(ctx, usr.ID)
}

func (r Repo) User(ctx context.Context, id string) (microblog.User, error) {
	return findOne[microblog.User](ctx, r.users(), bson.M{"_id": id})
}

func (r Repo) UserByUsername(ctx context.Context, username string) (microblog.User, error) {
	return findOne[microblog.User](ctx, r.users(), bson.M{"username": username})
}

func (r Repo) AllUsers(ctx context.Context) ([]microblog.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return findAll[microblog.User](ctx, r.users(), bson.M{}, opts)
}

func (r Repo) UpdateUser(ctx context.Context, id string, args microblog.UpdateUserArgs) (microblog.User, error) {
	set := bson.M{"updated_at": args.UpdatedAt}
	if args.Email != "" {
		set["email"] = args.Email
	}
	if args.PasswordHash != "" {
		set["password_hash"] = args.PasswordHash
	}
	if args.Avatar != nil {
		set["avatar"] = *args.Avatar
	}
	if args.Bio != nil {
		set["bio"] = *args.Bio
	}

	res, err := r.users().UpdateByID(ctx, id, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return microblog.User{}, fmt.Errorf("email already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error updating user: %s", err)
	}
	if res.MatchedCount == 0 {
		return microblog.User{}, microblog.ErrNotFound
	}

	return r.User(ctx, id)
}
