// Package microblog holds the domain types shared by the stores, the services
// and the HTTP layer.
package microblog

import (
	"context"
	"errors"
	"time"
)

var (
	ErrConflict = errors.New("resource already exists")
	ErrNotFound = errors.New("resource not found")
)

type (
	// User is a registered account.
	User struct {
		ID           string    `db:"id" bson:"_id"`
		Username     string    `db:"username" bson:"username"`
		Email        string    `db:"email" bson:"email"`
		PasswordHash string    `db:"password_hash" bson:"password_hash"`
		Avatar       *string   `db:"avatar" bson:"avatar,omitempty"`
		Bio          *string   `db:"bio" bson:"bio,omitempty"`
		Superuser    bool      `db:"superuser" bson:"superuser"`
		CreatedAt    time.Time `db:"created_at" bson:"created_at"`
		UpdatedAt    time.Time `db:"updated_at" bson:"updated_at"`
	}

	// Post is a piece of text authored by a user.
	//
	// A post with a ParentID is a reply. Replies can themselves be replied to.
	Post struct {
		ID        string    `db:"id" bson:"_id"`
		UserID    string    `db:"user_id" bson:"user_id"`
		Text      string    `db:"text" bson:"text"`
		ParentID  *string   `db:"parent_id" bson:"parent_id"`
		CreatedAt time.Time `db:"created_at" bson:"created_at"`
	}

	// Follow is a directed edge: the follower sees the followee's posts in their timeline.
	Follow struct {
		ID         string    `db:"id" bson:"_id"`
		FollowerID string    `db:"follower_id" bson:"follower_id"`
		FolloweeID string    `db:"followee_id" bson:"followee_id"`
		CreatedAt  time.Time `db:"created_at" bson:"created_at"`
	}

	// Like marks a post as liked by a user. At most one per (user, post).
	Like struct {
		ID        string    `db:"id" bson:"_id"`
		UserID    string    `db:"user_id" bson:"user_id"`
		PostID    string    `db:"post_id" bson:"post_id"`
		CreatedAt time.Time `db:"created_at" bson:"created_at"`
	}
)

// IsReply reports whether the post has a parent.
func (p Post) IsReply() bool {
	return p.ParentID != nil
}

type (
	UserRepo interface {
		// InsertUser returns ErrConflict if the username or email is taken.
		InsertUser(ctx context.Context, usr User) (User, error)
		User(ctx context.Context, id string) (User, error)
		UserByUsername(ctx context.Context, username string) (User, error)
		AllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, id string, args UpdateUserArgs) (User, error)
	}

	PostRepo interface {
		InsertPost(ctx context.Context, post Post) (Post, error)
		Post(ctx context.Context, id string) (Post, error)
		Posts(ctx context.Context, args PostsArgs) ([]Post, error)
	}

	SocialRepo interface {
		// InsertFollow returns ErrConflict if the edge already exists.
		InsertFollow(ctx context.Context, f Follow) (Follow, error)
		FollowExists(ctx context.Context, followerID, followeeID string) (bool, error)
		FollowedIDs(ctx context.Context, followerID string) ([]string, error)

		// InsertLike returns ErrConflict if the edge already exists.
		InsertLike(ctx context.Context, l Like) (Like, error)
		LikeExists(ctx context.Context, userID, postID string) (bool, error)
		LikedPostIDs(ctx context.Context, userID string) ([]string, error)
	}

	// Repository is everything a backing store needs to provide.
	Repository interface {
		UserRepo
		PostRepo
		SocialRepo
	}
)

// Holds the optional fields for updating a user.
type UpdateUserArgs struct {
	Email        string
	PasswordHash string
	Avatar       *string
	Bio          *string
	UpdatedAt    time.Time
}

// PostOrder is the sort applied to a post listing.
type PostOrder int

const (
	// NewestFirst sorts by creation time descending, then id descending.
	NewestFirst PostOrder = iota
	// OldestFirst sorts by creation time ascending, then id ascending.
	OldestFirst
)

// PostsArgs filters a post listing. Zero values mean "no filter".
type PostsArgs struct {
	IDs      []string
	UserIDs  []string
	ParentID string
	RootOnly bool
	Order    PostOrder
	Limit    uint64
	Offset   uint64
}
