// Package feed assembles the post listings users see, and records the
// follow and like edges that shape them.
package feed

import (
	"context"
	"fmt"

	"github.com/jdholdren/microblog/internal/clock"
	"github.com/jdholdren/microblog/internal/microblog"
)

type Config struct {
	// Reject posts containing profanity
	ProfanityFilter bool
}

type Service struct {
	repo    microblog.Repository
	clock   clock.Clock
	content contentFilter
}

func NewService(cfg Config, repo microblog.Repository, clk clock.Clock) *Service {
	if clk == nil {
		clk = clock.Real{}
	}

	return &Service{
		repo:    repo,
		clock:   clk,
		content: newContentFilter(cfg.ProfanityFilter),
	}
}

// Page bounds a listing. A zero Limit means no bound.
type Page struct {
	Limit  uint64
	Offset uint64
}

// Thread is a post with its direct replies, oldest first.
type Thread struct {
	Post    microblog.Post
	Replies []microblog.Post
}

// FollowedIDs returns the ids of the users the user follows.
func (s *Service) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching followed ids: %w", err)
	}

	return ids, nil
}

// Timeline returns every post, replies included, from the users the user
// follows, newest first.
func (s *Service) Timeline(ctx context.Context, userID string, page Page) ([]microblog.Post, error) {
	ids, err := s.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	// An empty set would read as "no filter" to the store
	if len(ids) == 0 {
		return []microblog.Post{}, nil
	}

	posts, err := s.repo.Posts(ctx, microblog.PostsArgs{
		UserIDs: ids,
		Order:   microblog.NewestFirst,
		Limit:   page.Limit,
		Offset:  page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching timeline: %w", err)
	}

	return posts, nil
}

// UserPosts returns a user's posts, oldest first. Replies are left out unless
// asked for.
func (s *Service) UserPosts(ctx context.Context, username string, includeReplies bool) ([]microblog.Post, error) {
	usr, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	posts, err := s.repo.Posts(ctx, microblog.PostsArgs{
		UserIDs:  []string{usr.ID},
		RootOnly: !includeReplies,
		Order:    microblog.OldestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching user posts: %w", err)
	}

	return posts, nil
}

// RootPosts returns every post that isn't a reply, newest first.
func (s *Service) RootPosts(ctx context.Context, page Page) ([]microblog.Post, error) {
	posts, err := s.repo.Posts(ctx, microblog.PostsArgs{
		RootOnly: true,
		Order:    microblog.NewestFirst,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching root posts: %w", err)
	}

	return posts, nil
}

func (s *Service) PostWithReplies(ctx context.Context, postID string) (Thread, error) {
	post, err := s.repo.Post(ctx, postID)
	if err != nil {
		return Thread{}, fmt.Errorf("error fetching post: %w", err)
	}

	replies, err := s.repo.Posts(ctx, microblog.PostsArgs{
		ParentID: post.ID,
		Order:    microblog.OldestFirst,
	})
	if err != nil {
		return Thread{}, fmt.Errorf("error fetching replies: %w", err)
	}

	return Thread{Post: post, Replies: replies}, nil
}

type CreatePostArgs struct {
	Text     string
	ParentID *string
}

// CreatePost publishes a post, or a reply when ParentID is set. The parent
// has to exist already.
func (s *Service) CreatePost(ctx context.Context, userID string, args CreatePostArgs) (microblog.Post, error) {
	text, err := s.content.clean(args.Text)
	if err != nil {
		return microblog.Post{}, err
	}

	if args.ParentID != nil {
		if _, err := s.repo.Post(ctx, *args.ParentID); err != nil {
			return microblog.Post{}, fmt.Errorf("error fetching parent post: %w", err)
		}
	}

	post, err := s.repo.InsertPost(ctx, microblog.Post{
		UserID:    userID,
		Text:      text,
		ParentID:  args.ParentID,
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		return microblog.Post{}, fmt.Errorf("error inserting post: %w", err)
	}

	return post, nil
}

// Follow makes the follower follow the followee, returning the followee.
func (s *Service) Follow(ctx context.Context, followerID, followeeID string) (microblog.User, error) {
	if followerID == followeeID {
		return microblog.User{}, fmt.Errorf("cannot follow self: %w", microblog.ErrConflict)
	}

	followee, err := s.repo.User(ctx, followeeID)
	if err != nil {
		return microblog.User{}, fmt.Errorf("error fetching followee: %w", err)
	}

	exists, err := s.repo.FollowExists(ctx, followerID, followeeID)
	if err != nil {
		return microblog.User{}, fmt.Errorf("error checking follow: %w", err)
	}
	if exists {
		return microblog.User{}, fmt.Errorf("already following: %w", microblog.ErrConflict)
	}

	// The store's unique index still catches a concurrent duplicate
	if _, err := s.repo.InsertFollow(ctx, microblog.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  s.clock.Now(),
	}); err != nil {
		return microblog.User{}, fmt.Errorf("error inserting follow: %w", err)
	}

	return followee, nil
}

func (s *Service) Like(ctx context.Context, userID, postID string) error {
	if _, err := s.repo.Post(ctx, postID); err != nil {
		return fmt.Errorf("error fetching post: %w", err)
	}

	exists, err := s.repo.LikeExists(ctx, userID, postID)
	if err != nil {
		return fmt.Errorf("error checking like: %w", err)
	}
	if exists {
		return fmt.Errorf("already liked: %w", microblog.ErrConflict)
	}

	if _, err := s.repo.InsertLike(ctx, microblog.Like{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: s.clock.Now(),
	}); err != nil {
		return fmt.Errorf("error inserting like: %w", err)
	}

	return nil
}

// LikedPosts returns the posts a user has liked, newest post first.
func (s *Service) LikedPosts(ctx context.Context, username string) ([]microblog.Post, error) {
	usr, err := s.repo.UserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	ids, err := s.repo.LikedPostIDs(ctx, usr.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching liked ids: %w", err)
	}
	if len(ids) == 0 {
		return []microblog.Post{}, nil
	}

	posts, err := s.repo.Posts(ctx, microblog.PostsArgs{
		IDs:   ids,
		Order: microblog.NewestFirst,
	})
	if err != nil {
		return nil, fmt.Errorf("error fetching liked posts: %w", err)
	}

	return posts, nil
}
