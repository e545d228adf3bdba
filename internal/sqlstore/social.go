package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jdholdren/microblog/internal/microblog"
)

func (r Repo) InsertFollow(ctx context.Context, f microblog.Follow) (microblog.Follow, error) {
	const q = `INSERT INTO follows (id, follower_id, followee_id, created_at)
	VALUES (:id, :follower_id, :followee_id, :created_at);`

	f.ID = uuid.NewString() + followNamespace
	_, err := r.db.NamedExecContext(ctx, q, f)
	if isConflict(err) {
		return microblog.Follow{}, fmt.Errorf("follow already exists: %w", microblog.ErrConflict)
	}
	if isMissingReference(err) {
		return microblog.Follow{}, fmt.Errorf("follower or followee missing: %w", microblog.ErrNotFound)
	}
	if err != nil {
		return microblog.Follow{}, fmt.Errorf("error inserting follow: %s", err)
	}

	return f, nil
}

func (r Repo) FollowExists(ctx context.Context, followerID, followeeID string) (bool, error) {
	q := r.db.Rebind(`SELECT COUNT(*) FROM follows WHERE follower_id = ? AND followee_id = ?;`)

	var count int
	if err := r.db.GetContext(ctx, &count, q, followerID, followeeID); err != nil {
		return false, fmt.Errorf("error counting follows: %s", err)
	}

	return count > 0, nil
}

func (r Repo) FollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	q := r.db.Rebind(`SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY created_at, id;`)

	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, q, followerID); err != nil {
		return nil, fmt.Errorf("error selecting followed ids: %s", err)
	}

	return ids, nil
}

func (r Repo) InsertLike(ctx context.Context, l microblog.Like) (microblog.Like, error) {
	const q = `INSERT INTO likes (id, user_id, post_id, created_at)
	VALUES (:id, :user_id, :post_id, :created_at);`

	l.ID = uuid.NewString() + likeNamespace
	_, err := r.db.NamedExecContext(ctx, q, l)
	if isConflict(err) {
		return microblog.Like{}, fmt.Errorf("like already exists: %w", microblog.ErrConflict)
	}
	if isMissingReference(err) {
		return microblog.Like{}, fmt.Errorf("user or post missing: %w", microblog.ErrNotFound)
	}
	if err != nil {
		return microblog.Like{}, fmt.Errorf("error inserting like: %s", err)
	}

	return l, nil
}

func (r Repo) LikeExists(ctx context.Context, userID, postID string) (bool, error) {
	q := r.db.Rebind(`SELECT COUNT(*) FROM likes WHERE user_id = ? AND post_id = ?;`)

	var count int
	if err := r.db.GetContext(ctx, &count, q, userID, postID); err != nil {
		return false, fmt.Errorf("error counting likes: %s", err)
	}

	return count > 0, nil
}

func (r Repo) LikedPostIDs(ctx context.Context, userID string) ([]string, error) {
	q := r.db.Rebind(`SELECT post_id FROM likes WHERE user_id = ? ORDER BY created_at, id;`)

	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, q, userID); err != nil {
		return nil, fmt.Errorf("error selecting liked post ids: %s", err)
	}

	return ids, nil
}
