package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/jdholdren/microblog/internal/microblog"
)

func (r Repo) InsertPost(ctx context.Context, post microblog.Post) (microblog.Post, error) {
	const q = `INSERT INTO posts (id, user_id, text, parent_id, created_at)
	VALUES (:id, :user_id, :text, :parent_id, :created_at);`

	post.ID = uuid.NewString() + postNamespace
	_, err := r.db.NamedExecContext(ctx, q, post)
	if isMissingReference(err) {
		return microblog.Post{}, fmt.Errorf("author or parent post missing: %w", microblog.ErrNotFound)
	}
	if err != nil {
		return microblog.Post{}, fmt.Errorf("error inserting post: %s", err)
	}

	return r.Post(ctx, post.ID)
}

func (r Repo) Post(ctx context.Context, id string) (microblog.Post, error) {
	q := r.db.Rebind(`SELECT * FROM posts WHERE id = ?;`)

	var post microblog.Post
	err := r.db.GetContext(ctx, &post, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return microblog.Post{}, microblog.ErrNotFound
	}
	if err != nil {
		return microblog.Post{}, fmt.Errorf("error fetching post: %s", err)
	}

	return post, nil
}

func (r Repo) Posts(ctx context.Context, args microblog.PostsArgs) ([]microblog.Post, error) {
	q := sq.Select("*").From("posts")

	where := sq.Eq{}
	if len(args.IDs) > 0 {
		where["id"] = args.IDs
	}
	if len(args.UserIDs) > 0 {
		where["user_id"] = args.UserIDs
	}
	if args.ParentID != "" {
		where["parent_id"] = args.ParentID
	}
	if args.RootOnly {
		where["parent_id"] = nil
	}
	if len(where) > 0 {
		q = q.Where(where)
	}

	switch args.Order {
	case microblog.OldestFirst:
		q = q.OrderBy("created_at ASC", "id ASC")
	default:
		q = q.OrderBy("created_at DESC", "id DESC")
	}

	// An offset without a limit isn't portable, so it only applies alongside one
	if args.Limit > 0 {
		q = q.Limit(args.Limit).Offset(args.Offset)
	}

	query, queryArgs, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error generating SQL query: %s", err)
	}

	posts := []microblog.Post{}
	if err := r.db.SelectContext(ctx, &posts, r.db.Rebind(query), queryArgs...); err != nil {
		return nil, fmt.Errorf("error selecting posts: %s", err)
	}

	return posts, nil
}
