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

func (r Repo) InsertUser(ctx context.Context, usr microblog.User) (microblog.User, error) {
	const q = `INSERT INTO users (id, username, email, password_hash, avatar, bio, superuser, created_at, updated_at)
	VALUES (:id, :username, :email, :password_hash, :avatar, :bio, :superuser, :created_at, :updated_at);`

	usr.ID = uuid.NewString() + userNamespace
	_, err := r.db.NamedExecContext(ctx, q, usr)
	if isConflict(err) {
		return microblog.User{}, fmt.Errorf("email or username already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error inserting user: %s", err)
	}

	return r.User(ctx, usr.ID)
}

func (r Repo) User(ctx context.Context, id string) (microblog.User, error) {
	q := r.db.Rebind(`SELECT * FROM users WHERE id = ?;`)

	var usr microblog.User
	err := r.db.GetContext(ctx, &usr, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return microblog.User{}, microblog.ErrNotFound
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error fetching user: %s", err)
	}

	return usr, nil
}

func (r Repo) UserByUsername(ctx context.Context, username string) (microblog.User, error) {
	q := r.db.Rebind(`SELECT * FROM users WHERE username = ?;`)

	var usr microblog.User
	err := r.db.GetContext(ctx, &usr, q, username)
	if errors.Is(err, sql.ErrNoRows) {
		return microblog.User{}, microblog.ErrNotFound
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error fetching user by username: %s", err)
	}

	return usr, nil
}

// AllUsers returns every user, oldest account first.
func (r Repo) AllUsers(ctx context.Context) ([]microblog.User, error) {
	const q = `SELECT * FROM users ORDER BY created_at, id;`

	users := []microblog.User{}
	if err := r.db.SelectContext(ctx, &users, q); err != nil {
		return nil, fmt.Errorf("error selecting all users: %s", err)
	}

	return users, nil
}

func (r Repo) UpdateUser(ctx context.Context, id string, args microblog.UpdateUserArgs) (microblog.User, error) {
	q := sq.Update("users")
	if args.Email != "" {
		q = q.Set("email", args.Email)
	}
	if args.PasswordHash != "" {
		q = q.Set("password_hash", args.PasswordHash)
	}
	if args.Avatar != nil {
		q = q.Set("avatar", *args.Avatar)
	}
	if args.Bio != nil {
		q = q.Set("bio", *args.Bio)
	}
	q = q.Set("updated_at", args.UpdatedAt).Where(sq.Eq{"id": id})

	query, qArgs, err := q.ToSql()
	if err != nil {
		return microblog.User{}, fmt.Errorf("error constructing sql: %s", err)
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), qArgs...)
	if isConflict(err) {
		return microblog.User{}, fmt.Errorf("email already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error executing user update: %s", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return microblog.User{}, microblog.ErrNotFound
	}

	return r.User(ctx, id)
}
