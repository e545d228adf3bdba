package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/jdholdren/microblog/internal/microblog"
)

// Authenticate checks a username and password. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, username, password string) (microblog.User, error) {
	usr, err := s.repo.UserByUsername(ctx, username)
	if errors.Is(err, microblog.ErrNotFound) {
		_ = VerifyPassword(string(s.dummyHash), password)
		return microblog.User{}, newError(KindInvalidCredentials, errors.New("incorrect username or password"))
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error fetching user: %w", err)
	}

	if !VerifyPassword(usr.PasswordHash, password) {
		return microblog.User{}, newError(KindInvalidCredentials, errors.New("incorrect username or password"))
	}

	return usr, nil
}

// Login authenticates and issues a fresh access token with a refresh token.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	usr, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return TokenPair{}, err
	}

	return s.pair(usr, true)
}

type RegisterArgs struct {
	Username  string
	Email     string
	Password  string
	Avatar    *string
	Bio       *string
	Superuser bool
}

// Register creates a new account. A taken username or email is ErrConflict.
func (s *Service) Register(ctx context.Context, args RegisterArgs) (microblog.User, error) {
	hash, err := HashPassword(args.Password, s.cfg.BcryptCost)
	if err != nil {
		return microblog.User{}, err
	}

	now := s.clock.Now()
	usr, err := s.repo.InsertUser(ctx, microblog.User{
		Username:     strings.TrimSpace(args.Username),
		Email:        strings.TrimSpace(args.Email),
		PasswordHash: hash,
		Avatar:       args.Avatar,
		Bio:          s.sanitize(args.Bio),
		Superuser:    args.Superuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, microblog.ErrConflict) {
		return microblog.User{}, fmt.Errorf("email or username already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error inserting user: %w", err)
	}

	return usr, nil
}

type UpdateAccountArgs struct {
	Email    string
	Password string
	Avatar   *string
	Bio      *string
}

// UpdateAccount changes the given fields on a user's own account.
func (s *Service) UpdateAccount(ctx context.Context, userID string, args UpdateAccountArgs) (microblog.User, error) {
	update := microblog.UpdateUserArgs{
		Email:     strings.TrimSpace(args.Email),
		Avatar:    args.Avatar,
		Bio:       s.sanitize(args.Bio),
		UpdatedAt: s.clock.Now(),
	}
	if args.Password != "" {
		hash, err := HashPassword(args.Password, s.cfg.BcryptCost)
		if err != nil {
			return microblog.User{}, err
		}
		update.PasswordHash = hash
	}

	usr, err := s.repo.UpdateUser(ctx, userID, update)
	if errors.Is(err, microblog.ErrConflict) {
		return microblog.User{}, fmt.Errorf("email already registered: %w", microblog.ErrConflict)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error updating user: %w", err)
	}

	return usr, nil
}

func (s *Service) sanitize(str *string) *string {
	if str == nil {
		return nil
	}
	clean := *str
	// Stripping again until stable catches entity-encoded markup
	for {
		next := html.UnescapeString(s.policy.Sanitize(clean))
		if next == clean {
			break
		}
		clean = next
	}
	clean = strings.TrimSpace(clean)
	return &clean
}
