package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jdholdren/microblog/internal/microblog"
)

// Scope says what a token may be used for.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
)

// Claims is the payload of every token. The subject is the user's id.
type Claims struct {
	Scope Scope `json:"scope"`
	// Set only on access tokens that came straight from a password login.
	Fresh bool `json:"fresh,omitempty"`
	jwt.RegisteredClaims
}

// TokenPair is what a login or refresh hands back.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// Lifetime of the access token
	ExpiresIn time.Duration
}

// IssueAccessToken signs an access token for the user. A zero ttl uses the
// configured access ttl.
func (s *Service) IssueAccessToken(usr microblog.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.AccessTTL
	}
	return s.issue(usr, ScopeAccess, ttl, false)
}

// IssueRefreshToken signs a refresh token for the user. A zero ttl uses the
// configured refresh ttl.
func (s *Service) IssueRefreshToken(usr microblog.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.cfg.RefreshTTL
	}
	return s.issue(usr, ScopeRefresh, ttl, false)
}

func (s *Service) issue(usr microblog.User, scope Scope, ttl time.Duration, fresh bool) (string, error) {
	now := s.clock.Now()
	claims := Claims{
		Scope: scope,
		Fresh: fresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   usr.ID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.cfg.SecretKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %s", err)
	}

	return signed, nil
}

func (s *Service) pair(usr microblog.User, fresh bool) (TokenPair, error) {
	access, err := s.issue(usr, ScopeAccess, s.cfg.AccessTTL, fresh)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.IssueRefreshToken(usr, 0)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.cfg.AccessTTL,
	}, nil
}

// ResolveArgs narrows which tokens ResolveIdentity accepts.
type ResolveArgs struct {
	// Defaults to ScopeAccess
	Scope Scope
	// The token must come from a password login, unless the user is a superuser.
	RequireFresh bool
}

// ResolveIdentity verifies a token and returns the user it names.
//
// Every rejection is an *Error. Errors from the store that aren't a missing
// user are passed through as-is.
func (s *Service) ResolveIdentity(ctx context.Context, token string, args ResolveArgs) (microblog.User, error) {
	if token == "" {
		return microblog.User{}, newError(KindMissing, nil)
	}
	if args.Scope == "" {
		args.Scope = ScopeAccess
	}

	claims, err := s.parse(token)
	if err != nil {
		return microblog.User{}, err
	}
	if claims.Scope != args.Scope {
		return microblog.User{}, newError(KindInvalidScope, fmt.Errorf("want scope %s, got %q", args.Scope, claims.Scope))
	}
	if claims.Subject == "" {
		return microblog.User{}, newError(KindMalformed, errors.New("token has no subject"))
	}

	usr, err := s.repo.User(ctx, claims.Subject)
	if errors.Is(err, microblog.ErrNotFound) {
		return microblog.User{}, newError(KindUnknownSubject, err)
	}
	if err != nil {
		return microblog.User{}, fmt.Errorf("error fetching token subject: %w", err)
	}

	if args.RequireFresh && !claims.Fresh && !usr.Superuser {
		return microblog.User{}, newError(KindNotFresh, nil)
	}

	return usr, nil
}

func (s *Service) parse(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.cfg.SecretKey, nil
	}, opts...)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, newError(KindExpired, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, newError(KindSignatureInvalid, err)
	default:
		return nil, newError(KindMalformed, err)
	}
}

// Refresh trades a refresh token for a new pair. The new access token is
// never fresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	usr, err := s.ResolveIdentity(ctx, refreshToken, ResolveArgs{Scope: ScopeRefresh})
	if err != nil {
		return TokenPair{}, err
	}

	return s.pair(usr, false)
}
