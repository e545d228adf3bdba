// Package auth issues and verifies the signed tokens that identify users, and
// owns the account lifecycle: registration, login, and profile changes.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdholdren/microblog/internal/clock"
	"github.com/jdholdren/microblog/internal/microblog"
)

const (
	DefaultAlgorithm = "HS256"
	DefaultTTL       = 15 * time.Minute

	// Shortest signing key accepted.
	MinKeyLength = 32
)

type Config struct {
	SecretKey []byte
	// One of HS256, HS384, HS512
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	BcryptCost int
	Issuer     string
}

type Service struct {
	cfg    Config
	method jwt.SigningMethod
	repo   microblog.UserRepo
	clock  clock.Clock
	policy *bluemonday.Policy

	// Compared against when a login names an unknown user, so both paths do
	// the same bcrypt work.
	dummyHash []byte
}

// NewService checks the config and fills in defaults. A bad key or
// algorithm is an error here rather than at the first request.
func NewService(cfg Config, repo microblog.UserRepo, clk clock.Clock) (*Service, error) {
	if len(cfg.SecretKey) < MinKeyLength {
		return nil, fmt.Errorf("secret key must be at least %d bytes, got %d", MinKeyLength, len(cfg.SecretKey))
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = DefaultAlgorithm
	}
	method, ok := jwt.GetSigningMethod(cfg.Algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultTTL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if clk == nil {
		clk = clock.Real{}
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("not a real password"), cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error generating dummy hash: %s", err)
	}

	return &Service{
		cfg:       cfg,
		method:    method,
		repo:      repo,
		clock:     clk,
		policy:    bluemonday.StrictPolicy(),
		dummyHash: dummy,
	}, nil
}

// Kind categorises why a credential was rejected.
type Kind string

const (
	KindMissing            Kind = "missing"
	KindMalformed          Kind = "malformed"
	KindExpired            Kind = "expired"
	KindSignatureInvalid   Kind = "signature_invalid"
	KindUnknownSubject     Kind = "unknown_subject"
	KindInvalidScope       Kind = "invalid_scope"
	KindNotFresh           Kind = "not_fresh"
	KindInvalidCredentials Kind = "invalid_credentials"
)

// Error is returned for every rejected token or credential.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "auth: " + string(e.Kind)
	}
	return fmt.Sprintf("auth: %s: %s", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// IsKind reports whether err is an auth error of the given kind.
func IsKind(err error, kind Kind) bool {
	authErr := &Error{}
	return errors.As(err, &authErr) && authErr.Kind == kind
}
