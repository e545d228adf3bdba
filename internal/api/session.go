package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"

	"github.com/jdholdren/microblog/internal/auth"
	mberrs "github.com/jdholdren/microblog/internal/errors"
	"github.com/jdholdren/microblog/internal/logger"
	"github.com/jdholdren/microblog/internal/microblog"
	"github.com/jdholdren/microblog/internal/serverutil"
)

const sessionCookieName = "microblog_session"

// Describes a user's sessionState that's persisted to their cookie.
type sessionState struct {
	AccessToken string
}

// Fetches the current session tied to the request.
func session(r *http.Request, secureCookie *securecookie.SecureCookie) sessionState {
	cookie, err := r.Cookie(sessionCookieName)
	if errors.Is(err, http.ErrNoCookie) {
		return sessionState{}
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "error fetching cookie", "err", err)
		return sessionState{}
	}

	value := sessionState{}
	if err := secureCookie.Decode(sessionCookieName, cookie.Value, &value); err != nil {
		slog.ErrorContext(r.Context(), "error decoding cookie", "err", err)
		return sessionState{}
	}

	return value
}

// Sets the session on the response. An empty session clears the cookie.
func setSession(w http.ResponseWriter, secureCookie *securecookie.SecureCookie, https bool, sess sessionState, maxAge time.Duration) {
	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		Secure:   https,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if sess.AccessToken == "" {
		cookie.MaxAge = -1
		http.SetCookie(w, cookie)
		return
	}

	encoded, err := secureCookie.Encode(sessionCookieName, sess)
	if err != nil {
		slog.Error("error encoding cookie", "err", err)
		return
	}
	cookie.Value = encoded
	cookie.MaxAge = int(maxAge.Seconds())

	http.SetCookie(w, cookie)
}

// Pulls the token off the request. An Authorization header wins over the
// session cookie, and one that isn't a bearer token is rejected outright.
func requestToken(r *http.Request, sc *securecookie.SecureCookie) (string, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
			return "", &auth.Error{Kind: auth.KindMalformed, Err: errors.New("authorization header is not a bearer token")}
		}

		return strings.TrimSpace(token), nil
	}

	return session(r, sc).AccessToken, nil
}

var challenge = http.Header{"WWW-Authenticate": {"Bearer"}}

// Turns an auth failure into the 401 the client sees. Anything else passes
// through untouched.
func unauthorized(err error) error {
	if auth.IsKind(err, auth.KindMissing) {
		return mberrs.E("Not authenticated", http.StatusUnauthorized, challenge)
	}
	authErr := &auth.Error{}
	if errors.As(err, &authErr) {
		return mberrs.E("Could not validate credentials", http.StatusUnauthorized, challenge)
	}

	return err
}

type userCtxKey struct{}

// Resolves the caller and stashes them on the context, or stops the request
// with a 401.
func requireUserMiddleware(svc *auth.Service, sc *securecookie.SecureCookie, args auth.ResolveArgs) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return serverutil.HandlerFuncE(func(w http.ResponseWriter, r *http.Request) error {
			token, err := requestToken(r, sc)
			if err != nil {
				return unauthorized(err)
			}

			usr, err := svc.ResolveIdentity(r.Context(), token, args)
			if err != nil {
				slog.InfoContext(r.Context(), "rejected credentials", "error", err)
				return unauthorized(err)
			}

			ctx := logger.Ctx(r.Context(), slog.String("user_id", usr.ID))
			ctx = context.WithValue(ctx, userCtxKey{}, usr)
			next.ServeHTTP(w, r.WithContext(ctx))
			return nil
		})
	}
}

// The user resolved by requireUserMiddleware.
func currentUser(ctx context.Context) microblog.User {
	usr, _ := ctx.Value(userCtxKey{}).(microblog.User)
	return usr
}
