// Package api is the HTTP surface of the microblog: accounts, tokens, posts,
// and the social graph.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"

	"github.com/jdholdren/microblog/internal/auth"
	"github.com/jdholdren/microblog/internal/feed"
	"github.com/jdholdren/microblog/internal/microblog"
	"github.com/jdholdren/microblog/internal/serverutil"
)

type (
	// Server handles every request to the microblog.
	Server struct {
		*http.Server

		auth   *auth.Service
		feed   *feed.Service
		users  microblog.UserRepo
		health Pinger

		secureCookie *securecookie.SecureCookie
		httpsCookies bool // Whether or not HTTPS should be used for cookies
	}

	ServerConfig struct {
		Port           int
		CookieHashKey  []byte
		CookieBlockKey []byte
		HTTPSCookies   bool
		CORSOrigin     string

		// Deadline put on every request's context
		RequestTimeout time.Duration
	}

	// Pinger reports whether the backing store is reachable.
	Pinger interface {
		Ping(ctx context.Context) error
	}
)

func NewServer(config ServerConfig, authSvc *auth.Service, feedSvc *feed.Service, users microblog.UserRepo, health Pinger) *Server {
	r := serverutil.ErrRouter{Router: mux.NewRouter()}

	hashKey := config.CookieHashKey
	if len(hashKey) == 0 {
		// Sessions won't survive a restart, but bearer tokens still will
		slog.Warn("no cookie hash key configured, generating one")
		hashKey = securecookie.GenerateRandomKey(32)
	}
	var blockKey []byte
	if len(config.CookieBlockKey) > 0 {
		blockKey = config.CookieBlockKey
	}

	srvr := Server{
		auth:         authSvc,
		feed:         feedSvc,
		users:        users,
		health:       health,
		secureCookie: securecookie.New(hashKey, blockKey),
		httpsCookies: config.HTTPSCookies,
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%d", config.Port),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: config.RequestTimeout + 5*time.Second,
			Handler:      withCORS(config.CORSOrigin, r),
		},
	}

	r.Use(serverutil.AccessLogMiddleware) // Log everything
	r.Use(serverutil.TimeoutMiddleware(config.RequestTimeout))

	r.HandleFuncE("/healthz", srvr.getHealth).Methods(http.MethodGet)

	// Tokens
	r.HandleFuncE("/token", srvr.postToken).Methods(http.MethodPost)
	r.HandleFuncE("/token/refresh", srvr.postRefresh).Methods(http.MethodPost)
	r.HandleFuncE("/logout", srvr.postLogout).Methods(http.MethodPost)

	// Public reads and registration
	r.HandleFuncE("/user/", srvr.postUser).Methods(http.MethodPost)
	r.HandleFuncE("/users", srvr.postUser).Methods(http.MethodPost)
	r.HandleFuncE("/user/", srvr.getUsers).Methods(http.MethodGet)
	r.HandleFuncE("/user/{username}/", srvr.getUser).Methods(http.MethodGet)
	r.HandleFuncE("/post/", srvr.getPosts).Methods(http.MethodGet)
	r.HandleFuncE("/post/likes/{username}/", srvr.getLikedPosts).Methods(http.MethodGet)
	r.HandleFuncE("/post/user/{username}/", srvr.getUserPosts).Methods(http.MethodGet)
	r.HandleFuncE("/post/{post_id}/", srvr.getPost).Methods(http.MethodGet)

	authed := serverutil.ErrRouter{Router: r.NewRoute().Subrouter()}
	authed.Use(requireUserMiddleware(authSvc, srvr.secureCookie, auth.ResolveArgs{}))

	authed.HandleFuncE("/user/me", srvr.getMe).Methods(http.MethodGet)
	authed.HandleFuncE("/user/follow/{user_id}", srvr.postFollow).Methods(http.MethodPost)
	authed.HandleFuncE("/user/timeline", srvr.getTimeline).Methods(http.MethodGet)
	authed.HandleFuncE("/post/", srvr.postPost).Methods(http.MethodPost)
	authed.HandleFuncE("/posts/", srvr.postPost).Methods(http.MethodPost)
	authed.HandleFuncE("/post/{post_id}/like/", srvr.postLike).Methods(http.MethodPost)

	// Account changes need a token straight from a password login
	fresh := serverutil.ErrRouter{Router: r.NewRoute().Subrouter()}
	fresh.Use(requireUserMiddleware(authSvc, srvr.secureCookie, auth.ResolveArgs{RequireFresh: true}))

	fresh.HandleFuncE("/user/me", srvr.patchMe).Methods(http.MethodPatch)

	slog.Debug("configured microblog server", "port", config.Port)

	return &srvr
}

func (s Server) getHealth(w http.ResponseWriter, r *http.Request) error {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			slog.ErrorContext(r.Context(), "store unreachable", "error", err)
			return serverutil.WriteJSON(w, http.StatusServiceUnavailable, struct{}{})
		}
	}

	return serverutil.WriteJSON(w, http.StatusOK, struct{}{})
}

// Cross-origin requests are only allowed when an origin is configured.
// Browsers refuse credentials alongside a wildcard, so the session cookie is
// only offered to a named origin.
func withCORS(origin string, h http.Handler) http.Handler {
	if origin == "" {
		return h
	}

	opts := []handlers.CORSOption{
		handlers.AllowedOrigins([]string{origin}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"content-type", "authorization"}),
	}
	if origin != "*" {
		opts = append(opts, handlers.AllowCredentials())
	}

	return handlers.CORS(opts...)(h)
}
