package api

import (
	"net/http"

	v1 "github.com/jdholdren/microblog/api/v1"
	"github.com/jdholdren/microblog/internal/auth"
	mberrs "github.com/jdholdren/microblog/internal/errors"
	"github.com/jdholdren/microblog/internal/serverutil"
)

// Exchanges a username and password for a token pair, OAuth2 password grant
// style. The access token is also put in the session cookie.
func (s Server) postToken(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return mberrs.E(err, http.StatusBadRequest)
	}

	var (
		username = r.PostForm.Get("username")
		password = r.PostForm.Get("password")
		errs     []mberrs.Detail
	)
	if grant := r.PostForm.Get("grant_type"); grant != "" && grant != "password" {
		errs = append(errs, mberrs.Detail{Field: "grant_type", Error: "must be password"})
	}
	if username == "" {
		errs = append(errs, mberrs.Detail{Field: "username", Error: "required"})
	}
	if password == "" {
		errs = append(errs, mberrs.Detail{Field: "password", Error: "required"})
	}
	if len(errs) > 0 {
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, errs)
	}

	pair, err := s.auth.Login(r.Context(), username, password)
	if auth.IsKind(err, auth.KindInvalidCredentials) {
		return mberrs.E("Incorrect username or password", http.StatusUnauthorized, challenge)
	}
	if err != nil {
		return err
	}

	return s.writeTokens(w, pair)
}

func (s Server) postRefresh(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[v1.RefreshRequest](r.Body)
	if err != nil {
		return err
	}

	pair, err := s.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return unauthorized(err)
	}

	return s.writeTokens(w, pair)
}

func (s Server) postLogout(w http.ResponseWriter, r *http.Request) error {
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{}, 0)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s Server) writeTokens(w http.ResponseWriter, pair auth.TokenPair) error {
	setSession(w, s.secureCookie, s.httpsCookies, sessionState{AccessToken: pair.AccessToken}, pair.ExpiresIn)
	w.Header().Set("Cache-Control", "no-store")

	return serverutil.WriteJSON(w, http.StatusOK, v1.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(pair.ExpiresIn.Seconds()),
	})
}
