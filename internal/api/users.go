package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	v1 "github.com/jdholdren/microblog/api/v1"
	"github.com/jdholdren/microblog/internal/auth"
	mberrs "github.com/jdholdren/microblog/internal/errors"
	"github.com/jdholdren/microblog/internal/microblog"
	"github.com/jdholdren/microblog/internal/serverutil"
)

func (s Server) postUser(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[v1.CreateUserRequest](r.Body)
	if err != nil {
		return err
	}

	usr, err := s.auth.Register(r.Context(), auth.RegisterArgs{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	})
	if errors.Is(err, microblog.ErrConflict) {
		return mberrs.E("Email or username already registered", http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, toUser(usr))
}

func (s Server) getUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := s.users.AllUsers(r.Context())
	if err != nil {
		return err
	}

	resp := make([]v1.User, 0, len(users))
	for _, usr := range users {
		resp = append(resp, toUser(usr))
	}

	return serverutil.WriteJSON(w, http.StatusOK, resp)
}

func (s Server) getUser(w http.ResponseWriter, r *http.Request) error {
	usr, err := s.users.UserByUsername(r.Context(), mux.Vars(r)["username"])
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("User not found", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toUser(usr))
}

func (s Server) getMe(w http.ResponseWriter, r *http.Request) error {
	return serverutil.WriteJSON(w, http.StatusOK, toUser(currentUser(r.Context())))
}

func (s Server) patchMe(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[v1.UpdateUserRequest](r.Body)
	if err != nil {
		return err
	}

	args := auth.UpdateAccountArgs{
		Avatar: req.Avatar,
		Bio:    req.Bio,
	}
	if req.Email != nil {
		args.Email = *req.Email
	}
	if req.Password != nil {
		args.Password = *req.Password
	}

	usr, err := s.auth.UpdateAccount(r.Context(), currentUser(r.Context()).ID, args)
	if errors.Is(err, microblog.ErrConflict) {
		return mberrs.E("Email already registered", http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toUser(usr))
}

func (s Server) postFollow(w http.ResponseWriter, r *http.Request) error {
	var (
		me         = currentUser(r.Context())
		followeeID = mux.Vars(r)["user_id"]
	)
	if followeeID == me.ID {
		return mberrs.E("You cannot follow yourself", http.StatusBadRequest)
	}

	followee, err := s.feed.Follow(r.Context(), me.ID, followeeID)
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("User not found", http.StatusNotFound)
	}
	if errors.Is(err, microblog.ErrConflict) {
		return mberrs.E("You already follow this user", http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, v1.Message{
		Message: fmt.Sprintf("Now following user %s", followee.Username),
	})
}

func (s Server) getTimeline(w http.ResponseWriter, r *http.Request) error {
	page, err := parsePage(r)
	if err != nil {
		return err
	}

	posts, err := s.feed.Timeline(r.Context(), currentUser(r.Context()).ID, page)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toPosts(posts))
}

