package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	v1 "github.com/jdholdren/microblog/api/v1"
	mberrs "github.com/jdholdren/microblog/internal/errors"
	"github.com/jdholdren/microblog/internal/feed"
	"github.com/jdholdren/microblog/internal/microblog"
	"github.com/jdholdren/microblog/internal/serverutil"
)

func (s Server) postPost(w http.ResponseWriter, r *http.Request) error {
	req, err := serverutil.DecodeValid[v1.CreatePostRequest](r.Body)
	if err != nil {
		return err
	}

	post, err := s.feed.CreatePost(r.Context(), currentUser(r.Context()).ID, feed.CreatePostArgs{
		Text:     req.Text,
		ParentID: req.ParentID,
	})
	switch {
	case errors.Is(err, microblog.ErrNotFound):
		return mberrs.E("Parent post not found", http.StatusNotFound)
	case errors.Is(err, feed.ErrEmptyPost):
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, mberrs.Detail{Field: "text", Error: "required"})
	case errors.Is(err, feed.ErrProfanePost):
		return mberrs.E("profanity detected in post", http.StatusUnprocessableEntity)
	case err != nil:
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, toPost(post))
}

func (s Server) getPosts(w http.ResponseWriter, r *http.Request) error {
	page, err := parsePage(r)
	if err != nil {
		return err
	}

	posts, err := s.feed.RootPosts(r.Context(), page)
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toPosts(posts))
}

func (s Server) getPost(w http.ResponseWriter, r *http.Request) error {
	thread, err := s.feed.PostWithReplies(r.Context(), mux.Vars(r)["post_id"])
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("Post not found", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, v1.PostWithReplies{
		Post:    toPost(thread.Post),
		Replies: toPosts(thread.Replies),
	})
}

func (s Server) getUserPosts(w http.ResponseWriter, r *http.Request) error {
	var includeReplies bool
	if raw := r.URL.Query().Get("include_replies"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return mberrs.E("invalid request", http.StatusUnprocessableEntity, mberrs.Detail{Field: "include_replies", Error: "must be a boolean"})
		}
		includeReplies = b
	}

	posts, err := s.feed.UserPosts(r.Context(), mux.Vars(r)["username"], includeReplies)
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("User not found", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toPosts(posts))
}

func (s Server) postLike(w http.ResponseWriter, r *http.Request) error {
	err := s.feed.Like(r.Context(), currentUser(r.Context()).ID, mux.Vars(r)["post_id"])
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("Post not found", http.StatusNotFound)
	}
	if errors.Is(err, microblog.ErrConflict) {
		return mberrs.E("You already liked this post", http.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusCreated, v1.Message{Message: "Post liked successfully"})
}

func (s Server) getLikedPosts(w http.ResponseWriter, r *http.Request) error {
	posts, err := s.feed.LikedPosts(r.Context(), mux.Vars(r)["username"])
	if errors.Is(err, microblog.ErrNotFound) {
		return mberrs.E("User not found", http.StatusNotFound)
	}
	if err != nil {
		return err
	}

	return serverutil.WriteJSON(w, http.StatusOK, toPosts(posts))
}
