package v1

import (
	"net/http"
	"strings"
	"time"

	mberrs "github.com/jdholdren/microblog/internal/errors"
)

const maxPostLength = 1024

type (
	CreatePostRequest struct {
		Text     string  `json:"text"`
		ParentID *string `json:"parent_id,omitempty"`
	}

	Post struct {
		ID       string    `json:"id"`
		Text     string    `json:"text"`
		UserID   string    `json:"user_id"`
		ParentID *string   `json:"parent_id"`
		Date     time.Time `json:"date"`
	}

	// PostWithReplies is a post and its direct replies, oldest first.
	PostWithReplies struct {
		Post
		Replies []Post `json:"replies"`
	}
)

func (c CreatePostRequest) Validate() error {
	var errs []mberrs.Detail
	if strings.TrimSpace(c.Text) == "" {
		errs = append(errs, mberrs.Detail{Field: "text", Error: "required"})
	}
	if len(c.Text) > maxPostLength {
		errs = append(errs, mberrs.Detail{Field: "text", Error: "too long"})
	}
	if c.ParentID != nil && *c.ParentID == "" {
		errs = append(errs, mberrs.Detail{Field: "parent_id", Error: "cannot be empty"})
	}
	if len(errs) > 0 {
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, errs)
	}

	return nil
}
