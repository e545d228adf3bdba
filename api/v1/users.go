// Package v1 holds the request and response bodies of the microblog HTTP API.
package v1

import (
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode"

	mberrs "github.com/jdholdren/microblog/internal/errors"
)

const (
	maxUsernameLength = 64
	maxBioLength      = 512
	maxPasswordLength = 72 // bcrypt ignores anything longer
)

type (
	CreateUserRequest struct {
		Email    string  `json:"email"`
		Username string  `json:"username"`
		Password string  `json:"password"`
		Avatar   *string `json:"avatar,omitempty"`
		Bio      *string `json:"bio,omitempty"`
	}

	// UpdateUserRequest changes only the fields that are present.
	UpdateUserRequest struct {
		Email    *string `json:"email,omitempty"`
		Password *string `json:"password,omitempty"`
		Avatar   *string `json:"avatar,omitempty"`
		Bio      *string `json:"bio,omitempty"`
	}

	// User is the public projection of an account. It never carries the
	// password hash.
	User struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Email     string    `json:"email"`
		Avatar    *string   `json:"avatar"`
		Bio       *string   `json:"bio"`
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	// Message is the body of an action that has nothing else to return.
	Message struct {
		Message string `json:"message"`
	}
)

func (c CreateUserRequest) Validate() error {
	var errs []mberrs.Detail
	errs = append(errs, validateEmail(c.Email)...)
	errs = append(errs, validateUsername(c.Username)...)
	errs = append(errs, validatePassword(c.Password)...)
	if c.Bio != nil && len(*c.Bio) > maxBioLength {
		errs = append(errs, mberrs.Detail{Field: "bio", Error: "too long"})
	}
	if len(errs) > 0 {
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, errs)
	}

	return nil
}

func (u UpdateUserRequest) Validate() error {
	var errs []mberrs.Detail
	if u.Email == nil && u.Password == nil && u.Avatar == nil && u.Bio == nil {
		errs = append(errs, mberrs.Detail{Field: "", Error: "nothing to update"})
	}
	if u.Email != nil {
		errs = append(errs, validateEmail(*u.Email)...)
	}
	if u.Password != nil {
		errs = append(errs, validatePassword(*u.Password)...)
	}
	if u.Bio != nil && len(*u.Bio) > maxBioLength {
		errs = append(errs, mberrs.Detail{Field: "bio", Error: "too long"})
	}
	if len(errs) > 0 {
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, errs)
	}

	return nil
}

func validateEmail(email string) []mberrs.Detail {
	if strings.TrimSpace(email) == "" {
		return []mberrs.Detail{{Field: "email", Error: "required"}}
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return []mberrs.Detail{{Field: "email", Error: "not a valid email address"}}
	}

	return nil
}

func validateUsername(username string) []mberrs.Detail {
	switch {
	case username == "":
		return []mberrs.Detail{{Field: "username", Error: "required"}}
	case len(username) > maxUsernameLength:
		return []mberrs.Detail{{Field: "username", Error: "too long"}}
	case strings.ContainsFunc(username, func(r rune) bool { return unicode.IsSpace(r) || r == '/' }):
		return []mberrs.Detail{{Field: "username", Error: "cannot contain spaces or slashes"}}
	}

	return nil
}

func validatePassword(password string) []mberrs.Detail {
	switch {
	case password == "":
		return []mberrs.Detail{{Field: "password", Error: "required"}}
	case len(password) > maxPasswordLength:
		return []mberrs.Detail{{Field: "password", Error: "too long"}}
	}

	return nil
}
