package v1

import (
	"net/http"

	mberrs "github.com/jdholdren/microblog/internal/errors"
)

type (
	// TokenResponse follows the OAuth2 token endpoint response.
	TokenResponse struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int64  `json:"expires_in"`
	}

	RefreshRequest struct {
		RefreshToken string `json:"refresh_token"`
	}
)

func (r RefreshRequest) Validate() error {
	if r.RefreshToken == "" {
		return mberrs.E("invalid request", http.StatusUnprocessableEntity, mberrs.Detail{Field: "refresh_token", Error: "required"})
	}

	return nil
}
