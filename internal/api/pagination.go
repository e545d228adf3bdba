package api

import (
	"net/http"
	"strconv"

	mberrs "github.com/jdholdren/microblog/internal/errors"
	"github.com/jdholdren/microblog/internal/feed"
)

const maxPageLimit = 100

// Parses pagination parameters from an HTTP request.
// Supports offset-based pagination (?offset=20&limit=10). Without a limit the
// whole listing comes back, so an offset on its own is rejected.
func parsePage(r *http.Request) (feed.Page, error) {
	query := r.URL.Query()

	var (
		page feed.Page
		errs []mberrs.Detail
	)
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, mberrs.Detail{Field: "limit", Error: "must be a non-negative integer"})
		}
		page.Limit = min(limit, maxPageLimit)
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs = append(errs, mberrs.Detail{Field: "offset", Error: "must be a non-negative integer"})
		}
		page.Offset = offset
		if query.Get("limit") == "" {
			errs = append(errs, mberrs.Detail{Field: "offset", Error: "requires a limit"})
		}
	}
	if len(errs) > 0 {
		return feed.Page{}, mberrs.E("invalid pagination", http.StatusUnprocessableEntity, errs)
	}

	return page, nil
}
