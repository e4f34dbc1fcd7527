// Package pagination builds the paged response envelope.
package pagination

import (
	"net/http"
	"net/url"
	"strconv"
)

// Page is the envelope wrapping every paginated listing.
type Page struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// Params are the page/limit query values with defaults applied.
type Params struct {
	Page  int32
	Limit int32
}

// ParseParams reads page and limit from the query string. Malformed
// or out-of-range values fall back to the defaults.
func ParseParams(r *http.Request, defaultLimit, maxLimit int32) Params {
	p := Params{Page: 1, Limit: defaultLimit}

	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v >= 1 {
			p.Page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v >= 1 {
			p.Limit = int32(v)
			if maxLimit > 0 && p.Limit > maxLimit {
				p.Limit = maxLimit
			}
		}
	}
	return p
}

// New assembles the envelope, deriving next/previous links from the
// request URL.
func New(r *http.Request, count int64, params Params, results any) Page {
	page := Page{
		Count:   count,
		Results: results,
	}

	if int64(params.Page)*int64(params.Limit) < count {
		next := pageURL(r.URL, params.Page+1)
		page.Next = &next
	}
	if params.Page > 1 {
		previous := pageURL(r.URL, params.Page-1)
		page.Previous = &previous
	}
	return page
}

func pageURL(u *url.URL, page int32) string {
	clone := *u
	q := clone.Query()
	q.Set("page", strconv.FormatInt(int64(page), 10))
	clone.RawQuery = q.Encode()
	return clone.String()
}
