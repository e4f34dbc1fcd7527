package recipes

import (
	"net/http"
	"strconv"

	"github.com/foodgram-app/backend/internal/api/pagination"
	"github.com/foodgram-app/backend/internal/recipe"
)

// parseListFilter reads the listing filters from the query string.
// Malformed boolean or author values are ignored rather than
// rejected, and the relation filters only apply to signed-in
// viewers.
func parseListFilter(r *http.Request, viewer *int64) (recipe.ListFilter, pagination.Params) {
	params := pagination.ParseParams(r, recipe.DefaultPageSize, recipe.MaxPageSize)
	query := r.URL.Query()

	filter := recipe.ListFilter{
		Viewer: viewer,
		Page:   params.Page,
		Limit:  params.Limit,
	}

	if raw := query.Get("author"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filter.AuthorID = &id
		}
	}

	if slugs, ok := query["tags"]; ok {
		filter.TagSlugs = slugs
	}

	if viewer != nil {
		if v, err := strconv.ParseBool(query.Get("is_favorited")); err == nil {
			filter.OnlyFavorited = v
		}
		if v, err := strconv.ParseBool(query.Get("is_in_shopping_cart")); err == nil {
			filter.OnlyInCart = v
		}
	}

	return filter, params
}
