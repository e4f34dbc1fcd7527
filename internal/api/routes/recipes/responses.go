package recipes

import (
	"errors"
	"net/http"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/recipe"
)

// encodeServiceError maps recipe service errors onto the API error
// taxonomy.
func encodeServiceError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, recipe.ErrNotFound):
		_ = apiError.EncodeError(w, apiError.RecipeNotFound, "recipe not found", requestID)
	case errors.Is(err, recipe.ErrNotOwner):
		_ = apiError.EncodeError(w, apiError.RecipeNotOwned, "recipe not owned by user", requestID)
	case errors.Is(err, recipe.ErrValidation):
		_ = apiError.EncodeError(w, apiError.ValidationFailed, err.Error(), requestID)
	case errors.Is(err, recipe.ErrInFavorites):
		_ = apiError.EncodeError(w, apiError.AlreadyInFavorites, "recipe already in favorites", requestID)
	case errors.Is(err, recipe.ErrNotInFavorites):
		_ = apiError.EncodeError(w, apiError.NotInFavorites, "recipe not in favorites", requestID)
	case errors.Is(err, recipe.ErrInCart):
		_ = apiError.EncodeError(w, apiError.AlreadyInCart, "recipe already in shopping cart", requestID)
	case errors.Is(err, recipe.ErrNotInCart):
		_ = apiError.EncodeError(w, apiError.NotInCart, "recipe not in shopping cart", requestID)
	default:
		_ = apiError.EncodeInternalError(w, requestID)
	}
}
