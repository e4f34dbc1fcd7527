// Package ingredients contains handlers for the ingredients endpoint.
package ingredients

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/env"
	"github.com/foodgram-app/backend/internal/ingredient"
)

// HandleSearchIngredients godoc
//
//	@Summary	Search the ingredient catalog.
//	@Tags		Ingredients
//	@Produce	json
//
//	@Param		name	query		string	false	"Name to match, prefix matches ranked first"
//
//	@Success	200		{array}		ingredient.Ingredient
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients [GET]
func HandleSearchIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	svc := ingredient.NewService(env.Database)
	results, err := svc.Search(ctx, r.URL.Query().Get("name"))
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to search ingredients", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetIngredient godoc
//
//	@Summary	Get an ingredient by id.
//	@Tags		Ingredients
//	@Produce	json
//
//	@Param		ingredientID	path		string	true	"Ingredient ID"
//
//	@Success	200				{object}	ingredient.Ingredient
//	@Failure	404				{object}	apiError.Error	"Ingredient not found"
//	@Failure	500				{object}	apiError.Error	"Internal server error"
//	@Router		/api/ingredients/{ingredientID} [GET]
func HandleGetIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	ingredientID, err := strconv.ParseInt(chi.URLParam(r, "ingredientID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse ingredient id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid ingredient id", requestID)
		return
	}

	svc := ingredient.NewService(env.Database)
	result, err := svc.Get(ctx, ingredientID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.IngredientNotFound, "ingredient not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get ingredient", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
