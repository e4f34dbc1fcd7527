// Package recipes contains handlers for the recipes endpoint.
package recipes

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/pagination"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/api/token"
	"github.com/foodgram-app/backend/internal/env"
	fgJson "github.com/foodgram-app/backend/internal/json"
	"github.com/foodgram-app/backend/internal/recipe"
	"github.com/foodgram-app/backend/internal/shoppinglist"
)

func service(e *env.Env) *recipe.Service {
	return recipe.NewService(e.Database, e.FileStore, e.HTTP)
}

func parseRecipeID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "recipeID"), 10, 64)
}

func writeJSON(w http.ResponseWriter, e *env.Env, status int, body any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		e.Logger.Error("failed to write response", slog.Any("error", err))
	}
}

// HandleListRecipes godoc
//
//	@Summary		List recipes.
//	@Description	Returns recipes newest first. Supports author, tag slug,
//	@Description	favorited and shopping cart filters; the latter two only
//	@Description	apply to signed-in viewers.
//	@Tags			Recipes
//	@Produce		json
//
//	@Param			page				query		int		false	"Page number"
//	@Param			limit				query		int		false	"Page size"
//	@Param			author				query		int		false	"Filter by author id"
//	@Param			tags				query		[]string false	"Filter by tag slugs"
//	@Param			is_favorited		query		bool	false	"Only favorited recipes"
//	@Param			is_in_shopping_cart	query		bool	false	"Only recipes in the cart"
//
//	@Success		200					{object}	pagination.Page
//	@Failure		500					{object}	apiError.Error	"Internal server error"
//	@Router			/api/recipes [GET]
func HandleListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	viewer := token.ViewerFromCtx(ctx)
	filter, params := parseListFilter(r, viewer)

	views, total, err := service(e).List(ctx, filter)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to list recipes", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, e, http.StatusOK, pagination.New(r, total, params, views))
}

// HandleGetRecipe godoc
//
//	@Summary	Get a recipe.
//	@Tags		Recipes
//	@Produce	json
//
//	@Param		recipeID	path		string	true	"Recipe ID"
//
//	@Success	200			{object}	recipe.View
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//	@Router		/api/recipes/{recipeID} [GET]
func HandleGetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	view, err := service(e).Get(ctx, token.ViewerFromCtx(ctx), recipeID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to get recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusOK, view)
}

// HandleCreateRecipe godoc
//
//	@Summary		Create a recipe.
//	@Description	Creates a recipe with its tag set and ingredient lines in
//	@Description	one transaction and returns the full view.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		recipe.CreatePayload	true	"Create Recipe Request"
//
//	@Success		201		{object}	recipe.View
//	@Failure		400		{object}	apiError.Error	"Validation failed"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//
//	@Security		AccessTokenCookie
//	@Router			/api/recipes [POST]
func HandleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var payload recipe.CreatePayload
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := fgJson.DecodeJSON(&payload, decoder); err != nil {
		e.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	view, err := service(e).Create(ctx, userID, payload)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to create recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusCreated, view)
}

// HandleUpdateRecipe godoc
//
//	@Summary		Update a recipe.
//	@Description	Replaces the tag set and ingredient lines wholesale and
//	@Description	patches any provided scalar fields. Author only.
//	@Tags			Recipes
//	@Accept			json
//	@Produce		json
//
//	@Param			recipeID	path		string					true	"Recipe ID"
//	@Param			request		body		recipe.UpdatePayload	true	"Update Recipe Request"
//
//	@Success		200			{object}	recipe.View
//	@Failure		400			{object}	apiError.Error	"Validation failed"
//	@Failure		403			{object}	apiError.Error	"Recipe not owned"
//	@Failure		404			{object}	apiError.Error	"Recipe not found"
//	@Failure		500			{object}	apiError.Error	"Internal server error"
//
//	@Security		AccessTokenCookie
//	@Router			/api/recipes/{recipeID} [PATCH]
func HandleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	var payload recipe.UpdatePayload
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := fgJson.DecodeJSON(&payload, decoder); err != nil {
		e.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	view, err := service(e).Update(ctx, userID, token.IsAdminFromCtx(ctx), recipeID, payload)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to update recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusOK, view)
}

// HandleDeleteRecipe godoc
//
//	@Summary	Delete a recipe.
//	@Tags		Recipes
//
//	@Param		recipeID	path	string	true	"Recipe ID"
//
//	@Success	204			"Recipe deleted"
//	@Failure	403			{object}	apiError.Error	"Recipe not owned"
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{recipeID} [DELETE]
func HandleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	if err := service(e).Delete(ctx, userID, token.IsAdminFromCtx(ctx), recipeID); err != nil {
		e.Logger.ErrorContext(ctx, "failed to delete recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleFavoriteRecipe godoc
//
//	@Summary	Add a recipe to favorites.
//	@Tags		Recipes, Favorites
//	@Produce	json
//
//	@Param		recipeID	path		string	true	"Recipe ID"
//
//	@Success	201			{object}	recipe.Summary
//	@Failure	400			{object}	apiError.Error	"Already in favorites"
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{recipeID}/favorite [POST]
func HandleFavoriteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	summary, err := service(e).Favorite(ctx, userID, recipeID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to favorite recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusCreated, summary)
}

// HandleUnfavoriteRecipe godoc
//
//	@Summary	Remove a recipe from favorites.
//	@Tags		Recipes, Favorites
//
//	@Param		recipeID	path	string	true	"Recipe ID"
//
//	@Success	204			"Removed from favorites"
//	@Failure	400			{object}	apiError.Error	"Not in favorites"
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{recipeID}/favorite [DELETE]
func HandleUnfavoriteRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	if err := service(e).Unfavorite(ctx, userID, recipeID); err != nil {
		e.Logger.ErrorContext(ctx, "failed to unfavorite recipe", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleAddToCart godoc
//
//	@Summary	Add a recipe to the shopping cart.
//	@Tags		Recipes, ShoppingCart
//	@Produce	json
//
//	@Param		recipeID	path		string	true	"Recipe ID"
//
//	@Success	201			{object}	recipe.Summary
//	@Failure	400			{object}	apiError.Error	"Already in cart"
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{recipeID}/shopping_cart [POST]
func HandleAddToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	summary, err := service(e).AddToCart(ctx, userID, recipeID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to add recipe to cart", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusCreated, summary)
}

// HandleRemoveFromCart godoc
//
//	@Summary	Remove a recipe from the shopping cart.
//	@Tags		Recipes, ShoppingCart
//
//	@Param		recipeID	path	string	true	"Recipe ID"
//
//	@Success	204			"Removed from cart"
//	@Failure	400			{object}	apiError.Error	"Not in cart"
//	@Failure	404			{object}	apiError.Error	"Recipe not found"
//	@Failure	500			{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/recipes/{recipeID}/shopping_cart [DELETE]
func HandleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	recipeID, err := parseRecipeID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid recipe id", requestID)
		return
	}

	if err := service(e).RemoveFromCart(ctx, userID, recipeID); err != nil {
		e.Logger.ErrorContext(ctx, "failed to remove recipe from cart", slog.Any("error", err))
		encodeServiceError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDownloadShoppingCart godoc
//
//	@Summary		Download the aggregated shopping list.
//	@Description	Sums ingredient amounts across every recipe in the cart,
//	@Description	grouped by name and unit. Format is txt or csv.
//	@Tags			ShoppingCart
//	@Produce		plain
//
//	@Param			format	query		string	false	"txt (default) or csv"
//
//	@Success		200		{string}	string	"Shopping list document"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//
//	@Security		AccessTokenCookie
//	@Router			/api/recipes/download_shopping_cart [GET]
func HandleDownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	lines, err := shoppinglist.NewService(e.Database).Aggregate(ctx, userID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to aggregate shopping list", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var body []byte
	var contentType, filename string
	switch r.URL.Query().Get("format") {
	case "csv":
		body, err = shoppinglist.RenderCSV(lines)
		if err != nil {
			e.Logger.ErrorContext(ctx, "failed to render shopping list", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
		contentType, filename = "text/csv", "shopping_list.csv"
	default:
		body = shoppinglist.RenderText(lines)
		contentType, filename = "text/plain; charset=utf-8", "shopping_list.txt"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	if _, err := w.Write(body); err != nil {
		e.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
