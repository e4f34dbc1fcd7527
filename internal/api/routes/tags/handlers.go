// Package tags contains handlers for the tags endpoint.
package tags

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
)

type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// HandleListTags godoc
//
//	@Summary	List all tags.
//	@Tags		Tags
//	@Produce	json
//
//	@Success	200	{array}		TagResponse
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags [GET]
func HandleListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	rows, err := env.Database.ListTags(ctx)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to list tags", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	resp := make([]TagResponse, 0, len(rows))
	for _, t := range rows {
		resp = append(resp, TagResponse{
			ID:    t.ID,
			Name:  t.Name,
			Color: t.Color,
			Slug:  t.Slug,
		})
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}

// HandleGetTag godoc
//
//	@Summary	Get a tag by id.
//	@Tags		Tags
//	@Produce	json
//
//	@Param		tagID	path		string	true	"Tag ID"
//
//	@Success	200		{object}	TagResponse
//	@Failure	404		{object}	apiError.Error	"Tag not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//	@Router		/api/tags/{tagID} [GET]
func HandleGetTag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	env := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	tagID, err := strconv.ParseInt(chi.URLParam(r, "tagID"), 10, 64)
	if err != nil {
		env.Logger.ErrorContext(ctx, "failed to parse tag id", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid tag id", requestID)
		return
	}

	tag, err := env.Database.GetTag(ctx, tagID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.TagNotFound, "tag not found", requestID)
		return
	} else if err != nil {
		env.Logger.ErrorContext(ctx, "failed to get tag", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}); err != nil {
		env.Logger.ErrorContext(ctx, "failed to write response", slog.Any("error", err))
	}
}
