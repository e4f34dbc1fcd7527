// Package auth contains handlers for the auth endpoints.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/api/token"
	"github.com/foodgram-app/backend/internal/argon2id"
	"github.com/foodgram-app/backend/internal/env"
	fgJson "github.com/foodgram-app/backend/internal/json"
	"github.com/foodgram-app/backend/internal/role"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin godoc
//
//	@Summary		Log in.
//	@Description	Verifies the credentials and sets the access token cookie.
//	@Tags			Auth
//	@Accept			json
//
//	@Param			request	body	LoginRequest	true	"Login Request"
//
//	@Success		204		"Logged in"
//	@Failure		400		{object}	apiError.Error	"Invalid request body"
//	@Failure		401		{object}	apiError.Error	"Invalid credentials"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/auth/login [POST]
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var request LoginRequest
	defer func() { _ = r.Body.Close() }()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := fgJson.DecodeJSON(&request, decoder); err != nil {
		e.Logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(request); err != nil {
		e.Logger.ErrorContext(ctx, "failed to validate request body", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid request body", requestID)
		return
	}

	user, err := e.Database.GetUserByEmail(ctx, request.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		e.Logger.ErrorContext(ctx, "user with email does not exist", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "failed to retrieve user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	match, err := argon2id.ComparePassword(request.Password, user.PasswordHash)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to compare passwords", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		e.Logger.ErrorContext(ctx, "given password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidCredentials, "email or password is incorrect", requestID)
		return
	}

	accessToken, err := token.CreateAccessToken(user.ID, role.FromUser(user), e.Config)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to create access token", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	http.SetCookie(w, token.NewAccessTokenCookie(accessToken, e.Config))
	w.WriteHeader(http.StatusNoContent)
}

// HandleLogout godoc
//
//	@Summary	Log out.
//	@Tags		Auth
//
//	@Success	204	"Logged out"
//	@Router		/api/auth/logout [POST]
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	e := env.EnvFromCtx(r.Context())

	http.SetCookie(w, token.NewExpiredAccessTokenCookie(e.Config))
	w.WriteHeader(http.StatusNoContent)
}
