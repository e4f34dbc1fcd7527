// Package users contains handlers for the user resource: registration,
// profiles, password changes and the subscription feed.
package users

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/pagination"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/api/token"
	"github.com/foodgram-app/backend/internal/argon2id"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/env"
	fgJson "github.com/foodgram-app/backend/internal/json"
	"github.com/foodgram-app/backend/internal/password"
	"github.com/foodgram-app/backend/internal/subscription"
)

// Profile is the public user view.
type Profile struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func profileOf(u database.User, isSubscribed bool) Profile {
	return Profile{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
	}
}

func writeJSON(w http.ResponseWriter, e *env.Env, status int, body any) {
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		e.Logger.Error("failed to write response", slog.Any("error", err))
	}
}

func parseUserID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// HandleCreateUser godoc
//
//	@Summary		Register a user.
//	@Description	Creates an account with a strength-checked, argon2id-hashed
//	@Description	password. Email and username must be unused.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//
//	@Param			request	body		CreateUserRequest	true	"Create User Request"
//
//	@Success		201		{object}	Profile
//	@Failure		400		{object}	apiError.Error	"Validation failed"
//	@Failure		409		{object}	apiError.Error	"Email or username in use"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/users [POST]
func HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	var request CreateUserRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationFailed, "invalid request body", requestID)
		return
	}

	if err := password.ValidatePassword(request.Password); err != nil {
		e.Logger.ErrorContext(ctx, "failed to validate password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	hash, err := argon2id.EncodeHash(request.Password, argon2id.DefaultParams)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	user, err := e.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        request.Email,
		Username:     request.Username,
		FirstName:    request.FirstName,
		LastName:     request.LastName,
		PasswordHash: hash,
		Role:         database.RoleUser,
	})
	if database.UniqueViolation(err, "users_unique_email") {
		e.Logger.ErrorContext(ctx, "user with email already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.EmailConflict, "email already in use", requestID)
		return
	}
	if database.UniqueViolation(err, "users_unique_username") {
		e.Logger.ErrorContext(ctx, "user with username already exists", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.UsernameConflict, "username already in use", requestID)
		return
	}
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to create user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, e, http.StatusCreated, profileOf(user, false))
}

// HandleGetMe godoc
//
//	@Summary	Get the signed-in user's profile.
//	@Tags		Users
//	@Produce	json
//
//	@Success	200	{object}	Profile
//	@Failure	401	{object}	apiError.Error	"Unauthorized"
//	@Failure	500	{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/me [GET]
func HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	user, err := e.Database.GetUserByID(ctx, userID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, e, http.StatusOK, profileOf(user, false))
}

// HandleGetUser godoc
//
//	@Summary		Get a user profile.
//	@Description	is_subscribed reflects the signed-in viewer; it is false
//	@Description	for anonymous requests.
//	@Tags			Users
//	@Produce		json
//
//	@Param			userID	path		string	true	"User ID"
//
//	@Success		200		{object}	Profile
//	@Failure		404		{object}	apiError.Error	"User not found"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//	@Router			/api/users/{userID} [GET]
func HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := parseUserID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	user, err := e.Database.GetUserByID(ctx, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
		return
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	isSubscribed := false
	if viewer := token.ViewerFromCtx(ctx); viewer != nil && *viewer != user.ID {
		isSubscribed, err = e.Database.CheckSubscription(ctx, database.CheckSubscriptionParams{
			SubscriberID: *viewer,
			TargetID:     user.ID,
		})
		if err != nil {
			e.Logger.ErrorContext(ctx, "failed to check subscription", slog.Any("error", err))
			_ = apiError.EncodeInternalError(w, requestID)
			return
		}
	}

	writeJSON(w, e, http.StatusOK, profileOf(user, isSubscribed))
}

// HandleSetPassword godoc
//
//	@Summary		Change the signed-in user's password.
//	@Description	Requires the current password and applies the same
//	@Description	strength policy as registration.
//	@Tags			Users
//	@Accept			json
//
//	@Param			request	body	SetPasswordRequest	true	"Set Password Request"
//
//	@Success		204		"Password changed"
//	@Failure		400		{object}	apiError.Error	"Current password incorrect or new password weak"
//	@Failure		401		{object}	apiError.Error	"Unauthorized"
//	@Failure		500		{object}	apiError.Error	"Internal server error"
//
//	@Security		AccessTokenCookie
//	@Router			/api/users/set_password [POST]
func HandleSetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	var request SetPasswordRequest
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
		_ = apiError.EncodeError(w, apiError.ValidationFailed, "invalid request body", requestID)
		return
	}

	user, err := e.Database.GetUserByID(ctx, userID)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	match, err := argon2id.ComparePassword(request.CurrentPassword, user.PasswordHash)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to compare passwords", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}
	if !match {
		e.Logger.ErrorContext(ctx, "current password is incorrect")
		_ = apiError.EncodeError(w, apiError.InvalidPassword, "current password is incorrect", requestID)
		return
	}

	if err := password.ValidatePassword(request.NewPassword); err != nil {
		e.Logger.ErrorContext(ctx, "failed to validate new password", slog.Any("error", err))
		_ = apiError.EncodeError(w, apiError.WeakPassword, err.Error(), requestID)
		return
	}

	hash, err := argon2id.EncodeHash(request.NewPassword, argon2id.DefaultParams)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to hash password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	if err := e.Database.UpdateUserPassword(ctx, database.UpdateUserPasswordParams{
		ID:           userID,
		PasswordHash: hash,
	}); err != nil {
		e.Logger.ErrorContext(ctx, "failed to update password", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleListSubscriptions godoc
//
//	@Summary		List followed authors.
//	@Description	Returns the subscription feed: each entry is the author's
//	@Description	profile, their recipes in short form (capped by
//	@Description	recipes_limit) and the total recipe count.
//	@Tags			Subscriptions
//	@Produce		json
//
//	@Param			page			query		int	false	"Page number"
//	@Param			limit			query		int	false	"Page size"
//	@Param			recipes_limit	query		int	false	"Recipes per author"
//
//	@Success		200				{object}	pagination.Page
//	@Failure		401				{object}	apiError.Error	"Unauthorized"
//	@Failure		500				{object}	apiError.Error	"Internal server error"
//
//	@Security		AccessTokenCookie
//	@Router			/api/users/subscriptions [GET]
func HandleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	params := pagination.ParseParams(r, subscription.DefaultPageSize, 100)
	svc := subscription.NewService(e.Database, e.FileStore)
	views, total, err := svc.List(ctx, userID, params.Page, params.Limit, parseRecipesLimit(r))
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to list subscriptions", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	writeJSON(w, e, http.StatusOK, pagination.New(r, total, params, views))
}

// HandleSubscribe godoc
//
//	@Summary	Follow an author.
//	@Tags		Subscriptions
//	@Produce	json
//
//	@Param		userID	path		string	true	"Author ID"
//
//	@Success	201		{object}	subscription.View
//	@Failure	400		{object}	apiError.Error	"Self subscription or already subscribed"
//	@Failure	404		{object}	apiError.Error	"Author not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{userID}/subscribe [POST]
func HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	authorID, err := parseUserID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	svc := subscription.NewService(e.Database, e.FileStore)
	view, err := svc.Subscribe(ctx, userID, authorID, parseRecipesLimit(r))
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to subscribe", slog.Any("error", err))
		encodeSubscriptionError(w, err, requestID)
		return
	}

	writeJSON(w, e, http.StatusCreated, view)
}

// HandleUnsubscribe godoc
//
//	@Summary	Unfollow an author.
//	@Tags		Subscriptions
//
//	@Param		userID	path	string	true	"Author ID"
//
//	@Success	204		"Unsubscribed"
//	@Failure	400		{object}	apiError.Error	"Not subscribed"
//	@Failure	404		{object}	apiError.Error	"Author not found"
//	@Failure	500		{object}	apiError.Error	"Internal server error"
//
//	@Security	AccessTokenCookie
//	@Router		/api/users/{userID}/subscribe [DELETE]
func HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	userID, err := token.UserIDFromCtx(ctx)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract user id from context", slog.Any("error", err))
		_ = apiError.EncodeInternalError(w, requestID)
		return
	}

	authorID, err := parseUserID(r)
	if err != nil {
		_ = apiError.EncodeError(w, apiError.BadRequest, "invalid user id", requestID)
		return
	}

	svc := subscription.NewService(e.Database, e.FileStore)
	if err := svc.Unsubscribe(ctx, userID, authorID); err != nil {
		e.Logger.ErrorContext(ctx, "failed to unsubscribe", slog.Any("error", err))
		encodeSubscriptionError(w, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func encodeSubscriptionError(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, subscription.ErrSelfSubscribe):
		_ = apiError.EncodeError(w, apiError.SelfSubscription, "cannot subscribe to yourself", requestID)
	case errors.Is(err, subscription.ErrAlreadySubscribed):
		_ = apiError.EncodeError(w, apiError.AlreadySubscribed, "already subscribed", requestID)
	case errors.Is(err, subscription.ErrNotSubscribed):
		_ = apiError.EncodeError(w, apiError.NotSubscribed, "not subscribed", requestID)
	case errors.Is(err, subscription.ErrAuthorNotFound):
		_ = apiError.EncodeError(w, apiError.UserNotFound, "user not found", requestID)
	default:
		_ = apiError.EncodeInternalError(w, requestID)
	}
}
