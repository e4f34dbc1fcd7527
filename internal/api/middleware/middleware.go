// Package middleware contains middleware functions for the API
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/httplog/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	apiError "github.com/foodgram-app/backend/internal/api/error"
	"github.com/foodgram-app/backend/internal/api/requestid"
	"github.com/foodgram-app/backend/internal/api/token"
	"github.com/foodgram-app/backend/internal/config"
	"github.com/foodgram-app/backend/internal/env"
	fgJwt "github.com/foodgram-app/backend/internal/jwt"
	"github.com/foodgram-app/backend/internal/log"
	"github.com/foodgram-app/backend/internal/role"
)

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// InjectEnv injects an environment struct into the request context.
func InjectEnv(environment *env.Env) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(env.WithCtx(r.Context(), environment)))
		})
	}
}

func LogRequest(logger *slog.Logger) func(http.Handler) http.Handler {
	return httplog.RequestLogger(logger, &httplog.Options{
		LogExtraAttrs: func(r *http.Request, reqBody string, respStatus int) []slog.Attr {
			requestID := r.Context().Value(requestIDKey)
			if id, ok := requestID.(uint64); ok {
				return []slog.Attr{slog.Uint64("log_id", id)}
			}
			return []slog.Attr{slog.String("log_id", "N/A")}
		},
	})
}

// AddRequestID adds a request ID to the request context.
func AddRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := ulid.Now()
		r = r.WithContext(log.AppendCtx(r.Context(), slog.Uint64("log_id", requestID)))
		r = r.WithContext(requestid.InjectRequestID(r.Context(), requestID))
		next.ServeHTTP(w, r)
	})
}

// AddCors adds the necessary CORS headers to the response.
func AddCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e := env.EnvFromCtx(r.Context())
		origin := r.Header.Get("Origin")
		hostOrigin := e.Config.HostOrigin
		isProd := e.Config.Env == config.EnvProd

		// Determine allowed origin based on the incoming Origin header
		var allowedOrigin string
		if isProd {
			allowedOrigin = hostOrigin
		} else if origin != "" {
			// In dev mode, allow all origins
			allowedOrigin = origin
		}

		if allowedOrigin == "" && hostOrigin != "" {
			// Fallback to the configured origin if no matching origin
			allowedOrigin = hostOrigin
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateAccess parses and validates the access token cookie and
// returns the authenticated identity.
func validateAccess(r *http.Request) (int64, role.Role, *jwt.Token, *apiError.Error) {
	ctx := r.Context()
	e := env.EnvFromCtx(ctx)
	requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)

	fail := func(code apiError.ErrorCode, message string) (int64, role.Role, *jwt.Token, *apiError.Error) {
		return 0, role.RoleUnknown, nil, &apiError.Error{
			Code:    code,
			Status:  code.StatusCode(),
			Message: message,
			ErrorID: requestID,
		}
	}

	accessToken, err := r.Cookie(token.AccessTokenName(e.Config))
	if err != nil {
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	if e.Config.AppSecret.Value == nil {
		e.Logger.ErrorContext(ctx, "app secret not configured")
		return fail(apiError.InternalServerError, "internal server error")
	}
	secretVersion := e.Config.AppSecret.Version
	if secretVersion == "" {
		secretVersion = fgJwt.DefaultKID
	}

	accessJwt, err := fgJwt.ValidateJWT(accessToken.Value, secretVersion, []byte(*e.Config.AppSecret.Value))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return fail(apiError.ExpiredAccessToken, "access token expired")
	} else if err != nil {
		e.Logger.ErrorContext(ctx, "invalid access token", slog.Any("error", err))
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	sub, err := accessJwt.Claims.GetSubject()
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to extract subject from jwt", slog.Any("error", err))
		return fail(apiError.InternalServerError, "internal server error")
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		e.Logger.ErrorContext(ctx, "failed to parse user id", slog.Any("error", err))
		return fail(apiError.InternalServerError, "internal server error")
	}

	claims, ok := accessJwt.Claims.(jwt.MapClaims)
	if !ok {
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}
	roleClaim, ok := claims["role"].(string)
	if !ok {
		return fail(apiError.InvalidAccessToken, "invalid access token")
	}

	return userID, role.ToRole(roleClaim), accessJwt, nil
}

// AuthorizeRequest creates a middleware that validates JWT tokens and checks user roles.
func AuthorizeRequest(requiredRole role.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			e := env.EnvFromCtx(ctx)

			userID, userRole, accessJwt, authErr := validateAccess(r)
			if authErr != nil {
				e.Logger.ErrorContext(ctx, "request not authorized", slog.String("code", authErr.Code.String()))
				_ = apiError.EncodeError(w, authErr.Code, authErr.Message, authErr.ErrorID)
				return
			}

			if userRole < requiredRole {
				requestID := strconv.FormatUint(requestid.ExtractRequestID(ctx), 10)
				_ = apiError.EncodeError(w, apiError.InsufficientPermissions, "insufficient permissions", requestID)
				return
			}

			r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
			r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
			r = r.WithContext(token.AccessTokenWithCtx(r.Context(), accessJwt))

			next.ServeHTTP(w, r)
		})
	}
}

// IdentifyViewer attaches the user identity when a valid access
// token is present and lets the request through anonymously
// otherwise. Read endpoints use it to personalize annotations.
func IdentifyViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _, accessJwt, authErr := validateAccess(r)
		if authErr == nil {
			r = r.WithContext(log.AppendCtx(r.Context(), slog.Int64("user-id", userID)))
			r = r.WithContext(token.UserIDWithCtx(r.Context(), userID))
			r = r.WithContext(token.AccessTokenWithCtx(r.Context(), accessJwt))
		}
		next.ServeHTTP(w, r)
	})
}
