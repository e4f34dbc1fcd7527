// Package token contains utilities for http tokens.
package token

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/foodgram-app/backend/internal/config"
	"github.com/foodgram-app/backend/internal/jwt"
	"github.com/foodgram-app/backend/internal/role"
)

const (
	accessTokenLifetime = 60 * 60 // 1 hour, matches jwt.JWTDuration
)

var ErrNoUserID = errors.New("no user id in context")

type userIDKeyType struct{}

var userIDKey userIDKeyType

type accessTokenKeyType struct{}

var accessTokenKey accessTokenKeyType

// AccessTokenName returns the cookie name for the access token. The
// production name carries the __Host- prefix so browsers scope it.
func AccessTokenName(conf config.Config) string {
	if conf.Env == config.EnvProd {
		return "__Host-foodgram-access"
	}
	return "access"
}

// CreateAccessToken signs a JWT for the user with the configured
// application secret.
func CreateAccessToken(userID int64, userRole role.Role, conf config.Config) (string, error) {
	if conf.AppSecret.Value == nil {
		return "", errors.New("app secret not configured")
	}
	version := conf.AppSecret.Version
	if version == "" {
		version = jwt.DefaultKID
	}

	return jwt.GenerateJWT(jwt.JWTParams{
		UserID: strconv.FormatInt(userID, 10),
		Role:   userRole.String(),
	}, []byte(*conf.AppSecret.Value), version)
}

func NewAccessTokenCookie(token string, conf config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(conf),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   accessTokenLifetime,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.Env == config.EnvProd,
	}
}

// NewExpiredAccessTokenCookie clears the access cookie on logout.
func NewExpiredAccessTokenCookie(conf config.Config) *http.Cookie {
	return &http.Cookie{
		Name:     AccessTokenName(conf),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   conf.Env == config.EnvProd,
	}
}

// UserIDWithCtx attaches the authenticated user id to a context.
func UserIDWithCtx(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromCtx extracts the authenticated user id from a context.
func UserIDFromCtx(ctx context.Context) (int64, error) {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return v, nil
	}
	return 0, ErrNoUserID
}

// ViewerFromCtx returns the user id as an optional viewer: nil when
// the request is anonymous.
func ViewerFromCtx(ctx context.Context) *int64 {
	if v, ok := ctx.Value(userIDKey).(int64); ok {
		return &v
	}
	return nil
}

// IsAdminFromCtx reports whether the validated JWT in the context
// carries the admin role.
func IsAdminFromCtx(ctx context.Context) bool {
	t, ok := AccessTokenFromCtx(ctx)
	if !ok {
		return false
	}
	claims, ok := t.Claims.(jwtlib.MapClaims)
	if !ok {
		return false
	}
	roleClaim, _ := claims["role"].(string)
	return role.ToRole(roleClaim) == role.RoleAdmin
}

// AccessTokenWithCtx attaches the validated JWT to a context.
func AccessTokenWithCtx(ctx context.Context, token *jwtlib.Token) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// AccessTokenFromCtx extracts the validated JWT from a context.
func AccessTokenFromCtx(ctx context.Context) (*jwtlib.Token, bool) {
	v, ok := ctx.Value(accessTokenKey).(*jwtlib.Token)
	return v, ok
}
