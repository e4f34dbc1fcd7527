// Package env provides a structure for managing application-wide dependencies.
package env

import (
	"context"
	"log/slog"

	"github.com/foodgram-app/backend/internal/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/filestore"
	"github.com/foodgram-app/backend/internal/http"
	"github.com/foodgram-app/backend/internal/log"
)

type Env struct {
	Logger    *slog.Logger
	Database  database.DB
	FileStore filestore.FileStoreInterface
	HTTP      *http.HTTP
	Config    config.Config
}

type envKeyType struct{}

var envKey envKeyType

// WithCtx attaches the environment to a context.
func WithCtx(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey, env)
}

// EnvFromCtx extracts the environment from a context. A null
// environment is returned when none is attached so callers can
// always log.
func EnvFromCtx(ctx context.Context) *Env {
	if env, ok := ctx.Value(envKey).(*Env); ok && env != nil {
		return env
	}
	return Null()
}

// Null returns an environment with a discarding logger and no
// backing services. Used in tests.
func Null() *Env {
	return &Env{
		Logger: log.NullLogger(),
	}
}
