// Package setup is responsible for setting up components.
package setup

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/foodgram-app/backend/internal/argon2id"
	"github.com/foodgram-app/backend/internal/config"
	"github.com/foodgram-app/backend/internal/database"
	"github.com/foodgram-app/backend/internal/env"
	"github.com/foodgram-app/backend/internal/filestore"
	"github.com/foodgram-app/backend/internal/password"
)

// Database opens the connection pool and applies the schema if the
// database is empty.
func Database(ctx context.Context, conf config.Config) (*database.Database, error) {
	dbConf := conf.Database
	if dbConf.Host == "" {
		return nil, errors.New("database configuration must be set")
	}
	dbString := fmt.Sprintf("postgresql://%s:%s@%s:%d/%s",
		dbConf.User, dbConf.Password, dbConf.Host, dbConf.Port, dbConf.Database)

	pool, err := pgxpool.New(ctx, dbString)
	if err != nil {
		return nil, fmt.Errorf("creating database pool: %w", err)
	}

	db := database.NewDatabase(pool)
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	return db, nil
}

// FileStore builds the image store: MinIO when configured, the local
// fileserver volume otherwise.
func FileStore(ctx context.Context, conf config.Config) (filestore.FileStoreInterface, error) {
	if conf.Minio.Enabled() {
		store, err := filestore.NewMinio(filestore.MinioConfig{
			Endpoint:  conf.Minio.Endpoint,
			AccessKey: conf.Minio.AccessKey,
			SecretKey: conf.Minio.SecretKey,
			Bucket:    conf.Minio.Bucket,
			UseSSL:    conf.Minio.UseSSL,
			Host:      conf.HostOrigin,
		})
		if err != nil {
			return nil, fmt.Errorf("creating minio store: %w", err)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensuring minio bucket: %w", err)
		}
		return store, nil
	}

	if conf.Fileserver.Volume == "" {
		return nil, errors.New("fileserver volume must be set")
	}
	fileserverPath, err := filepath.Abs(conf.Fileserver.Volume)
	if err != nil {
		return nil, fmt.Errorf("creating fileserver path: %w", err)
	}
	urlPrefix := conf.Fileserver.URLPrefix
	if urlPrefix == "" {
		urlPrefix = filestore.DefaultURLPrefix
	}
	return filestore.New(fileserverPath, urlPrefix, conf.HostOrigin), nil
}

// Admin creates the first admin user from config if none exists.
// Requires env.Database.
func Admin(ctx context.Context, env *env.Env) error {
	adminConf := env.Config.Admin
	if adminConf.Email == "" || adminConf.Password == "" {
		env.Logger.Info("admin credentials not configured, skipping admin setup")
		return nil
	}

	if _, err := mail.ParseAddress(adminConf.Email); err != nil {
		return fmt.Errorf("parsing admin email: %w", err)
	}
	if err := password.ValidatePassword(string(adminConf.Password)); err != nil {
		return fmt.Errorf("validating admin password: %w", err)
	}

	count, err := env.Database.GetAdminCount(ctx)
	if err != nil {
		return fmt.Errorf("getting admin count: %w", err)
	}
	if count > 0 {
		env.Logger.Info("admin already setup, skipping setup")
		return nil
	}

	hashedPassword, err := argon2id.EncodeHash(string(adminConf.Password), argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	username := adminConf.Username
	if username == "" {
		username = "admin"
	}
	_, err = env.Database.CreateUser(ctx, database.CreateUserParams{
		Email:        adminConf.Email,
		Username:     username,
		FirstName:    adminConf.FirstName,
		LastName:     adminConf.LastName,
		PasswordHash: hashedPassword,
		Role:         database.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin: %w", err)
	}
	env.Logger.Info("successfully setup admin!")

	return nil
}
