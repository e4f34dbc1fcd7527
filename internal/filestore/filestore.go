// Package filestore wraps the fileserver package with a more user-friendly interface.
package filestore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/foodgram-app/backend/internal/fileserver"
)

const (
	recipesDir = "recipes"
)

const (
	DefaultURLPrefix = "/media"
)

type FileStoreInterface interface {
	WriteRecipeImage(ctx context.Context, recipeID int64, suffix string, data []byte) (urlPath string, n int, err error)

	DeleteURLPath(ctx context.Context, urlpath string) error

	FileURL(urlpath string) string
}

// FileStore maps image writes onto the local fileserver volume and
// translates filesystem paths into public URL paths.
type FileStore struct {
	urlPathPrefix string
	host          string
	fs            fileserver.FileServerInterface
}

var _ FileStoreInterface = (*FileStore)(nil)

func New(baseDirectory, urlPathPrefix, host string) *FileStore {
	return &FileStore{
		urlPathPrefix: urlPathPrefix,
		host:          strings.TrimRight(host, "/"),
		fs:            fileserver.New(baseDirectory),
	}
}

func (f *FileStore) WriteRecipeImage(
	_ context.Context, recipeID int64, suffix string, data []byte,
) (urlPath string, n int, err error) {
	path := recipeImagePath(recipeID, suffix)
	fullpath, n, err := f.fs.Write(path, data)
	if err != nil {
		return fullpath, n, err
	}
	return absPathToURLPath(fullpath, f.fs.BaseDirectory(), f.urlPathPrefix), n, nil
}

// FileURL produces the absolute URL for a stored url path.
func (f *FileStore) FileURL(urlpath string) string {
	if urlpath == "" {
		return ""
	}
	return f.host + "/" + strings.TrimLeft(urlpath, "/")
}

func (f *FileStore) DeleteURLPath(_ context.Context, urlpath string) error {
	return f.fs.Delete(trimURLPathPrefix(urlpath, f.urlPathPrefix))
}

func recipeImagePath(recipeID int64, suffix string) string {
	return filepath.Join(recipesDir, fmt.Sprintf("%d%s", recipeID, suffix))
}

func absPathToURLPath(fullpath string, baseDir string, prefix string) (urlpath string) {
	pathPrefix := strings.Trim(prefix, "/")
	relPath := strings.TrimLeft(trimBaseDir(fullpath, baseDir), "/")
	return "/" + pathPrefix + "/" + relPath
}

func trimBaseDir(path string, baseDir string) string {
	path = filepath.Clean(path)
	baseDir = filepath.Clean(baseDir)
	return strings.TrimPrefix(path, baseDir)
}

func trimURLPathPrefix(path string, prefix string) string {
	urlpath := strings.Trim(path, "/")
	pathPrefix := strings.Trim(prefix, "/")
	urlpath = strings.TrimPrefix(urlpath, pathPrefix)
	return strings.TrimLeft(urlpath, "/")
}
