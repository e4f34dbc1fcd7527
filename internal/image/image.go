// Package image decodes recipe images submitted as base64 data URIs
// or fetched from remote URLs.
package image

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	internalHttp "github.com/foodgram-app/backend/internal/http"
)

const (
	magicNumberSeek = 512
	maxImageBytes   = 20 << 20 // ~ 20 MB
	dataURIPrefix   = "data:"
)

// allowedImageTypes lists the simple MIME types we accept.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var mimeTypeSuffix = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

var (
	ErrUnsupportedMimeType = errors.New("unsupported mime type")
	ErrNoImage             = errors.New("no image provided")
	ErrInvalidDataURI      = errors.New("invalid data uri")
	ErrImageTooLarge       = errors.New("image too large")
)

type Image struct {
	Size     int64
	Data     []byte
	Suffix   string
	MimeType string
}

// Decode resolves an image reference from a recipe payload. A value
// starting with "data:" is decoded in place; an http(s) URL is
// fetched with the retrying client.
func Decode(client internalHttp.HTTPDoer, ref string) (*Image, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "":
		return nil, ErrNoImage
	case strings.HasPrefix(ref, dataURIPrefix):
		return DecodeDataURI(ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return Fetch(client, ref)
	default:
		return nil, ErrInvalidDataURI
	}
}

// DecodeDataURI decodes a "data:image/...;base64,..." payload. The
// declared media type is ignored in favor of content sniffing.
func DecodeDataURI(uri string) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, dataURIPrefix)
	if !ok {
		return nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, ErrInvalidDataURI
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, fmt.Errorf("expected base64 encoding: %w", ErrInvalidDataURI)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding base64 payload: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, ErrImageTooLarge
	}

	return fromBytes(data)
}

// Fetch downloads an image from a remote URL.
func Fetch(client internalHttp.HTTPDoer, url string) (*Image, error) {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := internalHttp.ExpectStatus2xx(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, ErrImageTooLarge
	}

	return fromBytes(data)
}

func fromBytes(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrNoImage
	}

	contentType := http.DetectContentType(data[:min(len(data), magicNumberSeek)])
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("mime type %q: %w", contentType, ErrUnsupportedMimeType)
	}

	return &Image{
		Size:     int64(len(data)),
		MimeType: contentType,
		Suffix:   mimeTypeSuffix[contentType],
		Data:     data,
	}, nil
}
