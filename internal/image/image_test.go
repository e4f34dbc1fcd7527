package image

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/hashicorp/go-retryablehttp"
)

var (
	pngBytes  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}
	jpegBytes = []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	gifBytes  = []byte("GIF89a\x01\x00\x01\x00")
)

func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func TestDecodeDataURI(t *testing.T) {
	tests := []struct {
		name         string
		uri          string
		wantErr      error
		wantMimeType string
		wantSuffix   string
	}{
		{
			name:         "png payload",
			uri:          dataURI("image/png", pngBytes),
			wantMimeType: "image/png",
			wantSuffix:   ".png",
		},
		{
			name:         "jpeg payload",
			uri:          dataURI("image/jpeg", jpegBytes),
			wantMimeType: "image/jpeg",
			wantSuffix:   ".jpg",
		},
		{
			name:         "gif payload",
			uri:          dataURI("image/gif", gifBytes),
			wantMimeType: "image/gif",
			wantSuffix:   ".gif",
		},
		{
			name: "declared media type ignored in favor of sniffing",
			// Declares jpeg but carries png bytes.
			uri:          dataURI("image/jpeg", pngBytes),
			wantMimeType: "image/png",
			wantSuffix:   ".png",
		},
		{
			name:    "missing data prefix",
			uri:     "image/png;base64,aGVsbG8=",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "missing comma separator",
			uri:     "data:image/png;base64",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "not base64 encoded",
			uri:     "data:image/png,rawbytes",
			wantErr: ErrInvalidDataURI,
		},
		{
			name:    "empty payload",
			uri:     "data:image/png;base64,",
			wantErr: ErrNoImage,
		},
		{
			name:    "unsupported mime type",
			uri:     dataURI("text/plain", []byte("just some text, definitely not an image")),
			wantErr: ErrUnsupportedMimeType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeDataURI(tt.uri)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if img.MimeType != tt.wantMimeType {
				t.Errorf("expected MimeType %q, got %q", tt.wantMimeType, img.MimeType)
			}
			if img.Suffix != tt.wantSuffix {
				t.Errorf("expected Suffix %q, got %q", tt.wantSuffix, img.Suffix)
			}
			if img.Size != int64(len(img.Data)) {
				t.Errorf("expected Size %d to match data length %d", img.Size, len(img.Data))
			}
		})
	}
}

func TestDecodeDataURI_InvalidBase64(t *testing.T) {
	_, err := DecodeDataURI("data:image/png;base64,!!!not-base64!!!")
	if err == nil {
		t.Fatal("expected error for invalid base64 payload, got nil")
	}
}

type fakeDoer struct {
	status int
	body   []byte
	err    error
}

func (f fakeDoer) Do(_ *retryablehttp.Request) (*http.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Body:       io.NopCloser(bytes.NewReader(f.body)),
	}, nil
}

func TestFetch(t *testing.T) {
	tests := []struct {
		name      string
		doer      fakeDoer
		wantError bool
		wantErr   error
	}{
		{
			name: "successful fetch",
			doer: fakeDoer{status: http.StatusOK, body: pngBytes},
		},
		{
			name:      "non-2xx response",
			doer:      fakeDoer{status: http.StatusNotFound, body: []byte("not found")},
			wantError: true,
		},
		{
			name:      "transport error",
			doer:      fakeDoer{err: errors.New("connection refused")},
			wantError: true,
		},
		{
			name:      "body is not an image",
			doer:      fakeDoer{status: http.StatusOK, body: []byte("<html>not an image</html>")},
			wantError: true,
			wantErr:   ErrUnsupportedMimeType,
		},
		{
			name:      "empty body",
			doer:      fakeDoer{status: http.StatusOK, body: nil},
			wantError: true,
			wantErr:   ErrNoImage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Fetch(tt.doer, "https://example.com/image.png")

			if tt.wantError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.MimeType != "image/png" {
				t.Errorf("expected MimeType %q, got %q", "image/png", img.MimeType)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		wantErr error
	}{
		{
			name:    "empty reference",
			ref:     "",
			wantErr: ErrNoImage,
		},
		{
			name:    "whitespace-only reference",
			ref:     "   ",
			wantErr: ErrNoImage,
		},
		{
			name: "data uri",
			ref:  dataURI("image/png", pngBytes),
		},
		{
			name:    "neither data uri nor url",
			ref:     "some random string",
			wantErr: ErrInvalidDataURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(nil, tt.ref)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img == nil {
				t.Fatal("expected image, got nil")
			}
		})
	}
}
