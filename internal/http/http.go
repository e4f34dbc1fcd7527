// Package http wraps the retrying client used for outbound requests.
package http

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const maxErrorBody = 1024

// HTTPDoer is the outbound-request surface services depend on.
type HTTPDoer interface {
	Do(*retryablehttp.Request) (*http.Response, error)
}

type HTTP struct {
	*retryablehttp.Client
}

var _ HTTPDoer = (*retryablehttp.Client)(nil)

// DefaultConfig returns the retrying client tuned for image fetches:
// a few quick retries and no per-request logging.
func DefaultConfig() *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil
	return client
}

func New(client *retryablehttp.Client) *HTTP {
	return &HTTP{Client: client}
}

// ExpectStatus2xx closes the body on a non-2xx response so the error
// carries the start of the upstream message.
func ExpectStatus2xx(resp *http.Response) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_ = resp.Body.Close()
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
