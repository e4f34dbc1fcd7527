// Package ping contains the health check handler.
package ping

import "net/http"

// HandlePing godoc
//
//	@Summary	Health check.
//	@Tags		Ping
//
//	@Success	200	{string}	string	"pong"
//	@Router		/api/ping [GET]
func HandlePing(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("pong"))
}
