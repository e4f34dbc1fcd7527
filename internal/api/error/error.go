// Package error defines the API error body and its encoders.
package error

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is the JSON error body returned by every failing endpoint.
type Error struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"-"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EncodeError writes an error response with the status mapped from
// the code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, errorID string) error {
	body := Error{
		Code:    code,
		Status:  code.StatusCode(),
		Message: message,
		ErrorID: errorID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	if err := json.NewEncoder(w).Encode(&body); err != nil {
		return fmt.Errorf("encoding error response: %w", err)
	}
	return nil
}

// EncodeInternalError writes the generic 500 response.
func EncodeInternalError(w http.ResponseWriter, errorID string) error {
	return EncodeError(w, InternalServerError, "internal server error", errorID)
}
