// Package json holds the strict request-body decoding shared by the
// handlers.
package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DecodeJSON decodes a single JSON document into dst and rejects
// trailing content.
func DecodeJSON(dst any, decoder *json.Decoder) error {
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("decoding json: %w", err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected content after json document: %w", err)
	}
	return nil
}
