// httputil/json.go
package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// encodeLogger receives JSON encoding failures that happen after headers are sent.
var encodeLogger = zap.NewNop()

// SetLogger configures the logger used for JSON encoding errors.
// Call once during startup.
func SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	encodeLogger = logger
}

// WriteJSON writes v as JSON with the given status code.
//
// Invalid status codes (outside 100-599) are clamped to 500 to prevent
// undefined behavior in net/http.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if status < 100 || status > 599 {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already out; all we can do is log.
		encodeLogger.Error("json encoding failed after headers sent",
			zap.String("type", fmt.Sprintf("%T", v)),
			zap.Error(err),
		)
	}
}

// IsJSON reports whether a Content-Type header names application/json,
// ignoring parameters such as "; charset=utf-8".
func IsJSON(contentType string) bool {
	ct := contentType
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = ct[:idx]
	}
	return strings.EqualFold(strings.TrimSpace(ct), "application/json")
}

// DescribeJSONError converts json decoding errors into client-safe messages.
func DescribeJSONError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New("unexpected end of JSON input")
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("malformed JSON at position %d", syntaxErr.Offset)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("invalid value for field %q: expected %s", typeErr.Field, typeErr.Type.String())
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errors.New("request entity too large")
	}

	return errors.New("invalid JSON in request body")
}
