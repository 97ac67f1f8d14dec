// httperr/http.go
package httperr

import (
	"net/http"

	"github.com/dalemusser/inkwell/httputil"
	"go.uber.org/zap"
)

// Response is the JSON document written for every error.
type Response struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// Sink is a terminal error handler. It must write a complete response.
type Sink func(w http.ResponseWriter, r *http.Request, err error)

// Forwarder hands errors raised by middleware and handlers to the terminal
// error handler.
type Forwarder interface {
	Forward(w http.ResponseWriter, r *http.Request, err error)
}

// ForwarderFunc adapts a function to the Forwarder interface.
type ForwarderFunc func(w http.ResponseWriter, r *http.Request, err error)

// Forward calls f(w, r, err).
func (f ForwarderFunc) Forward(w http.ResponseWriter, r *http.Request, err error) {
	f(w, r, err)
}

// Write writes err as the JSON error envelope.
func Write(w http.ResponseWriter, err error) {
	status, message := Resolve(err)
	httputil.WriteJSON(w, status, Response{
		Success:    false,
		StatusCode: status,
		Message:    message,
	})
}

// Terminal returns the standard terminal error handler. 5xx responses are
// logged at Error, everything else at Debug.
func Terminal(logger *zap.Logger) Sink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, message := Resolve(err)
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("message", message),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		}
		if status >= 500 {
			logger.Error("request failed", fields...)
		} else {
			logger.Debug("request failed", fields...)
		}
		Write(w, err)
	}
}

// HandlerFunc is a handler that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle converts h into an http.HandlerFunc that forwards returned errors to fwd.
func Handle(fwd Forwarder, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			fwd.Forward(w, r, err)
		}
	}
}
