package middleware

import (
	"net/http"

	"github.com/dalemusser/inkwell/httperr"
)

// NotFoundHandler forwards a 404 to the terminal error handler.
// It is designed to be passed directly to chi.Router.NotFound(..).
func NotFoundHandler(fwd httperr.Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fwd.Forward(w, r, httperr.NotFound("Not Found"))
	}
}

// MethodNotAllowedHandler forwards a 405 to the terminal error handler.
// It is designed to be passed directly to chi.Router.MethodNotAllowed(..).
func MethodNotAllowedHandler(fwd httperr.Forwarder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fwd.Forward(w, r, httperr.New(http.StatusMethodNotAllowed, "Method Not Allowed"))
	}
}
