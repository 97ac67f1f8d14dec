// Package routes holds the route groups mounted under /api. Each group is an
// independent collaborator: the kernel only binds a prefix to the handler a
// group returns.
package routes

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/inkwell/database"
	"github.com/dalemusser/inkwell/httperr"
	"go.uber.org/zap"
)

// Deps is what every route group receives from the kernel.
type Deps struct {
	DB     *database.Handle
	Logger *zap.Logger
	Errors httperr.Forwarder
}

// Group builds the handler for one route group.
type Group func(d Deps) http.Handler

// handle adapts an error-returning handler to the kernel's error pipeline.
func (d Deps) handle(h httperr.HandlerFunc) http.HandlerFunc {
	return httperr.Handle(d.Errors, h)
}

// dbError maps database failures to errors for the terminal handler.
// An unreachable database becomes a 503; anything else keeps the driver message.
func dbError(err error) error {
	if database.IsUnreachable(err) {
		return httperr.Wrap(err, http.StatusServiceUnavailable, "database unavailable")
	}
	return httperr.Wrap(err, 0, "")
}

// intQuery reads a non-negative integer query parameter, returning def when absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, httperr.BadRequest(name + " must be a non-negative integer")
	}
	return n, nil
}
