// router/router.go
package router

import (
	"github.com/dalemusser/inkwell/config"
	"github.com/dalemusser/inkwell/httperr"
	"github.com/dalemusser/inkwell/logging"
	"github.com/dalemusser/inkwell/metrics"
	"github.com/dalemusser/inkwell/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// New creates a chi.Router pre-wired with the ambient middleware stack:
// - RequestID
// - RealIP
// - Recoverer (panic → terminal error handler)
// - metrics HTTP middleware
// - request logging
// - optional compression
// - NotFound / MethodNotAllowed forwarded to the terminal error handler
//
// Policy middleware (CORS, body and cookie parsing) and routes are installed
// by the caller, in that order.
func New(cfg *config.Config, logger *zap.Logger, fwd httperr.Forwarder) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logging.Recoverer(logger, fwd))
	r.Use(metrics.HTTPMetrics)
	r.Use(logging.RequestLogger(logger))
	r.Use(middleware.CompressFromConfig(cfg.HTTP))

	r.NotFound(middleware.NotFoundHandler(fwd))
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler(fwd))

	return r
}
