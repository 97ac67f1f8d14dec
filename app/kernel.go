// app/kernel.go
package app

import (
	"net/http"

	"github.com/dalemusser/inkwell/config"
	"github.com/dalemusser/inkwell/database"
	"github.com/dalemusser/inkwell/httperr"
	"github.com/dalemusser/inkwell/router"
	"github.com/dalemusser/inkwell/routes"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Kernel is the composition root: one per process. It owns the router, the
// database handle, and the terminal error handler, and is mutated only while
// it is being composed, before it serves its first request.
type Kernel struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.Handle
	router chi.Router
	sink   httperr.Sink
}

// NewKernel constructs an empty kernel carrying only the ambient middleware.
func NewKernel(cfg *config.Config, db *database.Handle, logger *zap.Logger) *Kernel {
	if logger == nil {
		logger = zap.NewNop()
	}
	k := &Kernel{cfg: cfg, logger: logger, db: db}
	k.router = router.New(cfg, logger, k)
	return k
}

// Use appends middleware to the dispatch chain. All Use calls must precede
// Handle and Mount.
func (k *Kernel) Use(mw ...func(http.Handler) http.Handler) {
	k.router.Use(mw...)
}

// Handle registers h for all methods at pattern.
func (k *Kernel) Handle(pattern string, h http.Handler) {
	k.router.Handle(pattern, h)
}

// Mount binds prefix to the handler built by g.
func (k *Kernel) Mount(prefix string, g routes.Group) {
	k.router.Mount(prefix, g(k.Deps()))
}

// HandleErrors installs the terminal error handler. It is resolved per
// request, so it may be installed after the routes that forward to it.
func (k *Kernel) HandleErrors(s httperr.Sink) {
	k.sink = s
}

// Forward hands err to the terminal error handler.
func (k *Kernel) Forward(w http.ResponseWriter, r *http.Request, err error) {
	if k.sink == nil {
		httperr.Terminal(k.logger)(w, r, err)
		return
	}
	k.sink(w, r, err)
}

// Deps returns what route groups receive.
func (k *Kernel) Deps() routes.Deps {
	return routes.Deps{DB: k.db, Logger: k.logger, Errors: k}
}

// ServeHTTP dispatches into the router.
func (k *Kernel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	k.router.ServeHTTP(w, r)
}
