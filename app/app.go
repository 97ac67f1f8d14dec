// app/app.go
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/inkwell/config"
	"github.com/dalemusser/inkwell/database"
	"github.com/dalemusser/inkwell/health"
	"github.com/dalemusser/inkwell/httperr"
	"github.com/dalemusser/inkwell/httputil"
	"github.com/dalemusser/inkwell/logging"
	"github.com/dalemusser/inkwell/metrics"
	"github.com/dalemusser/inkwell/middleware"
	"github.com/dalemusser/inkwell/routes"
	"github.com/dalemusser/inkwell/server"
	"go.uber.org/zap"
)

// Route prefixes of the four groups.
const (
	UserPrefix    = "/api/user"
	AuthPrefix    = "/api/auth"
	PostPrefix    = "/api/post"
	CommentPrefix = "/api/comment"
)

// Groups are the route groups mounted under /api.
type Groups struct {
	User    routes.Group
	Auth    routes.Group
	Post    routes.Group
	Comment routes.Group
}

// DefaultGroups returns the groups from package routes.
func DefaultGroups() Groups {
	return Groups{
		User:    routes.User,
		Auth:    routes.Auth,
		Post:    routes.Post,
		Comment: routes.Comment,
	}
}

// Compose builds the kernel in its fixed order:
//
//  1. ambient stack (request ID, real IP, recoverer, metrics, access log)
//  2. CORS
//  3. JSON body parsing
//  4. cookie parsing
//  5. /health, /metrics and the four route groups
//  6. terminal error handler
//
// Later steps depend on earlier ones: handlers read the parsed body and
// cookies, and CORS runs before routing.
func Compose(cfg *config.Config, db *database.Handle, logger *zap.Logger, groups Groups) *Kernel {
	k := NewKernel(cfg, db, logger)

	corsErrors := httperr.ForwarderFunc(func(w http.ResponseWriter, r *http.Request, err error) {
		metrics.CORSRejected()
		k.Forward(w, r, err)
	})
	k.Use(middleware.CORS(middleware.PolicyFromConfig(cfg.CORS), corsErrors))
	k.Use(middleware.ParseJSON(cfg.HTTP.MaxRequestBodyBytes, k))
	k.Use(middleware.ParseCookies())

	k.Handle("/health", health.Handler(map[string]health.Check{"db": db.Ping}, logger))
	k.Handle("/metrics", metrics.Handler())

	k.Mount(UserPrefix, groups.User)
	k.Mount(AuthPrefix, groups.Auth)
	k.Mount(PostPrefix, groups.Post)
	k.Mount(CommentPrefix, groups.Comment)

	k.HandleErrors(httperr.Terminal(logger))
	return k
}

// Run executes the startup sequence and blocks until shutdown:
//
//  1. Bootstrap logger, load config (abort on missing/invalid values)
//  2. Build final logger, register metrics
//  3. Open the database handle and ping it in the background; failure is
//     logged and does not stop startup
//  4. Compose the kernel
//  5. Listen on the configured port until SIGINT/SIGTERM or ctx is done
//
// args are the command-line arguments without the program name.
func Run(ctx context.Context, args []string) error {
	bootstrap := logging.BootstrapLogger()
	defer bootstrap.Sync()

	cfg, err := config.Load(bootstrap, args)
	if err != nil {
		bootstrap.Error("config load failed", zap.Error(err))
		return err
	}

	logger, err := logging.BuildLogger(cfg.LogLevel, cfg.Env)
	if err != nil {
		bootstrap.Error("logger build failed", zap.Error(err))
		return err
	}
	defer logger.Sync()
	logger.Debug("config loaded", zap.String("config", cfg.Dump()))
	httputil.SetLogger(logger)
	metrics.RegisterDefault(logger)

	ctx, cancel := server.WithShutdownSignals(ctx, logger)
	defer cancel()

	db := Connect(ctx, cfg, logger)
	defer func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if err := db.Disconnect(dctx); err != nil {
			logger.Warn("MongoDB disconnect failed", zap.Error(err))
		}
	}()

	k := Compose(cfg, db, logger, DefaultGroups())

	if err := server.ListenAndServe(ctx, cfg.HTTP, k, logger); err != nil {
		logger.Error("server exited with error", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Connect opens the shared database handle and starts the background ping.
// It never fails: errors are logged and the returned handle reports them to
// the handlers that use it.
func Connect(ctx context.Context, cfg *config.Config, logger *zap.Logger) *database.Handle {
	db, err := database.Open(cfg.MongoURI, cfg.DBName, database.DefaultPoolConfig())
	if err != nil {
		logger.Error("MongoDB connection failed", zap.Error(err))
		metrics.DBConnectResult(err)
		return db
	}

	done := db.ConnectAsync(ctx, cfg.DBConnectTimeout, logger)
	go func() {
		metrics.DBConnectResult(<-done)
	}()
	return db
}
