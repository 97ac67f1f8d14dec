// database/mongo.go
package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when the client could not be created at startup.
var ErrUnavailable = errors.New("database unavailable")

// PoolConfig holds connection pool settings for MongoDB.
type PoolConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ServerSelectionTimeout time.Duration
}

// DefaultPoolConfig returns conservative pool defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxPoolSize:            50,
		MinPoolSize:            0,
		MaxConnIdleTime:        5 * time.Minute,
		ServerSelectionTimeout: 10 * time.Second,
	}
}

// Handle is the process-wide database handle. It is created once at startup,
// shared by every request handler, and safe for concurrent use; the driver
// owns pooling.
type Handle struct {
	client *mongo.Client
	dbName string
	err    error
}

// Open builds a client for uri without waiting for the server. A bad URI
// yields an error together with a usable Handle whose accessors all report
// ErrUnavailable, so callers may log the error and keep going.
//
// Pool settings given in the URI take precedence over pool.
func Open(uri, dbName string, pool PoolConfig) (*Handle, error) {
	opts := options.Client().
		SetMaxPoolSize(pool.MaxPoolSize).
		SetMinPoolSize(pool.MinPoolSize).
		SetMaxConnIdleTime(pool.MaxConnIdleTime).
		SetServerSelectionTimeout(pool.ServerSelectionTimeout).
		ApplyURI(uri)

	// mongo.Connect only starts background monitoring; it does not dial.
	client, err := mongo.Connect(context.Background(), opts)
	if err != nil {
		return &Handle{dbName: dbName, err: errors.Join(ErrUnavailable, err)}, err
	}
	return &Handle{client: client, dbName: dbName}, nil
}

// Name returns the database name requests are served from.
func (h *Handle) Name() string {
	return h.dbName
}

// Client returns the underlying client, or ErrUnavailable.
func (h *Handle) Client() (*mongo.Client, error) {
	if h == nil || h.client == nil {
		return nil, h.unavailable()
	}
	return h.client, nil
}

// Database returns the configured database, or ErrUnavailable.
func (h *Handle) Database() (*mongo.Database, error) {
	c, err := h.Client()
	if err != nil {
		return nil, err
	}
	return c.Database(h.dbName), nil
}

// Collection returns a collection in the configured database, or ErrUnavailable.
func (h *Handle) Collection(name string) (*mongo.Collection, error) {
	db, err := h.Database()
	if err != nil {
		return nil, err
	}
	return db.Collection(name), nil
}

// Ping checks that the primary is reachable.
func (h *Handle) Ping(ctx context.Context) error {
	c, err := h.Client()
	if err != nil {
		return err
	}
	return c.Ping(ctx, readpref.Primary())
}

// ConnectAsync pings the server in the background, bounded by timeout, and
// logs the outcome: "MongoDB is connected" on success or the error on failure.
// It never blocks the caller. The returned channel receives the outcome once
// and is then closed.
func (h *Handle) ConnectAsync(ctx context.Context, timeout time.Duration, logger *zap.Logger) <-chan error {
	if logger == nil {
		logger = zap.NewNop()
	}
	done := make(chan error, 1)

	go func() {
		defer close(done)

		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		err := h.Ping(pingCtx)
		if err != nil {
			logger.Error("MongoDB connection failed", zap.Error(err))
		} else {
			logger.Info("MongoDB is connected", zap.String("db", h.dbName))
		}
		done <- err
	}()

	return done
}

// Disconnect closes the client's connections. It is a no-op when the client
// was never created.
func (h *Handle) Disconnect(ctx context.Context) error {
	if h == nil || h.client == nil {
		return nil
	}
	return h.client.Disconnect(ctx)
}

func (h *Handle) unavailable() error {
	if h != nil && h.err != nil {
		return h.err
	}
	return ErrUnavailable
}
