// database/errors.go
package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// IsUnreachable reports whether err means the server could not be reached:
// the handle was never created, or the operation failed or timed out on
// the network (server selection timeouts included). Such errors are reported as 503 rather than 500.
func IsUnreachable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return true
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err)
}
