// middleware/compress.go
package middleware

import (
	"net/http"

	"github.com/dalemusser/inkwell/config"
	"github.com/go-chi/chi/v5/middleware"
)

// compressionLevel balances speed and ratio for JSON payloads.
const compressionLevel = 5

// CompressFromConfig returns gzip/deflate compression for JSON responses when
// cfg.EnableCompression is set, and an identity middleware otherwise.
func CompressFromConfig(cfg config.HTTPConfig) func(next http.Handler) http.Handler {
	if !cfg.EnableCompression {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return middleware.Compress(compressionLevel, "application/json", "text/plain")
}
