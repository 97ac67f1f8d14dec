// logging/recovermw.go
package logging

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/dalemusser/inkwell/httperr"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Recoverer returns a middleware that recovers from panics, logs them with a
// stack trace, and forwards a status-less error to the terminal error handler
// so the client receives the standard 500 envelope.
//
// If headers were already written the response cannot be repaired; the panic
// is logged and the response is left as is.
func Recoverer(logger *zap.Logger, fwd httperr.Forwarder) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protoMajor := r.ProtoMajor
			if protoMajor < 1 {
				protoMajor = 1
			}
			ww := middleware.NewWrapResponseWriter(w, protoMajor)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Error("panic recovered",
					zap.Any("panic_value", rec),
					zap.ByteString("stacktrace", debug.Stack()),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("remote_ip", r.RemoteAddr),
				)

				if ww.Status() != 0 {
					logger.Warn("panic occurred after headers written; response may be incomplete",
						zap.Int("status_already_sent", ww.Status()),
						zap.String("path", r.URL.Path))
					return
				}
				// The panic value is logged, never echoed to the client.
				fwd.Forward(w, r, httperr.Wrap(fmt.Errorf("panic: %v", rec), 0, httperr.DefaultMessage))
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
