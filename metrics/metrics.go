// metrics/metrics.go
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// reqDuration is a histogram of HTTP request durations in seconds, labeled
// by route pattern, method, and status code.
var reqDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests.",
		Buckets: []float64{0.01, 0.1, 0.3, 1.2, 5},
	},
	[]string{"route", "method", "status"},
)

// corsRejections counts requests refused by the origin policy.
var corsRejections = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "cors_rejections_total",
	Help: "Requests rejected because their Origin is not allowed.",
})

// dbConnectResults counts startup database connection outcomes.
var dbConnectResults = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_connect_results_total",
		Help: "Outcomes of the startup database connection attempt.",
	},
	[]string{"result"},
)

// RegisterDefault registers the Go runtime and process collectors plus the
// application metrics. Calling it more than once is harmless.
func RegisterDefault(logger *zap.Logger) {
	mustRegister(logger, "Go collector", collectors.NewGoCollector())
	mustRegister(logger, "process collector", collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mustRegister(logger, "HTTP request histogram", reqDuration)
	mustRegister(logger, "CORS rejection counter", corsRejections)
	mustRegister(logger, "DB connect counter", dbConnectResults)
}

func mustRegister(logger *zap.Logger, name string, c prometheus.Collector) {
	if err := prometheus.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return
		}
		if logger != nil {
			logger.Fatal("failed to register "+name, zap.Error(err))
		}
		panic("metrics: failed to register " + name + ": " + err.Error())
	}
}

// CORSRejected records one request refused by the origin policy.
func CORSRejected() {
	corsRejections.Inc()
}

// DBConnectResult records the outcome of the startup database ping.
func DBConnectResult(err error) {
	if err != nil {
		dbConnectResults.WithLabelValues("failure").Inc()
		return
	}
	dbConnectResults.WithLabelValues("success").Inc()
}

// HTTPMetrics is a middleware that records request duration into the
// http_request_duration_seconds histogram. The route label is the chi route
// pattern (e.g. "/api/comment/getPostComments/{postId}"), or "unmatched" when
// no route matched, to keep label cardinality bounded.
func HTTPMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		protoMajor := r.ProtoMajor
		if protoMajor < 1 {
			protoMajor = 1
		}
		ww := middleware.NewWrapResponseWriter(w, protoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		reqDuration.WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// Handler returns an http.Handler that exposes the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
