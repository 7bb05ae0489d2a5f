package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joestump/linkpage/internal/logging"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkpage_http_requests_total",
		Help: "HTTP requests by method, route pattern and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkpage_http_request_duration_seconds",
		Help:    "Time from request receipt to response, by route pattern.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"route"})

	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkpage_registrations_total",
		Help: "Registration attempts by outcome.",
	}, []string{"outcome"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkpage_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	TokenRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkpage_token_rejections_total",
		Help: "Requests rejected by the identity middleware, by reason.",
	}, []string{"reason"})

	LinkOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkpage_link_operations_total",
		Help: "Successful link operations by operation.",
	}, []string{"op"})
)

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument records request count and latency for every request, labelled
// by chi route pattern rather than raw path.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := logging.RoutePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
