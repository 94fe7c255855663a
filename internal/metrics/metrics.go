// Package metrics provides Prometheus instrumentation for the match engine.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TicksTotal counts simulation ticks processed.
	TicksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvb_ticks_total",
		Help: "Total simulation ticks processed",
	})

	// TradesTotal counts executed trades, partitioned by side.
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvb_trades_total",
		Help: "Total trades executed",
	}, []string{"side"})

	// TradeRejections counts silently rejected orders by reason.
	TradeRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvb_trade_rejections_total",
		Help: "Orders rejected by validation, by reason",
	}, []string{"reason"})

	// ConnectedClients tracks live WebSocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvb_connected_clients",
		Help: "Number of connected WebSocket clients",
	})

	// ActivePlayers tracks players in the current match.
	ActivePlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bvb_active_players",
		Help: "Number of players in the current match",
	})

	// RoundsStarted counts trading rounds started.
	RoundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvb_rounds_started_total",
		Help: "Total trading rounds started",
	})

	// MatchesFinished counts matches that reached FINISHED.
	MatchesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvb_matches_finished_total",
		Help: "Total matches completed",
	})

	// BroadcastsTotal counts full-state snapshot broadcasts.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvb_broadcasts_total",
		Help: "Total state snapshot broadcasts",
	})

	// CritiqueFallbacks counts advisory calls that fell back to the
	// heuristic critique.
	CritiqueFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bvb_critique_fallbacks_total",
		Help: "Critiques served by the heuristic fallback",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bvb_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bvb_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; the route surface is tiny.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
