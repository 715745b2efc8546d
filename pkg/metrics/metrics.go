// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daftar_http_requests_total",
		Help: "Number of HTTP requests processed, by method, route and status.",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "daftar_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	changeEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "daftar_change_events_total",
		Help: "Change-feed events published, by table and action.",
	}, []string{"table", "action"})

	balanceRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daftar_balance_view_refresh_total",
		Help: "Number of customer_balances view refreshes.",
	})

	balanceDivergence = promauto.NewCounter(prometheus.CounterOpts{
		Name: "daftar_balance_view_divergence_total",
		Help: "Times the cached customer_balances view disagreed with a recomputed balance.",
	})
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// CountChangeEvent records a published change-feed event.
func CountChangeEvent(table, action string) {
	changeEvents.WithLabelValues(table, action).Inc()
}

// CountBalanceRefresh records a materialized view refresh.
func CountBalanceRefresh() {
	balanceRefreshes.Inc()
}

// CountBalanceDivergence records a view row that did not match the engine.
func CountBalanceDivergence() {
	balanceDivergence.Inc()
}

// Handler exposes the default Prometheus registry as a gin handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
