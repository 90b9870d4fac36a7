// Package metrics holds the Prometheus collectors of the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "travelhub"

var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	expensesCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "expenses_created_total",
		Help:      "Expenses and transfers recorded.",
	})

	friendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "friend_requests_total",
		Help:      "Friend request transitions by outcome (sent, accepted, declined, cancelled).",
	}, []string{"outcome"})

	notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_published_total",
		Help:      "Notification events handed to the broker, by result (ok, error).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration, expensesCreated, friendRequests, notificationsPublished)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one finished request. route is the chi route pattern,
// never the raw path, to keep label cardinality bounded.
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ExpenseCreated counts a recorded expense.
func ExpenseCreated() {
	expensesCreated.Inc()
}

// FriendRequest counts a friend request transition.
func FriendRequest(outcome string) {
	friendRequests.WithLabelValues(outcome).Inc()
}

// NotificationPublished counts a publish attempt; ok reports success.
func NotificationPublished(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	notificationsPublished.WithLabelValues(result).Inc()
}
