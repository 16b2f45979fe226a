package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query types recorded by the database hooks
const (
	DBQueryTypeSelect = "select"
	DBQueryTypeInsert = "insert"
	DBQueryTypeUpdate = "update"
	DBQueryTypeDelete = "delete"
	DBQueryTypeRaw    = "raw"
)

// Business events
const (
	EventOrderCreated     = "order_created"
	EventOrderUpdated     = "order_updated"
	EventOrderDeleted     = "order_deleted"
	EventCustomerCreated  = "customer_created"
	EventCustomerDeleted  = "customer_deleted"
	EventLoginSucceeded   = "login_succeeded"
	EventLoginFailed      = "login_failed"
	EventNumberCollision  = "number_collision"
	EventCustomerRepaired = "customer_id_repaired"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailorshop",
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tailorshop",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	dbQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailorshop",
		Name:      "db_queries_total",
		Help:      "Database statements by type and outcome",
	}, []string{"type", "outcome"})

	dbLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tailorshop",
		Name:      "db_query_duration_seconds",
		Help:      "Database statement latency",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"type"})

	events = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailorshop",
		Name:      "events_total",
		Help:      "Domain events",
	}, []string{"event"})

	imagesRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tailorshop",
		Name:      "design_images_removed_total",
		Help:      "Design image files removed from disk",
	}, []string{"reason"})
)

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, route, status string, latency time.Duration) {
	httpRequests.WithLabelValues(method, route, status).Inc()
	httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// RecordDatabaseQuery records one database statement
func RecordDatabaseQuery(queryType string, success bool, latency time.Duration) {
	outcome := "ok"
	if !success {
		outcome = "error"
	}
	dbQueries.WithLabelValues(queryType, outcome).Inc()
	dbLatency.WithLabelValues(queryType).Observe(latency.Seconds())
}

// RecordEvent increments a domain event counter
func RecordEvent(event string) {
	events.WithLabelValues(event).Inc()
}

// RecordEvents adds n occurrences of an event
func RecordEvents(event string, n int) {
	if n <= 0 {
		return
	}
	events.WithLabelValues(event).Add(float64(n))
}

// RecordImagesRemoved counts deleted design image files
func RecordImagesRemoved(reason string, n int) {
	if n <= 0 {
		return
	}
	imagesRemoved.WithLabelValues(reason).Add(float64(n))
}
