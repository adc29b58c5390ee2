package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// IngestedRecords counts plant records persisted through the pipeline.
	IngestedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plant_records_ingested_total",
		Help: "Total number of plant records persisted",
	})

	// FailedTasks counts upload tasks that ended in the failed state, by stage.
	FailedTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upload_tasks_failed_total",
			Help: "Total number of upload tasks that failed",
		},
		[]string{"stage"},
	)
)

// Metrics records request counts and latency per route. The route template
// is used instead of the raw path to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unknown"
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
