package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	PagesAnalyzed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "document_pages_analyzed_total",
			Help: "Total number of document pages analyzed",
		},
		[]string{"result"}, // analyzed / fallback
	)

	DocumentAnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "document_analysis_duration_seconds",
			Help:    "Duration of full document analysis runs",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300},
		},
	)

	SprintsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sprints_completed_total",
			Help: "Total number of completed reading sprints",
		},
		[]string{"performance"},
	)
)

func Init() {
	prometheus.MustRegister(RequestCounter)
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(PagesAnalyzed)
	prometheus.MustRegister(DocumentAnalysisDuration)
	prometheus.MustRegister(SprintsCompleted)
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
