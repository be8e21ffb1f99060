package monitoring

import (
	"strconv"
	"sync"
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
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	TicketsCompleted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "godrive_tickets_completed_total",
			Help: "Number of progress saves that marked a ticket completed",
		},
	)

	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "godrive_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	QuestionAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "godrive_question_attempts_total",
			Help: "Recorded question attempts by outcome",
		},
		[]string{"outcome"},
	)

	QuestionsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "godrive_questions_imported_total",
			Help: "Questions processed by the importer by result",
		},
		[]string{"result"},
	)
)

var once sync.Once

// Init 注册指标，可重复调用
func Init() {
	once.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(TicketsCompleted)
		prometheus.MustRegister(LoginAttempts)
		prometheus.MustRegister(QuestionAttempts)
		prometheus.MustRegister(QuestionsImported)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
