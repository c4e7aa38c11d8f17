package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics métricas Prometheus del BFF: peticiones entrantes, llamadas al backend y reintentos.
type HTTPMetrics struct {
	ServiceName string

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusCategory  *prometheus.CounterVec
	backendCalls    *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
	retries         *prometheus.CounterVec
}

// New registra las métricas en reg. Con reg nil usa el registro global de Prometheus.
func New(serviceName string, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &HTTPMetrics{
		ServiceName: serviceName,
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		statusCategory: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category", "method", "path"},
		),
		backendCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_requests_total",
				Help: "Total number of outgoing requests to the inventory backend",
			},
			[]string{"service", "method", "route", "status"},
		),
		backendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "backend_request_duration_seconds",
				Help:    "Duration of outgoing backend requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "route"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "backend_retries_total",
				Help: "Total number of retried backend operations",
			},
			[]string{"service", "operation"},
		),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.statusCategory, m.backendCalls, m.backendDuration, m.retries)
	return m
}

// Middleware registra cada petición usando la ruta de Fiber (no la URL cruda) como etiqueta.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		method := c.Method()
		code := strconv.Itoa(status)

		m.requests.WithLabelValues(m.ServiceName, method, path, code).Inc()
		m.requestDuration.WithLabelValues(m.ServiceName, method, path, code).Observe(time.Since(start).Seconds())
		if category := statusCategory(status); category != "" {
			m.statusCategory.WithLabelValues(m.ServiceName, category, method, path).Inc()
		}
		return err
	}
}

// ObserveBackend mide una llamada saliente. status 0 indica error de transporte.
func (m *HTTPMetrics) ObserveBackend(method, route string, status int, d time.Duration) {
	m.backendCalls.WithLabelValues(m.ServiceName, method, route, strconv.Itoa(status)).Inc()
	m.backendDuration.WithLabelValues(m.ServiceName, method, route).Observe(d.Seconds())
}

// IncRetry cuenta un reintento de la operación indicada.
func (m *HTTPMetrics) IncRetry(operation string) {
	m.retries.WithLabelValues(m.ServiceName, operation).Inc()
}

// Handler expone /metrics. Con g nil usa el registro global.
func Handler(g prometheus.Gatherer) fiber.Handler {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return adaptor.HTTPHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}
