package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aqgrid",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "path"})

	httpResponseSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "aqgrid",
		Subsystem: "http",
		Name:      "response_size_bytes",
		Help:      "HTTP response size in bytes",
		Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
	}, []string{"method", "path"})

	// Grid computation metrics
	InterpolationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aqgrid",
		Subsystem: "grid",
		Name:      "interpolation_duration_seconds",
		Help:      "Time spent interpolating one AQI grid",
		Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
	})

	SensorsPerRequest = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aqgrid",
		Subsystem: "grid",
		Name:      "sensors_per_interpolation",
		Help:      "Number of sensor samples fed to one interpolation",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
	})

	PrioritizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "aqgrid",
		Subsystem: "grid",
		Name:      "prioritization_duration_seconds",
		Help:      "Time spent normalizing and ranking one grid pair",
		Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	ShapeMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "grid",
		Name:      "shape_mismatches_total",
		Help:      "Total prioritization requests rejected for mismatched grid shapes",
	})

	PopulationFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "population",
		Name:      "fetches_total",
		Help:      "Total population grid fetches by result",
	}, []string{"result"})

	SensorFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "sensors",
		Name:      "fetch_errors_total",
		Help:      "Total failures reading the live sensor source",
	})

	SnapshotsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "sensors",
		Name:      "snapshots_published_total",
		Help:      "Total sensor snapshots published by the simulator",
	})

	ZonesPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "zones",
		Name:      "published_total",
		Help:      "Total priority zone sets published by result",
	}, []string{"result"})

	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "cache",
		Name:      "hits_total",
		Help:      "Total cache hits",
	}, []string{"operation"})

	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "aqgrid",
		Subsystem: "cache",
		Name:      "misses_total",
		Help:      "Total cache misses",
	}, []string{"operation"})

	// Database pool metrics
	DBPoolConnsOpen = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "aqgrid",
		Subsystem: "db",
		Name:      "pool_conns_open",
		Help:      "Total connections open in the database pool",
	})

	DBPoolConnsAcquired = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "aqgrid",
		Subsystem: "db",
		Name:      "pool_conns_acquired",
		Help:      "Connections currently acquired from the database pool",
	})

	DBPoolConnsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "aqgrid",
		Subsystem: "db",
		Name:      "pool_conns_idle",
		Help:      "Idle connections in the database pool",
	})
)

// Middleware records request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		method := c.Method()

		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpRequestDuration.WithLabelValues(method, path).Observe(duration)
		httpResponseSize.WithLabelValues(method, path).Observe(float64(len(c.Response().Body())))

		return err
	}
}

// Handler returns a Fiber handler serving Prometheus /metrics endpoint.
func Handler() fiber.Handler {
	handler := promhttp.Handler()
	return func(c *fiber.Ctx) error {
		fasthttpadaptor.NewFastHTTPHandler(handler)(c.Context())
		return nil
	}
}

// UpdateDBPoolMetrics updates database pool gauges from a pgxpool.Stat.
// The stat is taken as an interface so this package does not import pgx.
func UpdateDBPoolMetrics(stat interface{}) {
	type poolStat interface {
		AcquiredConns() int32
		IdleConns() int32
		TotalConns() int32
	}

	if s, ok := stat.(poolStat); ok {
		DBPoolConnsAcquired.Set(float64(s.AcquiredConns()))
		DBPoolConnsIdle.Set(float64(s.IdleConns()))
		DBPoolConnsOpen.Set(float64(s.TotalConns()))
	}
}
