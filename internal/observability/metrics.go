package observability

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lingua-labs/lingua-api/internal/media"
)

const namespace = "lingua"

// unmatchedRoute labels requests no route matched, keeping label values bounded.
const unmatchedRoute = "unmatched"

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	uploads     *prometheus.CounterVec
	uploadBytes *prometheus.CounterVec
}

// NewMetrics creates the application collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "media", Name: "uploads_total",
			Help: "Media uploads by kind and outcome.",
		}, []string{"kind", "outcome"}),
		uploadBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "media", Name: "upload_bytes_total",
			Help: "Bytes successfully uploaded by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.requests, m.duration, m.uploads, m.uploadBytes)
	return m
}

// NewRegistry returns a registry with the Go runtime and process collectors
// and, when db is not nil, connection pool statistics.
func NewRegistry(db *sql.DB) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(db, namespace))
	}
	return reg
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Middleware records the request count and latency, labeled by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		if route == "" {
			route = unmatchedRoute
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(statusOf(ww))).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// InstrumentUploader wraps up so every upload is counted.
func (m *Metrics) InstrumentUploader(up media.Uploader) media.Uploader {
	return &instrumentedUploader{next: up, metrics: m}
}

type instrumentedUploader struct {
	next    media.Uploader
	metrics *Metrics
}

var _ media.Uploader = (*instrumentedUploader)(nil)

func (u *instrumentedUploader) UploadImage(ctx context.Context, file *media.File) (*media.Result, error) {
	res, err := u.next.UploadImage(ctx, file)
	u.observe(media.KindImage, res, err)
	return res, err
}

func (u *instrumentedUploader) UploadVideo(ctx context.Context, file *media.File) (*media.Result, error) {
	res, err := u.next.UploadVideo(ctx, file)
	u.observe(media.KindVideo, res, err)
	return res, err
}

func (u *instrumentedUploader) observe(kind media.Kind, res *media.Result, err error) {
	if err != nil {
		u.metrics.uploads.WithLabelValues(string(kind), "error").Inc()
		return
	}
	u.metrics.uploads.WithLabelValues(string(kind), "success").Inc()
	if res != nil {
		u.metrics.uploadBytes.WithLabelValues(string(kind)).Add(float64(res.Bytes))
	}
}
