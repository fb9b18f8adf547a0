package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	layoutsTotal     *prometheus.CounterVec
	layoutDuration   prometheus.Histogram
	layoutIterations prometheus.Histogram
	layoutNodes      prometheus.Histogram

	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInFlight prometheus.Gauge
}

// NewPrometheus registers the classgraph collectors with reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		layoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_layouts_total",
			Help: "Layout runs by outcome (converged, budget, cached, error).",
		}, []string{"outcome"}),
		layoutDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "classgraph_layout_duration_seconds",
			Help:    "Wall time of layout runs, including cache hits.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		layoutIterations: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "classgraph_layout_iterations",
			Help:    "Simulation iterations per computed layout.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		layoutNodes: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "classgraph_layout_nodes",
			Help:    "Nodes per layout request.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		rendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_renders_total",
			Help: "Rendered artifacts by format and status.",
		}, []string{"format", "status"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classgraph_render_duration_seconds",
			Help:    "Render latency by format.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classgraph_render_size_bytes",
			Help:    "Artifact size by format.",
			Buckets: []float64{1000, 10000, 100000, 1000000, 10000000},
		}, []string{"format"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_cache_lookups_total",
			Help: "Cache lookups by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "classgraph_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classgraph_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "classgraph_http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
	}
}

func (p *Prometheus) OnLayoutStart(_ context.Context, nodeCount int) {
	p.layoutNodes.Observe(float64(nodeCount))
}

func (p *Prometheus) OnLayoutComplete(_ context.Context, s LayoutStats, d time.Duration, err error) {
	p.layoutDuration.Observe(d.Seconds())
	switch {
	case err != nil:
		p.layoutsTotal.WithLabelValues("error").Inc()
		return
	case s.Cached:
		p.layoutsTotal.WithLabelValues("cached").Inc()
		return
	case s.Converged:
		p.layoutsTotal.WithLabelValues("converged").Inc()
	default:
		p.layoutsTotal.WithLabelValues("budget").Inc()
	}
	p.layoutIterations.Observe(float64(s.Iterations))
}

func (p *Prometheus) OnRenderStart(context.Context, string) {}

func (p *Prometheus) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	p.rendersTotal.WithLabelValues(format, status).Inc()
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		p.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string) {
	p.httpInFlight.Inc()
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpInFlight.Dec()
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
