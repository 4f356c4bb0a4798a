// Package metrics exposes Prometheus request metrics for the dispatch engine.
//
// A Collector owns its own registry. Its Middleware records every request
// that reaches the pipeline and Handler serves the registry in the text
// exposition format.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/MKhiriev/go-web-interface/internal/httpctx"
	"github.com/MKhiriev/go-web-interface/internal/pipeline"
	"github.com/MKhiriev/go-web-interface/internal/route"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "web_interface"

	// unmatchedRoute labels requests for paths that are not registered, so
	// arbitrary paths cannot grow the label set.
	unmatchedRoute = "unmatched"

	// otherMethod labels request methods no route can be registered under.
	otherMethod = "other"
)

// RouteLookup resolves the registered route of a request.
type RouteLookup interface {
	Lookup(path, method string) (route.Descriptor, bool)
}

// Collector records request counts, latencies and in-flight requests.
type Collector struct {
	registry *prometheus.Registry
	routes   RouteLookup

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// NewCollector registers the request metrics and the Go runtime collectors
// in a fresh registry. An empty namespace selects "web_interface".
func NewCollector(namespace string, routes RouteLookup) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		routes:   routes,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests handled by the dispatch engine.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time spent in the middleware pipeline and handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "requests_in_flight",
			Help:      "Requests currently in the pipeline.",
		}),
	}

	c.registry.MustRegister(
		c.requests,
		c.duration,
		c.inFlight,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Middleware records the request once the rest of the pipeline returns.
func (c *Collector) Middleware() pipeline.Middleware {
	return pipeline.MiddlewareFunc(func(ctx *httpctx.Context, next func()) {
		start := time.Now()
		c.inFlight.Inc()
		defer c.inFlight.Dec()

		next()

		label := c.routeLabel(ctx)
		method := methodLabel(ctx.Method())
		c.requests.WithLabelValues(label, method, strconv.Itoa(ctx.Status())).Inc()
		c.duration.WithLabelValues(label, method).Observe(time.Since(start).Seconds())
	})
}

func (c *Collector) routeLabel(ctx *httpctx.Context) string {
	if c.routes == nil {
		return unmatchedRoute
	}
	desc, ok := c.routes.Lookup(ctx.Path(), ctx.Method())
	if !ok {
		return unmatchedRoute
	}
	return desc.Path
}

func methodLabel(method string) string {
	verb, ok := route.ParseVerb(method)
	if !ok {
		return otherMethod
	}
	return string(verb)
}

// Handler serves the registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
