// Package metrics exports container activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-container/framework/container"
)

const namespace = "container"

// Collector counts resolutions per abstract and reports the number of
// registered bindings.
type Collector struct {
	registry    *prometheus.Registry
	resolutions *prometheus.CounterVec
	bindings    prometheus.GaugeFunc
}

// Options configures New.
type Options struct {
	// Registry receives the collectors. A fresh registry is created when nil.
	Registry *prometheus.Registry
	// GoMetrics also registers the Go runtime and process collectors.
	GoMetrics bool
}

// New registers the collectors and hooks c's after-resolving callbacks.
// c.Flush drops that hook; build a new Collector after flushing.
func New(c *container.Container, opts Options) (*Collector, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Collector{
		registry: reg,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Successful resolutions, by abstract.",
		}, []string{"abstract"}),
		bindings: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "bindings",
			Help:      "Registered bindings.",
		}, func() float64 { return float64(len(c.Bindings())) }),
	}

	cs := []prometheus.Collector{m.resolutions, m.bindings}
	if opts.GoMetrics {
		cs = append(cs,
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}
	for _, col := range cs {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}

	c.AfterResolving(func(abstract string, _ any) {
		m.resolutions.WithLabelValues(abstract).Inc()
	})
	return m, nil
}

// Registry returns the registry the collectors live in.
func (m *Collector) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
