package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for the graph pipeline
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Build metrics
	Builds        prometheus.Counter
	BuildDuration prometheus.Histogram
	Nodes         *prometheus.GaugeVec
	Links         *prometheus.GaugeVec
	InputsSkipped *prometheus.CounterVec

	// View metrics
	FilterDuration  prometheus.Histogram
	SessionsCapped  prometheus.Counter
	DetailEvents    *prometheus.CounterVec
	OrbitInterrupts prometheus.Counter

	// Settings metrics
	SettingsFallbacks *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry, so several
// collectors can coexist in one process
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	builds := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_builds_total",
			Help:      "Total number of graph builds",
		},
	)

	buildDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Graph build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	nodes := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Nodes in the current snapshot",
		},
		[]string{"class"},
	)

	links := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_links",
			Help:      "Links in the current snapshot",
		},
		[]string{"kind"},
	)

	inputsSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_inputs_skipped_total",
			Help:      "Input entries left out of the graph",
		},
		[]string{"reason"},
	)

	filterDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_filter_duration_seconds",
			Help:      "Visibility filter duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	sessionsCapped := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_sessions_capped_total",
			Help:      "Sessions left off screen by the render cap",
		},
	)

	detailEvents := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "detail_events_total",
			Help:      "Detail requests published",
		},
		[]string{"kind"},
	)

	orbitInterrupts := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orbit_interrupts_total",
			Help:      "Times the camera orbit was interrupted",
		},
	)

	settingsFallbacks := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_load_fallbacks_total",
			Help:      "Stored settings values replaced by defaults",
		},
		[]string{"reason"},
	)

	registry.MustRegister(
		builds,
		buildDuration,
		nodes,
		links,
		inputsSkipped,
		filterDuration,
		sessionsCapped,
		detailEvents,
		orbitInterrupts,
		settingsFallbacks,
	)

	return &Collector{
		registry:          registry,
		Builds:            builds,
		BuildDuration:     buildDuration,
		Nodes:             nodes,
		Links:             links,
		InputsSkipped:     inputsSkipped,
		FilterDuration:    filterDuration,
		SessionsCapped:    sessionsCapped,
		DetailEvents:      detailEvents,
		OrbitInterrupts:   orbitInterrupts,
		SettingsFallbacks: settingsFallbacks,
	}
}

// RecordBuild records a finished build and the shape of its snapshot
func (c *Collector) RecordBuild(duration time.Duration, sessions, ideas, parentLinks, tagLinks int) {
	if c == nil {
		return
	}
	c.Builds.Inc()
	c.BuildDuration.Observe(duration.Seconds())
	c.Nodes.WithLabelValues("session").Set(float64(sessions))
	c.Nodes.WithLabelValues("idea").Set(float64(ideas))
	c.Links.WithLabelValues("parent").Set(float64(parentLinks))
	c.Links.WithLabelValues("tag").Set(float64(tagLinks))
}

// RecordSkipped counts one skipped input entry
func (c *Collector) RecordSkipped(reason string) {
	if c == nil {
		return
	}
	c.InputsSkipped.WithLabelValues(reason).Inc()
}

// RecordFilter records one visibility pass
func (c *Collector) RecordFilter(duration time.Duration) {
	if c == nil {
		return
	}
	c.FilterDuration.Observe(duration.Seconds())
}

// RecordCapped counts sessions left off screen by the render cap
func (c *Collector) RecordCapped(dropped int) {
	if c == nil || dropped <= 0 {
		return
	}
	c.SessionsCapped.Add(float64(dropped))
}

// RecordDetail counts a published detail request
func (c *Collector) RecordDetail(kind string) {
	if c == nil {
		return
	}
	c.DetailEvents.WithLabelValues(kind).Inc()
}

// RecordOrbitInterrupt counts an orbit interruption
func (c *Collector) RecordOrbitInterrupt() {
	if c == nil {
		return
	}
	c.OrbitInterrupts.Inc()
}

// RecordSettingsFallback counts a settings value replaced by its default
func (c *Collector) RecordSettingsFallback(reason string) {
	if c == nil {
		return
	}
	c.SettingsFallbacks.WithLabelValues(reason).Inc()
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}
