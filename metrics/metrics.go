// Package metrics exports bloom population events as Prometheus metrics.
package metrics

import (
	"net/http"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "bloom"

// Observer is a bloom.Observer backed by Prometheus collectors, labeled by
// subsystem.
type Observer struct {
	spawned *prometheus.CounterVec
	expired *prometheus.CounterVec
	dropped *prometheus.CounterVec
	failed  *prometheus.CounterVec
	active  *prometheus.GaugeVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Observer, error) {
	o := &Observer{
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_spawned_total",
			Help:      "Entities added to a subsystem population.",
		}, []string{"system"}),
		expired: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_expired_total",
			Help:      "Entities removed from a subsystem population.",
		}, []string{"system"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_dropped_total",
			Help:      "Spawns refused because the population was at its cap.",
		}, []string{"system"}),
		failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawn_failures_total",
			Help:      "Spawns skipped because the surface could not create a visual.",
		}, []string{"system"}),
		active: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entities_active",
			Help:      "Live entities per subsystem.",
		}, []string{"system"}),
	}
	for _, c := range []prometheus.Collector{o.spawned, o.expired, o.dropped, o.failed, o.active} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Spawned implements bloom.Observer.
func (o *Observer) Spawned(system string) {
	o.spawned.WithLabelValues(system).Inc()
	o.active.WithLabelValues(system).Inc()
}

// Expired implements bloom.Observer.
func (o *Observer) Expired(system string) {
	o.expired.WithLabelValues(system).Inc()
	o.active.WithLabelValues(system).Dec()
}

// Dropped implements bloom.Observer.
func (o *Observer) Dropped(system string) {
	o.dropped.WithLabelValues(system).Inc()
}

// SpawnFailed implements bloom.Observer.
func (o *Observer) SpawnFailed(system string, _ error) {
	o.failed.WithLabelValues(system).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Counts is one subsystem's row in a Summary.
type Counts struct {
	System  string
	Spawned float64
	Expired float64
	Dropped float64
	Failed  float64
	Active  float64
}

// Summary gathers the bloom metrics from g into one row per subsystem,
// sorted by name.
func Summary(g prometheus.Gatherer) ([]Counts, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}
	rows := make(map[string]*Counts)
	for _, mf := range families {
		var field func(*Counts) *float64
		switch mf.GetName() {
		case namespace + "_entities_spawned_total":
			field = func(c *Counts) *float64 { return &c.Spawned }
		case namespace + "_entities_expired_total":
			field = func(c *Counts) *float64 { return &c.Expired }
		case namespace + "_entities_dropped_total":
			field = func(c *Counts) *float64 { return &c.Dropped }
		case namespace + "_spawn_failures_total":
			field = func(c *Counts) *float64 { return &c.Failed }
		case namespace + "_entities_active":
			field = func(c *Counts) *float64 { return &c.Active }
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			name := systemLabel(m)
			row, ok := rows[name]
			if !ok {
				row = &Counts{System: name}
				rows[name] = row
			}
			*field(row) = value(m)
		}
	}
	out := make([]Counts, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].System < out[j].System })
	return out, nil
}

func systemLabel(m *dto.Metric) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == "system" {
			return l.GetValue()
		}
	}
	return ""
}

func value(m *dto.Metric) float64 {
	if c := m.GetCounter(); c != nil {
		return c.GetValue()
	}
	return m.GetGauge().GetValue()
}
