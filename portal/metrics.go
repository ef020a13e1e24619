package portal

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts store mutations and login outcomes on a private registry.
type Metrics struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	logins    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "store_mutations_total",
			Help:      "Domain store writes by collection and operation.",
		}, []string{"collection", "op"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
	}
	m.registry.MustRegister(m.mutations, m.logins)
	return m
}

// Observe is a Store subscriber.
func (m *Metrics) Observe(c Change) {
	m.mutations.WithLabelValues(string(c.Collection), string(c.Op)).Inc()
}

func (m *Metrics) LoginAttempt(ok bool) {
	outcome := "rejected"
	if ok {
		outcome = "accepted"
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// Sample is one counter value with its labels flattened.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Samples gathers every counter, sorted by metric name.
func (m *Metrics) Samples() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, Sample{Name: mf.GetName(), Labels: labels, Value: metric.GetCounter().GetValue()})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
