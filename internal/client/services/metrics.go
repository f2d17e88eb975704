package services

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "geojournal"
	metricsSubsystem = "gateway"
)

var (
	operationsMetric     = prometheus.BuildFQName(metricsNamespace, metricsSubsystem, "operations_total")
	mirrorFailuresMetric = prometheus.BuildFQName(metricsNamespace, metricsSubsystem, "mirror_failures_total")
)

// Metrics counts which path each gateway operation took.
type Metrics struct {
	operations    *prometheus.CounterVec
	mirrorFailure *prometheus.CounterVec
}

// NewMetrics registers the gateway collectors with reg. A nil reg gets a
// private registry, which keeps tests and multiple gateways from colliding
// on the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "operations_total",
			Help:      "Gateway operations by operation and the store that served them.",
		}, []string{"op", "source"}),
		mirrorFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "mirror_failures_total",
			Help:      "Failed reads or writes of the on-device mirror.",
		}, []string{"op"}),
	}
	reg.MustRegister(m.operations, m.mirrorFailure)
	return m
}

func (m *Metrics) served(op string, src Source) {
	m.operations.WithLabelValues(op, string(src)).Inc()
}

func (m *Metrics) mirrorFailed(op string) {
	m.mirrorFailure.WithLabelValues(op).Inc()
}

// OpCount is one gateway counter series. Source is empty for mirror failures.
type OpCount struct {
	Op     string
	Source Source
	Count  uint64
}

// Stats is what the gateway counters hold at the moment of gathering.
type Stats struct {
	Served         []OpCount
	MirrorFailures []OpCount
}

// GatherStats reads the gateway counters back from g, in the gatherer's
// label order. Other metric families in g are ignored.
func GatherStats(g prometheus.Gatherer) (Stats, error) {
	families, err := g.Gather()
	if err != nil {
		return Stats{}, fmt.Errorf("gather gateway metrics: %w", err)
	}

	var st Stats
	for _, mf := range families {
		var dst *[]OpCount
		switch mf.GetName() {
		case operationsMetric:
			dst = &st.Served
		case mirrorFailuresMetric:
			dst = &st.MirrorFailures
		default:
			continue
		}
		for _, m := range mf.GetMetric() {
			c := OpCount{Count: uint64(m.GetCounter().GetValue())}
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "op":
					c.Op = lp.GetValue()
				case "source":
					c.Source = Source(lp.GetValue())
				}
			}
			*dst = append(*dst, c)
		}
	}
	return st, nil
}
