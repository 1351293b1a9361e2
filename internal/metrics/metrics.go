package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "chain_democracy"

type Metrics struct {
	registry         *prometheus.Registry
	instructions     *prometheus.CounterVec
	votes            prometheus.Counter
	blockHeight      prometheus.Gauge
	committedRecords prometheus.Counter
	queries          *prometheus.CounterVec
}

// New registers every collector on a registry of its own so tests and
// multiple nodes in one process never collide on the default registerer.
func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),
		instructions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instructions_total",
			Help:      "Executed instructions by name and result code.",
		}, []string{"instruction", "code"}),
		votes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_total",
			Help:      "Votes recorded successfully.",
		}),
		blockHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "block_height",
			Help:      "Height of the last committed block.",
		}),
		committedRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "committed_records_total",
			Help:      "Records written by committed blocks.",
		}),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Read queries by path.",
		}, []string{"path"}),
	}

	metrics.registry.MustRegister(
		metrics.instructions,
		metrics.votes,
		metrics.blockHeight,
		metrics.committedRecords,
		metrics.queries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return metrics
}

func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

func (metrics *Metrics) ObserveInstruction(instruction string, code uint32) {
	metrics.instructions.WithLabelValues(instruction, strconv.FormatUint(uint64(code), 10)).Inc()
}

func (metrics *Metrics) ObserveVote() {
	metrics.votes.Inc()
}

func (metrics *Metrics) ObserveCommit(height int64, records int) {
	metrics.blockHeight.Set(float64(height))
	metrics.committedRecords.Add(float64(records))
}

func (metrics *Metrics) ObserveQuery(path string) {
	metrics.queries.WithLabelValues(path).Inc()
}
