package stratify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inodb/vibe-mutstrat/internal/generole"
	"github.com/inodb/vibe-mutstrat/internal/mutation"
)

// Metrics records what a report build classified.
type Metrics struct {
	notations *prometheus.CounterVec
	records   *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics creates the report metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		notations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibe_mutstrat",
			Name:      "notations_total",
			Help:      "Mutation notations classified, by taxonomy and category.",
		}, []string{"taxonomy", "category"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vibe_mutstrat",
			Name:      "records_total",
			Help:      "Mutation records stratified, by gene role.",
		}, []string{"role"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vibe_mutstrat",
			Name:      "report_duration_seconds",
			Help:      "Time to build a stratified report.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.notations, m.records, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observeTable adds every category count of ct.
func (m *Metrics) observeTable(ct *mutation.CountTable) {
	for _, c := range ct.Categories() {
		m.notations.WithLabelValues(string(ct.Taxonomy()), string(c)).Add(float64(ct.Count(c)))
	}
}

func (m *Metrics) observeRole(role generole.Role, n int) {
	m.records.WithLabelValues(string(role)).Add(float64(n))
}

func (m *Metrics) observeDuration(d time.Duration) {
	m.duration.Observe(d.Seconds())
}
