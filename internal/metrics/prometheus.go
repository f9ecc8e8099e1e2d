package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/quadcalc/internal/integration"
)

const namespace = "quadcalc"

// Prometheus records engine observations on a private registry. It
// implements integration.Recorder.
type Prometheus struct {
	registry     *prometheus.Registry
	integrations *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	evaluations  *prometheus.CounterVec
	failures     *prometheus.CounterVec
}

var _ integration.Recorder = (*Prometheus)(nil)

// NewPrometheus creates the engine metrics and registers them, together with
// the Go runtime and process collectors, on a new registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		integrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrations_total",
			Help:      "Completed integrations by dispatch mode and rule.",
		}, []string{"mode", "rule"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "integration_duration_seconds",
			Help:      "Wall time of completed integrations.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 12), // 10µs to ~40s
		}, []string{"mode", "rule"}),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrand_evaluations_total",
			Help:      "Integrand evaluations performed by completed integrations.",
		}, []string{"mode", "rule"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integration_failures_total",
			Help:      "Failed integrations by dispatch mode and failure kind.",
		}, []string{"mode", "kind"}),
	}
	p.registry.MustRegister(
		p.integrations,
		p.duration,
		p.evaluations,
		p.failures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return p
}

// ObserveIntegration implements integration.Recorder.
func (p *Prometheus) ObserveIntegration(mode integration.Mode, rule integration.Rule, duration time.Duration, evaluations uint64) {
	labels := prometheus.Labels{"mode": string(mode), "rule": rule.String()}
	p.integrations.With(labels).Inc()
	p.duration.With(labels).Observe(duration.Seconds())
	p.evaluations.With(labels).Add(float64(evaluations))
}

// ObserveFailure implements integration.Recorder.
func (p *Prometheus) ObserveFailure(mode integration.Mode, kind string) {
	p.failures.With(prometheus.Labels{"mode": string(mode), "kind": kind}).Inc()
}

// Registry returns the registry holding every metric.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// WriteTextfile writes the registry in the Prometheus text exposition format,
// atomically replacing path.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
