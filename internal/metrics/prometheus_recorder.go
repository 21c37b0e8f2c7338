package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "htmlgen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renders        *prom.CounterVec
	parseOutcomes  *prom.CounterVec
	validations    *prom.CounterVec
	remoteDuration *prom.HistogramVec
	relayRequests  *prom.CounterVec
	relayDuration  *prom.HistogramVec
	previewReloads prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
// A nil registry gets a fresh private one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Generated documents by template category",
		}, []string{"category"}),
		parseOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parse_outcomes_total",
			Help:      "Document imports by outcome",
		}, []string{"outcome"}),
		validations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Mandatory variable checks by category and result",
		}, []string{"category", "result"}),
		remoteDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_call_duration_seconds",
			Help:      "Duration of branding API calls through the relay",
			Buckets:   prom.DefBuckets,
		}, []string{"operation", "result"}),
		relayRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "relay_requests_total",
			Help:      "Relayed requests by upstream method and status",
		}, []string{"method", "status"}),
		relayDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_request_duration_seconds",
			Help:      "Duration of relayed requests",
			Buckets:   prom.DefBuckets,
		}, []string{"method"}),
		previewReloads: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "preview_reloads_total",
			Help:      "Live preview reload broadcasts",
		}),
	}
	reg.MustRegister(pr.renders, pr.parseOutcomes, pr.validations, pr.remoteDuration,
		pr.relayRequests, pr.relayDuration, pr.previewReloads)
	return pr
}

func (p *PrometheusRecorder) IncRender(category string) {
	if p == nil {
		return
	}
	p.renders.WithLabelValues(category).Inc()
}

func (p *PrometheusRecorder) IncParseOutcome(outcome ParseOutcome) {
	if p == nil {
		return
	}
	p.parseOutcomes.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncValidation(category string, ok bool) {
	if p == nil {
		return
	}
	p.validations.WithLabelValues(category, result(ok)).Inc()
}

func (p *PrometheusRecorder) ObserveRemoteCall(operation string, d time.Duration, success bool) {
	if p == nil {
		return
	}
	p.remoteDuration.WithLabelValues(operation, result(success)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRelayRequest(method string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.relayRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	p.relayDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPreviewReload() {
	if p == nil {
		return
	}
	p.previewReloads.Inc()
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}
