package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics exposes counters/histograms for calls to upstream APIs and
// the partial-degradation paths that depend on them.
type UpstreamMetrics struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	eventsDegraded *prometheus.CounterVec
	journeySteps   *prometheus.CounterVec
}

func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	m := &UpstreamMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visits_staff",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total upstream API requests by API and response status",
		}, []string{"api", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "visits_staff",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Latency of upstream API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"api"}),
		eventsDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visits_staff",
			Subsystem: "sessions",
			Name:      "scheduled_events_unavailable_total",
			Help:      "Session pages rendered without prisoner scheduled events",
		}, []string{"source"}),
		journeySteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "visits_staff",
			Subsystem: "journey",
			Name:      "steps_total",
			Help:      "Booking journey step submissions by step and outcome",
		}, []string{"step", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.requestLatency, m.eventsDegraded, m.journeySteps)
	return m
}

// ObserveRequest records one upstream call. A status of 0 means the request
// never produced a response.
func (m *UpstreamMetrics) ObserveRequest(api string, status int, seconds float64) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requestsTotal.WithLabelValues(api, label).Inc()
	m.requestLatency.WithLabelValues(api).Observe(seconds)
}

func (m *UpstreamMetrics) ObserveEventsUnavailable(source string) {
	if m == nil {
		return
	}
	m.eventsDegraded.WithLabelValues(source).Inc()
}

func (m *UpstreamMetrics) ObserveJourneyStep(step, outcome string) {
	if m == nil {
		return
	}
	m.journeySteps.WithLabelValues(step, outcome).Inc()
}
