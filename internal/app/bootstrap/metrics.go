package bootstrap

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/observability/metrics"
)

// BuildMetrics registers the service metrics and runtime collectors on a
// fresh registry and returns its /metrics handler.
func BuildMetrics() (http.Handler, *metrics.UpstreamMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.NewUpstreamMetrics(reg)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), m
}
