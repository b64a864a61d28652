// Pass-level metrics recording for the CLI
package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nainya/tokenhouse/internal/metrics"
	"github.com/nainya/tokenhouse/pkg/collectors"
	"github.com/nainya/tokenhouse/pkg/warehouse"
)

// passMetrics translates one ResultSet into Prometheus metrics.
type passMetrics struct {
	inner *metrics.Metrics
}

func newMetricsWith(reg prometheus.Registerer) *passMetrics {
	return &passMetrics{inner: metrics.New(reg)}
}

func (p *passMetrics) recordPass(status string, rs *warehouse.ResultSet) {
	if rs == nil {
		p.inner.PassesTotal.WithLabelValues(status).Inc()
		return
	}

	p.inner.RecordPass(status, rs.Stats.Tokens, rs.Stats.Dispatches,
		rs.Stats.Sections, rs.Stats.Duration)

	for _, e := range rs.Errors {
		p.inner.RecordCollectorError(e.Collector, string(e.Op))
	}

	for name, res := range rs.Results {
		if truncated, ok := res["truncated"].(bool); ok && truncated {
			p.inner.RecordTruncation(name)
		}
	}

	checked, denied := 0, 0
	if links, ok := rs.Results["links"]["links"].([]collectors.LinkItem); ok {
		for _, l := range links {
			checked++
			if !l.Allowed {
				denied++
			}
		}
	}
	if images, ok := rs.Results["images"]["images"].([]collectors.ImageItem); ok {
		for _, img := range images {
			checked++
			if !img.Allowed {
				denied++
			}
		}
	}
	if checked > 0 {
		p.inner.RecordURLVerdicts(checked, denied)
	}
}
