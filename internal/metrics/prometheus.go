// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "pandoc_docx_utils"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg            *prom.Registry
	filterDuration *prom.HistogramVec
	rewrites       *prom.CounterVec
	rasterLaunched *prom.CounterVec
	rasterResults  *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg, or on
// a fresh registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		filterDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "filter_duration_seconds",
			Help:      "Duration of one full traversal per filter",
			Buckets:   prom.DefBuckets,
		}, []string{"filter"}),
		rewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rewrites_total",
			Help:      "Nodes replaced, by filter",
		}, []string{"filter"}),
		rasterLaunched: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "raster_launched_total",
			Help:      "Rasterization processes started, by target format",
		}, []string{"format"}),
		rasterResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "raster_results_total",
			Help:      "Awaited rasterization outcomes",
		}, []string{"result"}),
	}
	reg.MustRegister(pr.filterDuration, pr.rewrites, pr.rasterLaunched, pr.rasterResults)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.reg
}

func (p *PrometheusRecorder) ObserveFilterDuration(filter string, d time.Duration) {
	if p == nil {
		return
	}
	p.filterDuration.WithLabelValues(filter).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddRewrites(filter string, n int) {
	if p == nil {
		return
	}
	p.rewrites.WithLabelValues(filter).Add(float64(n))
}

func (p *PrometheusRecorder) IncRasterLaunched(format string) {
	if p == nil {
		return
	}
	p.rasterLaunched.WithLabelValues(format).Inc()
}

func (p *PrometheusRecorder) IncRasterResult(success bool) {
	if p == nil {
		return
	}
	res := "failed"
	if success {
		res = "success"
	}
	p.rasterResults.WithLabelValues(res).Inc()
}

// WriteTextfile writes all registered metrics to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
