// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records filter activity. Components take a Recorder and
// default to NoopRecorder; the CLI swaps in a PrometheusRecorder when a
// textfile path is configured.
package metrics

import "time"

// Recorder defines the observability hooks used by the filter pipeline and the
// rasterizer.
type Recorder interface {
	ObserveFilterDuration(filter string, d time.Duration)
	AddRewrites(filter string, n int)
	IncRasterLaunched(format string)
	IncRasterResult(success bool)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveFilterDuration(string, time.Duration) {}
func (NoopRecorder) AddRewrites(string, int)                     {}
func (NoopRecorder) IncRasterLaunched(string)                    {}
func (NoopRecorder) IncRasterResult(bool)                        {}
