// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.ObserveFilterDuration("unnumber-headings", 3*time.Millisecond)
	pr.AddRewrites("unnumber-headings", 2)
	pr.IncRasterLaunched("png")
	pr.IncRasterResult(true)
	pr.IncRasterResult(false)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["pandoc_docx_utils_rewrites_total"])
	assert.True(t, names["pandoc_docx_utils_filter_duration_seconds"])
	assert.True(t, names["pandoc_docx_utils_raster_launched_total"])
	assert.True(t, names["pandoc_docx_utils_raster_results_total"])
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddRewrites("restyle-bullet-lists", 4)

	path := filepath.Join(t.TempDir(), "pandoc.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pandoc_docx_utils_rewrites_total{filter="restyle-bullet-lists"} 4`)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveFilterDuration("x", time.Second)
	r.AddRewrites("x", 1)
	r.IncRasterLaunched("pdf")
	r.IncRasterResult(false)
}
