// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// RasterStatus tracks the outcome of one vector image conversion.
type RasterStatus string

const (
	// RasterPending means the converter was started and nobody waited for it.
	RasterPending RasterStatus = "pending"

	RasterSucceeded RasterStatus = "succeeded"
	RasterFailed    RasterStatus = "failed"
)

// RunRecord describes one invocation of the filter on one document.
type RunRecord struct {
	// ID is a random UUID identifying the run in logs and in the ledger.
	ID string `json:"id" yaml:"id"`

	// Format is the normalized output format.
	Format string `json:"format" yaml:"format"`

	// Rewrites is the number of nodes replaced across all rules.
	Rewrites int `json:"rewrites" yaml:"rewrites"`

	StartedAt time.Time `json:"started_at" yaml:"started_at"`
}

// RasterRecord is one ledger row: a launched conversion and what became of it.
type RasterRecord struct {
	RunID string `json:"run_id" yaml:"run_id"`

	// Source is the image URL as written in the document.
	Source string `json:"source" yaml:"source"`

	// Output is the absolute path the image URL was rewritten to.
	Output string `json:"output" yaml:"output"`

	// Format is png or pdf.
	Format string `json:"format" yaml:"format"`

	Status RasterStatus `json:"status" yaml:"status"`

	// Error holds the converter's failure message, if any.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	LaunchedAt  time.Time  `json:"launched_at" yaml:"launched_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}
