// Package report renders a ScanReport for humans (styled text) or machines
// (summary-only JSON for CI consumption).
package report

import (
	"encoding/json"
	"time"

	"github.com/petrarca/debt-scanner/internal/types"
)

// Summary is the machine-readable report document. It intentionally carries
// no finding-level detail: CI consumers key off counts and the exit code.
type Summary struct {
	Timestamp         string               `json:"timestamp"`
	ScannedPath       string               `json:"scannedPath"`
	Summary           types.SeverityCounts `json:"summary"`
	Threshold         string               `json:"threshold"`
	DuplicatesEnabled bool                 `json:"duplicatesEnabled"`
	ExitCode          int                  `json:"exitCode"`
}

// NewSummary builds the summary document from a report.
func NewSummary(r *types.ScanReport, now time.Time) Summary {
	threshold := "none"
	if r.Threshold != "" {
		threshold = string(r.Threshold)
	}
	return Summary{
		Timestamp:         now.UTC().Format(time.RFC3339),
		ScannedPath:       r.ScannedPath,
		Summary:           r.Counts,
		Threshold:         threshold,
		DuplicatesEnabled: r.DuplicatesEnabled,
		ExitCode:          r.ExitCode,
	}
}

// RenderJSON marshals the summary document.
func RenderJSON(r *types.ScanReport, now time.Time) ([]byte, error) {
	return json.MarshalIndent(NewSummary(r, now), "", "  ")
}
