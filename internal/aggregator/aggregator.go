// Package aggregator merges the per-rule finding lists into one ScanReport:
// stable ordering, per-severity tallies, threshold filtering and the exit
// code of the CI contract.
package aggregator

import (
	"github.com/petrarca/debt-scanner/internal/types"
)

// Aggregator collects finding lists keyed by kind and builds the report.
// It is the single synchronization point at the end of the rule fan-out.
type Aggregator struct {
	byKind map[types.Kind][]types.Finding
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{
		byKind: make(map[types.Kind][]types.Finding),
	}
}

// Add appends one rule's findings. Findings keep their discovery order
// within their kind; kinds are ordered by types.KindOrder in the report.
func (a *Aggregator) Add(findings []types.Finding) {
	for _, f := range findings {
		a.byKind[f.Kind] = append(a.byKind[f.Kind], f)
	}
}

// Report builds the final ScanReport. threshold may be empty for no
// filtering. The report's counts cover only findings at or above the
// threshold, and total always equals the sum of the severity tallies.
func (a *Aggregator) Report(scannedPath string, threshold types.Severity, duplicatesEnabled bool) *types.ScanReport {
	report := &types.ScanReport{
		ScannedPath:       scannedPath,
		Threshold:         threshold,
		DuplicatesEnabled: duplicatesEnabled,
	}

	for _, kind := range types.KindOrder {
		report.Findings = append(report.Findings, a.byKind[kind]...)
	}

	for _, f := range report.Findings {
		if report.Visible(f) {
			report.Counts.Add(f.Severity)
		}
	}

	report.ExitCode = exitCode(report.Counts)
	return report
}

// exitCode applies the CI contract to the filtered counts: critical wins
// over high, anything else is clean.
func exitCode(counts types.SeverityCounts) int {
	switch {
	case counts.Critical > 0:
		return types.ExitCritical
	case counts.High > 0:
		return types.ExitHigh
	default:
		return types.ExitClean
	}
}
