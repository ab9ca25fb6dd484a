package types

// ExitCode values form the CI contract of the scanner.
const (
	ExitClean    = 0 // no critical or high findings after filtering
	ExitCritical = 1 // at least one critical finding
	ExitHigh     = 2 // high findings but no critical
	ExitUsage    = 3 // invalid invocation or configuration
)

// SeverityCounts tallies findings per severity.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Total    int `json:"total"`
}

// Add increments the tally for one severity.
func (c *SeverityCounts) Add(s Severity) {
	switch s {
	case SeverityCritical:
		c.Critical++
	case SeverityHigh:
		c.High++
	case SeverityMedium:
		c.Medium++
	case SeverityLow:
		c.Low++
	}
	c.Total++
}

// Get returns the tally for one severity.
func (c SeverityCounts) Get(s Severity) int {
	switch s {
	case SeverityCritical:
		return c.Critical
	case SeverityHigh:
		return c.High
	case SeverityMedium:
		return c.Medium
	case SeverityLow:
		return c.Low
	}
	return 0
}

// ScanReport is the final artifact of a run. It is constructed once by the
// aggregator and never mutated afterwards; the reporter only reads it.
type ScanReport struct {
	// Findings in stable order: grouped by kind, discovery order within a kind.
	Findings []Finding

	// Counts after threshold filtering; Counts.Total always equals the sum
	// of the four severity tallies.
	Counts SeverityCounts

	// Threshold is the minimum severity applied, empty when none was set.
	Threshold Severity

	// ScannedPath is the root that was analyzed.
	ScannedPath string

	// DuplicatesEnabled records whether the duplicate detector ran.
	DuplicatesEnabled bool

	// ExitCode per the CI contract, computed from the filtered counts.
	ExitCode int
}

// Visible reports whether a finding survives the report's threshold filter.
func (r *ScanReport) Visible(f Finding) bool {
	if r.Threshold == "" {
		return true
	}
	return f.Severity.AtLeast(r.Threshold)
}

// VisibleFindings returns the findings at or above the threshold, in report order.
func (r *ScanReport) VisibleFindings() []Finding {
	if r.Threshold == "" {
		return r.Findings
	}
	visible := make([]Finding, 0, len(r.Findings))
	for _, f := range r.Findings {
		if r.Visible(f) {
			visible = append(visible, f)
		}
	}
	return visible
}
