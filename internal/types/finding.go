// Package types defines the shared data model of the debt scanner:
// findings, severities, kinds, and the aggregated scan report.
package types

import (
	"fmt"
	"strings"
)

// Severity classifies how urgent a finding is.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// severityWeights orders severities weakest to strongest.
var severityWeights = map[Severity]int{
	SeverityLow:      1,
	SeverityMedium:   2,
	SeverityHigh:     3,
	SeverityCritical: 4,
}

// Weight returns the ordering weight of a severity (LOW < MEDIUM < HIGH < CRITICAL).
func (s Severity) Weight() int {
	return severityWeights[s]
}

// AtLeast reports whether s is at or above the given threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s.Weight() >= threshold.Weight()
}

// ParseSeverity converts a user-supplied threshold value to a Severity.
// Accepts lower- or upper-case names; anything else is an error.
func ParseSeverity(value string) (Severity, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CRITICAL":
		return SeverityCritical, nil
	case "HIGH":
		return SeverityHigh, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "LOW":
		return SeverityLow, nil
	default:
		return "", fmt.Errorf("invalid severity: %q (expected critical, high, medium or low)", value)
	}
}

// AllSeverities lists severities strongest first, the order report sections use.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}
}

// Kind identifies which detection rule produced a finding.
type Kind string

const (
	KindFileSize   Kind = "FILE_SIZE"
	KindDeadCode   Kind = "DEAD_CODE"
	KindMarker     Kind = "MARKER"
	KindTypeGap    Kind = "TYPE_GAP"
	KindDependency Kind = "DEPENDENCY"
	KindDuplicate  Kind = "DUPLICATE"
)

// KindOrder is the stable grouping order findings keep in a report.
var KindOrder = []Kind{
	KindFileSize,
	KindDeadCode,
	KindMarker,
	KindTypeGap,
	KindDependency,
	KindDuplicate,
}

// Finding is one reported issue. Findings are immutable once produced;
// rules hand them to the aggregator and never touch them again.
type Finding struct {
	Kind       Kind              `json:"kind"`
	Severity   Severity          `json:"severity"`
	File       string            `json:"file"`
	Line       int               `json:"line,omitempty"`
	EndLine    int               `json:"end_line,omitempty"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Location renders the file/line position for human output.
func (f Finding) Location() string {
	switch {
	case f.File == "":
		return ""
	case f.Line > 0 && f.EndLine > f.Line:
		return fmt.Sprintf("%s:%d-%d", f.File, f.Line, f.EndLine)
	case f.Line > 0:
		return fmt.Sprintf("%s:%d", f.File, f.Line)
	default:
		return f.File
	}
}
