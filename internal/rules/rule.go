// Package rules contains the independent technical-debt detectors. Each rule
// consumes the immutable file list produced by the collector and returns its
// own finding list; rules share no mutable state and may run concurrently.
//
// All detection here is line-oriented text heuristics. False positives and
// negatives are an accepted cost of staying parser-free.
package rules

import (
	"context"
	"sort"
	"strings"

	"github.com/petrarca/debt-scanner/internal/types"
)

// Rule is one independent detector over the collected file list.
type Rule interface {
	// Name identifies the rule in logs and configuration.
	Name() string

	// Run analyzes the given provider-relative file paths and returns the
	// rule's findings, sorted by file then line. A rule never fails the
	// scan: per-file problems are skipped, collaborator problems degrade
	// to no findings.
	Run(ctx context.Context, files []string) ([]types.Finding, error)
}

// splitLines breaks file content into lines without the terminating newline.
// A trailing newline does not produce a phantom empty last line.
func splitLines(content []byte) []string {
	s := string(content)
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// sortFindings orders findings by file then line for deterministic reports.
func sortFindings(findings []types.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		return findings[i].Line < findings[j].Line
	})
}
