package rules

import (
	"context"
	"fmt"
	"regexp"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// markerPattern matches debt markers as whole tokens, case-sensitive.
var markerPattern = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX|OPTIMIZE|BUG)\b`)

// AgeAnnotator supplies the age of a line in days from a version-control
// blame source. Implementations must be best-effort: ok=false means the
// annotation is simply omitted, never that the rule fails.
type AgeAnnotator interface {
	AgeDays(file string, line int) (days int, ok bool)
}

// NoAgeAnnotator is the "annotation source not available" variant.
type NoAgeAnnotator struct{}

func (NoAgeAnnotator) AgeDays(string, int) (int, bool) { return 0, false }

// MarkerRule flags debt markers (TODO, FIXME, HACK, XXX, OPTIMIZE, BUG) as
// MEDIUM findings, annotated with blame age when a source is available.
type MarkerRule struct {
	provider provider.Provider
	ages     AgeAnnotator
	logger   *slog.Logger
}

// NewMarkerRule creates the marker rule. ages may be nil for no annotation.
func NewMarkerRule(p provider.Provider, ages AgeAnnotator, logger *slog.Logger) *MarkerRule {
	if ages == nil {
		ages = NoAgeAnnotator{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MarkerRule{provider: p, ages: ages, logger: logger}
}

func (r *MarkerRule) Name() string { return "marker" }

func (r *MarkerRule) Run(ctx context.Context, files []string) ([]types.Finding, error) {
	var findings []types.Finding

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		content, err := r.provider.ReadFile(file)
		if err != nil {
			r.logger.Debug("skipping unreadable file", "rule", r.Name(), "file", file, "error", err)
			continue
		}

		for i, line := range splitLines(content) {
			for _, marker := range markerPattern.FindAllString(line, -1) {
				finding := types.Finding{
					Kind:       types.KindMarker,
					Severity:   types.SeverityMedium,
					File:       file,
					Line:       i + 1,
					Message:    fmt.Sprintf("%s marker", marker),
					Suggestion: "resolve the marker or file a tracked issue",
					Metadata:   map[string]string{"marker": marker},
				}
				if days, ok := r.ages.AgeDays(file, i+1); ok {
					finding.Metadata["age_days"] = fmt.Sprintf("%d", days)
				}
				findings = append(findings, finding)
			}
		}
	}

	return findings, nil
}
