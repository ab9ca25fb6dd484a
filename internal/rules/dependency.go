package rules

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/deps"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// DependencyRule reports dependency health from package-manager metadata:
// outdated packages are MEDIUM, known vulnerabilities are CRITICAL. With no
// manifest or no usable tool the rule is a no-op, never an error.
type DependencyRule struct {
	provider provider.Provider
	auditors []deps.Auditor
	logger   *slog.Logger
}

// NewDependencyRule creates the dependency rule with the given auditors.
func NewDependencyRule(p provider.Provider, auditors []deps.Auditor, logger *slog.Logger) *DependencyRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &DependencyRule{provider: p, auditors: auditors, logger: logger}
}

func (r *DependencyRule) Name() string { return "dependency" }

// Run ignores the file list; the rule consumes project metadata instead.
func (r *DependencyRule) Run(ctx context.Context, _ []string) ([]types.Finding, error) {
	var findings []types.Finding

	for _, manifest := range deps.DetectManifests(r.provider, r.logger) {
		auditor := deps.AuditorFor(r.auditors, manifest.Tool)
		if auditor == nil || !auditor.Available() {
			r.logger.Debug("no auditor available, skipping manifest", "manifest", manifest.Path)
			continue
		}

		result, err := auditor.Audit(ctx, r.provider.GetBasePath())
		if err != nil {
			r.logger.Debug("dependency audit degraded", "manifest", manifest.Path, "error", err)
			continue
		}

		meta := map[string]string{
			"tool":   manifest.Tool,
			"direct": fmt.Sprintf("%d", manifest.Direct),
		}

		if result.Outdated > 0 {
			findings = append(findings, types.Finding{
				Kind:       types.KindDependency,
				Severity:   types.SeverityMedium,
				File:       manifest.Path,
				Message:    fmt.Sprintf("%d outdated dependencies", result.Outdated),
				Suggestion: "update dependencies to their latest versions",
				Metadata:   meta,
			})
		}

		if result.Vulnerabilities > 0 {
			findings = append(findings, types.Finding{
				Kind:       types.KindDependency,
				Severity:   types.SeverityCritical,
				File:       manifest.Path,
				Message:    fmt.Sprintf("%d known vulnerabilities in dependencies", result.Vulnerabilities),
				Suggestion: "upgrade or patch the affected packages now",
				Metadata:   meta,
			})
		}
	}

	return findings, nil
}
