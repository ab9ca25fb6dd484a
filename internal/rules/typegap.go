package rules

import (
	"context"
	"path/filepath"
	"regexp"

	"log/slog"

	"github.com/go-enry/go-enry/v2"
	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// typeGapProfile holds the textual type-safety proxies for one language family.
type typeGapProfile struct {
	// anyTyped matches explicit dynamic/any-typed annotations (HIGH).
	anyTyped *regexp.Regexp
	// suppression matches compiler/checker warning suppressions (HIGH).
	suppression *regexp.Regexp
	// missingReturn matches function-like declarations without a
	// recognizable return-type annotation (MEDIUM, capped).
	missingReturn *regexp.Regexp
}

// typeGapProfiles keys file extensions of typed languages. Files with other
// extensions are untyped as far as this rule is concerned and are skipped.
var typeGapProfiles = map[string]typeGapProfile{
	".ts": {
		anyTyped:      regexp.MustCompile(`:\s*any\b|\bas\s+any\b|\bany\[\]|<any>`),
		suppression:   regexp.MustCompile(`@ts-ignore|@ts-nocheck|@ts-expect-error`),
		missingReturn: regexp.MustCompile(`^\s*(export\s+)?(async\s+)?function\s+\w+\s*\([^)]*\)\s*\{`),
	},
	".py": {
		anyTyped:      regexp.MustCompile(`:\s*Any\b|->\s*Any\b|=\s*Any\b`),
		suppression:   regexp.MustCompile(`#\s*type:\s*ignore|#\s*noqa`),
		missingReturn: regexp.MustCompile(`^\s*def\s+\w+\s*\([^)]*\)\s*:`),
	},
	".go": {
		anyTyped:    regexp.MustCompile(`\binterface\{\}|\bany\b\s*[,)]`),
		suppression: regexp.MustCompile(`//nolint\b|//\s*#nosec\b`),
	},
	".java": {
		suppression: regexp.MustCompile(`@SuppressWarnings`),
	},
	".cs": {
		anyTyped:    regexp.MustCompile(`\bdynamic\s+\w`),
		suppression: regexp.MustCompile(`#pragma\s+warning\s+disable`),
	},
}

func init() {
	// TSX shares the TypeScript profile.
	typeGapProfiles[".tsx"] = typeGapProfiles[".ts"]
}

// returnAnnotated matches declarations that do carry a return type, used to
// drop false positives from missingReturn.
var returnAnnotated = map[string]*regexp.Regexp{
	".ts":  regexp.MustCompile(`\)\s*:\s*\S`),
	".tsx": regexp.MustCompile(`\)\s*:\s*\S`),
	".py":  regexp.MustCompile(`->`),
}

// TypeGapRule flags textual proxies for weak typing: explicit any-typing and
// suppression directives (HIGH), and declarations without return-type
// annotations (MEDIUM, capped). No type inference happens here; the rule is
// a no-op for untyped source files.
type TypeGapRule struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	logger   *slog.Logger
}

// NewTypeGapRule creates the type gap rule.
func NewTypeGapRule(p provider.Provider, cfg *config.ScanConfig, logger *slog.Logger) *TypeGapRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &TypeGapRule{provider: p, cfg: cfg, logger: logger}
}

func (r *TypeGapRule) Name() string { return "typegap" }

func (r *TypeGapRule) Run(ctx context.Context, files []string) ([]types.Finding, error) {
	var findings []types.Finding
	missingReturnLeft := r.cfg.TypeGapCap

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		ext := filepath.Ext(file)
		profile, typed := typeGapProfiles[ext]
		if !typed {
			continue
		}

		content, err := r.provider.ReadFile(file)
		if err != nil {
			r.logger.Debug("skipping unreadable file", "rule", r.Name(), "file", file, "error", err)
			continue
		}

		// Generated or vendored content detected by enry is skipped; its
		// typing is not actionable debt.
		if enry.IsGenerated(file, content) || enry.IsVendor(file) {
			continue
		}

		for i, line := range splitLines(content) {
			lineNo := i + 1

			if profile.anyTyped != nil && profile.anyTyped.MatchString(line) {
				findings = append(findings, types.Finding{
					Kind:       types.KindTypeGap,
					Severity:   types.SeverityHigh,
					File:       file,
					Line:       lineNo,
					Message:    "explicit dynamic typing defeats the type checker",
					Suggestion: "replace with a concrete type",
				})
				continue
			}

			if profile.suppression != nil && profile.suppression.MatchString(line) {
				findings = append(findings, types.Finding{
					Kind:       types.KindTypeGap,
					Severity:   types.SeverityHigh,
					File:       file,
					Line:       lineNo,
					Message:    "warning suppression directive hides type errors",
					Suggestion: "fix the underlying warning instead of suppressing it",
				})
				continue
			}

			if profile.missingReturn != nil && missingReturnLeft > 0 &&
				profile.missingReturn.MatchString(line) && !hasReturnAnnotation(ext, line) {
				findings = append(findings, types.Finding{
					Kind:       types.KindTypeGap,
					Severity:   types.SeverityMedium,
					File:       file,
					Line:       lineNo,
					Message:    "function declaration without return type annotation",
					Suggestion: "annotate the return type",
				})
				missingReturnLeft--
			}
		}
	}

	return findings, nil
}

func hasReturnAnnotation(ext, line string) bool {
	pattern, ok := returnAnnotated[ext]
	return ok && pattern.MatchString(line)
}
