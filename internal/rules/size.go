package rules

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/codestats"
	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// SizeRule flags files crossing the configured line-count thresholds.
// Tiering is binary: at or above the critical threshold the finding is
// CRITICAL, at or above the warning threshold it is informational (LOW).
type SizeRule struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	stats    *codestats.Analyzer
	logger   *slog.Logger
}

// NewSizeRule creates the size rule. The analyzer accumulates run totals for
// the report summary while the rule reads each file anyway.
func NewSizeRule(p provider.Provider, cfg *config.ScanConfig, stats *codestats.Analyzer, logger *slog.Logger) *SizeRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &SizeRule{provider: p, cfg: cfg, stats: stats, logger: logger}
}

func (r *SizeRule) Name() string { return "size" }

func (r *SizeRule) Run(ctx context.Context, files []string) ([]types.Finding, error) {
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

		st := r.stats.Analyze(file, content)

		switch {
		case st.Lines >= int64(r.cfg.SizeCritical):
			findings = append(findings, types.Finding{
				Kind:       types.KindFileSize,
				Severity:   types.SeverityCritical,
				File:       file,
				Message:    fmt.Sprintf("file has %d lines, exceeds critical size limit (%d)", st.Lines, r.cfg.SizeCritical),
				Suggestion: "split into smaller modules",
				Metadata:   sizeMetadata(st),
			})
		case st.Lines >= int64(r.cfg.SizeWarning):
			findings = append(findings, types.Finding{
				Kind:       types.KindFileSize,
				Severity:   types.SeverityLow,
				File:       file,
				Message:    fmt.Sprintf("file has %d lines, approaching size limit (%d)", st.Lines, r.cfg.SizeCritical),
				Suggestion: "consider splitting before it grows further",
				Metadata:   sizeMetadata(st),
			})
		}
	}

	return findings, nil
}

func sizeMetadata(st codestats.FileStats) map[string]string {
	meta := map[string]string{
		"lines": fmt.Sprintf("%d", st.Lines),
	}
	if st.Recognized {
		meta["code"] = fmt.Sprintf("%d", st.Code)
		meta["comments"] = fmt.Sprintf("%d", st.Comments)
		meta["complexity"] = fmt.Sprintf("%d", st.Complexity)
	}
	if st.Language != "" {
		meta["language"] = st.Language
	}
	return meta
}
