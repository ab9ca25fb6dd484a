package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// commentLeaders maps file extensions to their single-line comment prefix.
var commentLeaders = map[string]string{
	".go": "//", ".js": "//", ".jsx": "//", ".ts": "//", ".tsx": "//",
	".java": "//", ".c": "//", ".h": "//", ".cpp": "//", ".hpp": "//",
	".cs": "//", ".php": "//", ".rs": "//", ".kt": "//", ".swift": "//",
	".py": "#", ".rb": "#", ".sh": "#",
	".sql": "--", ".lua": "--",
}

// terminatorPattern matches lines that end a logical flow: return statements
// and their throw/raise/panic cousins.
var terminatorPattern = regexp.MustCompile(`^\s*(return\b|raise\b|throw\b|panic\()`)

// DeadCodeRule applies two textual heuristics, both HIGH severity:
// long runs of consecutive comment lines (probable commented-out code) and
// statements following a return on the same construct (possible unreachable
// code). Neither is control-flow analysis; over- and under-reporting are
// accepted, and unreachable findings are capped to bound noise.
type DeadCodeRule struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	logger   *slog.Logger
}

// NewDeadCodeRule creates the dead code rule.
func NewDeadCodeRule(p provider.Provider, cfg *config.ScanConfig, logger *slog.Logger) *DeadCodeRule {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeadCodeRule{provider: p, cfg: cfg, logger: logger}
}

func (r *DeadCodeRule) Name() string { return "deadcode" }

func (r *DeadCodeRule) Run(ctx context.Context, files []string) ([]types.Finding, error) {
	var findings []types.Finding
	unreachableLeft := r.cfg.UnreachableCap

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return findings, err
		}

		leader, ok := commentLeaders[filepath.Ext(file)]
		if !ok {
			continue
		}

		content, err := r.provider.ReadFile(file)
		if err != nil {
			r.logger.Debug("skipping unreadable file", "rule", r.Name(), "file", file, "error", err)
			continue
		}
		lines := splitLines(content)

		findings = append(findings, r.commentBlocks(file, lines, leader)...)
		findings = append(findings, r.unreachable(file, lines, leader, &unreachableLeft)...)
	}

	sortFindings(findings)
	return findings, nil
}

// commentBlocks flags runs of >= DeadCommentBlock consecutive single-line
// comments, anchored at the first line of the run. A run still open at end
// of file is flagged too.
func (r *DeadCodeRule) commentBlocks(file string, lines []string, leader string) []types.Finding {
	var findings []types.Finding
	runStart := 0
	runLength := 0

	flush := func() {
		if runLength >= r.cfg.DeadCommentBlock {
			findings = append(findings, types.Finding{
				Kind:       types.KindDeadCode,
				Severity:   types.SeverityHigh,
				File:       file,
				Line:       runStart,
				EndLine:    runStart + runLength - 1,
				Message:    fmt.Sprintf("%d consecutive comment lines, probable commented-out code", runLength),
				Suggestion: "delete the block; version control remembers it",
				Metadata:   map[string]string{"comment_lines": fmt.Sprintf("%d", runLength)},
			})
		}
		runLength = 0
	}

	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), leader) {
			if runLength == 0 {
				runStart = i + 1
			}
			runLength++
			continue
		}
		flush()
	}
	flush() // trailing run at EOF

	return findings
}

// unreachable flags a non-comment statement directly following a return-like
// terminator at the same or deeper indentation. The budget is shared across files.
func (r *DeadCodeRule) unreachable(file string, lines []string, leader string, budget *int) []types.Finding {
	var findings []types.Finding

	for i := 0; i < len(lines)-1 && *budget > 0; i++ {
		if !terminatorPattern.MatchString(lines[i]) {
			continue
		}

		next := lines[i+1]
		trimmed := strings.TrimSpace(next)
		if trimmed == "" || strings.HasPrefix(trimmed, leader) {
			continue
		}
		if closesBlock(trimmed) {
			continue
		}
		if indentOf(next) < indentOf(lines[i]) {
			continue
		}

		findings = append(findings, types.Finding{
			Kind:       types.KindDeadCode,
			Severity:   types.SeverityHigh,
			File:       file,
			Line:       i + 2,
			Message:    "possible unreachable code after return",
			Suggestion: "verify control flow and remove dead statements",
		})
		*budget--
	}

	return findings
}

// closesBlock reports lines that legitimately follow a return: block
// closers and branch keywords.
func closesBlock(trimmed string) bool {
	switch {
	case strings.HasPrefix(trimmed, "}"),
		strings.HasPrefix(trimmed, ")"),
		strings.HasPrefix(trimmed, "]"),
		strings.HasPrefix(trimmed, "end"),
		strings.HasPrefix(trimmed, "case "),
		strings.HasPrefix(trimmed, "default"),
		strings.HasPrefix(trimmed, "else"),
		strings.HasPrefix(trimmed, "elif "),
		strings.HasPrefix(trimmed, "except"),
		strings.HasPrefix(trimmed, "finally"),
		strings.HasPrefix(trimmed, "catch"):
		return true
	}
	return false
}

func indentOf(line string) int {
	count := 0
	for _, ch := range line {
		switch ch {
		case ' ':
			count++
		case '\t':
			count += 4
		default:
			return count
		}
	}
	return count
}
