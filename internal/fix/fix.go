// Package fix invokes external formatters and linters after a scan. Every
// invocation is best-effort: missing tools are skipped and failures are
// logged, never surfaced, since the auto-fix outcome must not change the
// scan's exit code.
package fix

import (
	"context"
	"os/exec"
	"time"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/config"
)

// fixTimeout bounds each external tool invocation.
const fixTimeout = 120 * time.Second

// Category selects which config toggle gates a tool.
type Category string

const (
	CategoryFormatter Category = "formatter"
	CategoryLinter    Category = "linter"
)

// Tool is one external fixer invocation.
type Tool struct {
	Name     string
	Args     []string
	Category Category
	// Marker is a file whose presence in the root makes the tool relevant,
	// empty means always relevant.
	Marker string
}

// DefaultTools lists the known fixers, formatters first.
func DefaultTools() []Tool {
	return []Tool{
		{Name: "gofmt", Args: []string{"-w", "."}, Category: CategoryFormatter, Marker: "go.mod"},
		{Name: "prettier", Args: []string{"--write", "."}, Category: CategoryFormatter, Marker: "package.json"},
		{Name: "black", Args: []string{"."}, Category: CategoryFormatter, Marker: "pyproject.toml"},
		{Name: "golangci-lint", Args: []string{"run", "--fix", "./..."}, Category: CategoryLinter, Marker: "go.mod"},
		{Name: "eslint", Args: []string{"--fix", "."}, Category: CategoryLinter, Marker: "package.json"},
	}
}

// Runner executes the enabled fixers against a scan root.
type Runner struct {
	root   string
	cfg    config.FixConfig
	tools  []Tool
	logger *slog.Logger

	lookPath func(string) (string, error)
	execute  func(ctx context.Context, dir, name string, args ...string) error
}

// NewRunner creates a fix runner for the given root and toggles.
func NewRunner(root string, cfg config.FixConfig, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		root:     root,
		cfg:      cfg,
		tools:    DefaultTools(),
		logger:   logger,
		lookPath: exec.LookPath,
		execute:  runCommand,
	}
}

// Run invokes every enabled, available, relevant tool. It returns how many
// tools actually ran; failures only lower that number.
func (r *Runner) Run(ctx context.Context, hasFile func(string) bool) int {
	ran := 0
	for _, tool := range r.tools {
		if !r.enabled(tool.Category) {
			continue
		}
		if tool.Marker != "" && hasFile != nil && !hasFile(tool.Marker) {
			continue
		}
		if _, err := r.lookPath(tool.Name); err != nil {
			r.logger.Debug("fixer not installed", "tool", tool.Name)
			continue
		}

		toolCtx, cancel := context.WithTimeout(ctx, fixTimeout)
		err := r.execute(toolCtx, r.root, tool.Name, tool.Args...)
		cancel()
		if err != nil {
			r.logger.Warn("fixer failed", "tool", tool.Name, "error", err)
			continue
		}
		r.logger.Info("fixer applied", "tool", tool.Name)
		ran++
	}
	return ran
}

func (r *Runner) enabled(category Category) bool {
	switch category {
	case CategoryFormatter:
		return r.cfg.Formatters
	case CategoryLinter:
		return r.cfg.Linters
	}
	return false
}

func runCommand(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.Run()
}
