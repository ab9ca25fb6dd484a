// Package collector enumerates the candidate files of a scan: a
// deterministic, finite walk over the root that applies extension and
// exclude filtering, pruning excluded subtrees instead of post-filtering.
package collector

import (
	"fmt"
	"path/filepath"
	"strings"

	"log/slog"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
)

// InvalidRootError marks a scan root that is missing or not a directory.
// It is fatal: the scan exits with the usage code before any rule runs.
type InvalidRootError struct {
	Root   string
	Reason string
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid scan root %s: %s", e.Root, e.Reason)
}

// Collector walks a provider tree and returns matching file paths.
type Collector struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	logger   *slog.Logger
}

// New creates a collector over the given provider and resolved configuration.
func New(p provider.Provider, cfg *config.ScanConfig, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{provider: p, cfg: cfg, logger: logger}
}

// Collect returns the provider-relative paths of all files matching the
// configured extensions, in deterministic (lexicographic walk) order.
// Excluded directories are never descended into.
func (c *Collector) Collect() ([]string, error) {
	exists, err := c.provider.Exists(".")
	if err != nil || !exists {
		return nil, &InvalidRootError{Root: c.provider.GetBasePath(), Reason: "path does not exist"}
	}
	isDir, err := c.provider.IsDir(".")
	if err != nil || !isDir {
		return nil, &InvalidRootError{Root: c.provider.GetBasePath(), Reason: "not a directory"}
	}

	var files []string
	if err := c.walk(".", &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *Collector) walk(dir string, files *[]string) error {
	entries, err := c.provider.ListDir(dir)
	if err != nil {
		// Unreadable directories are skipped, never abort the walk.
		c.logger.Debug("skipping unreadable directory", "dir", dir, "error", err)
		return nil
	}

	for _, entry := range entries {
		rel := entry.Path
		if dir == "." {
			rel = entry.Name
		}

		if entry.Type == "dir" {
			if c.excluded(entry.Name, rel) {
				continue // prune: do not descend
			}
			if err := c.walk(rel, files); err != nil {
				return err
			}
			continue
		}

		if !c.cfg.MatchesExtension(entry.Name) {
			continue
		}
		if c.excluded(entry.Name, rel) {
			continue
		}
		*files = append(*files, rel)
	}

	return nil
}

// excluded checks a name and its root-relative path against the exclude
// patterns. Patterns match the bare name, the relative path, or any path
// prefix, so excluding "vendor" prunes vendor trees at any depth.
func (c *Collector) excluded(name, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.cfg.Exclude {
		if matched, err := doublestar.Match(pattern, name); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
		if strings.EqualFold(name, pattern) {
			return true
		}
	}
	return false
}
