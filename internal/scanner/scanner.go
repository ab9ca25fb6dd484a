// Package scanner orchestrates a debt scan: collect the file list once, fan
// out the enabled rules as parallel tasks over it, and fan their findings
// into the aggregator.
package scanner

import (
	"context"

	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/petrarca/debt-scanner/internal/aggregator"
	"github.com/petrarca/debt-scanner/internal/codestats"
	"github.com/petrarca/debt-scanner/internal/collector"
	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/deps"
	"github.com/petrarca/debt-scanner/internal/duplicate"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/rules"
	"github.com/petrarca/debt-scanner/internal/types"
)

// Options configures one scan run beyond the resolved thresholds.
type Options struct {
	// Duplicates opts in to the duplicate detector, the most expensive rule.
	Duplicates bool

	// Threshold is the minimum severity for reported counts, empty for none.
	Threshold types.Severity

	// Ages annotates marker findings with blame age; nil disables the
	// annotation without affecting the marker rule.
	Ages rules.AgeAnnotator

	// Auditors serve the dependency rule; nil selects the defaults.
	Auditors []deps.Auditor
}

// Scanner runs the detection pipeline over one root.
type Scanner struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	opts     Options
	stats    *codestats.Analyzer
	rules    []rules.Rule
	logger   *slog.Logger
}

// New assembles the scanner with all enabled rules.
func New(p provider.Provider, cfg *config.ScanConfig, opts Options, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Auditors == nil {
		opts.Auditors = deps.DefaultAuditors(logger)
	}

	stats := codestats.NewAnalyzer()

	ruleSet := []rules.Rule{
		rules.NewSizeRule(p, cfg, stats, logger),
		rules.NewDeadCodeRule(p, cfg, logger),
		rules.NewMarkerRule(p, opts.Ages, logger),
		rules.NewTypeGapRule(p, cfg, logger),
		rules.NewDependencyRule(p, opts.Auditors, logger),
	}
	if opts.Duplicates {
		ruleSet = append(ruleSet, duplicate.NewDetector(p, cfg, logger))
	}

	return &Scanner{
		provider: p,
		cfg:      cfg,
		opts:     opts,
		stats:    stats,
		rules:    ruleSet,
		logger:   logger,
	}
}

// Scan collects the file list and runs every rule over it concurrently.
// The file list is immutable and rules share no state, so the only
// synchronization point is the merge after the wait.
func (s *Scanner) Scan(ctx context.Context) (*types.ScanReport, error) {
	files, err := collector.New(s.provider, s.cfg, s.logger).Collect()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("collected files", "count", len(files))

	results := make([][]types.Finding, len(s.rules))

	g, gctx := errgroup.WithContext(ctx)
	for i, rule := range s.rules {
		i, rule := i, rule
		g.Go(func() error {
			findings, err := rule.Run(gctx, files)
			if err != nil {
				if gctx.Err() != nil {
					return err
				}
				// A misbehaving rule degrades to its partial findings;
				// it never takes the scan down with it.
				s.logger.Warn("rule failed, keeping partial results", "rule", rule.Name(), "error", err)
			}
			s.logger.Debug("rule finished", "rule", rule.Name(), "findings", len(findings))
			results[i] = findings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge in rule declaration order so reports are deterministic no
	// matter how the goroutines interleaved.
	agg := aggregator.New()
	for _, findings := range results {
		agg.Add(findings)
	}

	return agg.Report(s.provider.GetBasePath(), s.opts.Threshold, s.opts.Duplicates), nil
}

// Totals returns the code statistics accumulated while scanning.
func (s *Scanner) Totals() codestats.Totals {
	return s.stats.Totals()
}
