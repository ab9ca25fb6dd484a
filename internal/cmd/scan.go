package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/petrarca/debt-scanner/internal/codestats"
	"github.com/petrarca/debt-scanner/internal/collector"
	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/fix"
	"github.com/petrarca/debt-scanner/internal/gitblame"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/report"
	"github.com/petrarca/debt-scanner/internal/rules"
	"github.com/petrarca/debt-scanner/internal/scanner"
	"github.com/petrarca/debt-scanner/internal/types"
)

var settings *config.Settings

var scanCmd = &cobra.Command{
	Use:   "scan [root]",
	Short: "Scan a source tree for technical debt",
	Long: `Scan analyzes a source tree and reports technical-debt findings
classified by severity.

Examples:
  debt-scanner scan /path/to/project
  debt-scanner scan --duplicates /path/to/project
  debt-scanner scan --threshold high --json /path/to/project
  debt-scanner scan --exclude "**/generated/**" /path/to/project`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	// Defaults come from environment variables (DEBT_SCANNER_*) overlaid
	// on built-ins; flags override both.
	settings = config.LoadSettings()

	scanCmd.Flags().BoolVar(&settings.JSON, "json", settings.JSON, "Machine-readable summary output (implies --summary)")
	scanCmd.Flags().BoolVar(&settings.Summary, "summary", settings.Summary, "Summary only, no per-finding detail")
	scanCmd.Flags().BoolVar(&settings.Duplicates, "duplicates", settings.Duplicates, "Enable duplicate block detection (expensive, off by default)")
	scanCmd.Flags().StringVar(&settings.Threshold, "threshold", settings.Threshold, "Minimum severity to report: critical, high, medium or low")
	scanCmd.Flags().BoolVar(&settings.Fix, "fix", settings.Fix, "Run configured formatters/linters after reporting (best effort)")
	scanCmd.Flags().StringSliceVar(&settings.ExcludePatterns, "exclude", settings.ExcludePatterns, "Patterns to exclude (glob, can be repeated)")
	scanCmd.Flags().StringVar(&settings.ConfigFile, "config", settings.ConfigFile, "Project config file (default: <root>/.debt-scanner.yml)")

	scanCmd.Flags().String("log-level", settings.LogLevel.String(), "Log level: debug, info, warn, error")
	scanCmd.Flags().String("log-format", settings.LogFormat, "Log format: text or json")
	scanCmd.Flags().String("log-file", settings.LogFile, "Log file path (default: stderr)")
}

// fatal prints a one-line error and exits with the usage code. Fatal errors
// short-circuit: no report body is produced.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(types.ExitUsage)
}

// configureLogging sets up logging based on command flags.
func configureLogging(cmd *cobra.Command) *slog.Logger {
	logLevel, _ := cmd.Flags().GetString("log-level")
	logFormat, _ := cmd.Flags().GetString("log-format")
	logFile, _ := cmd.Flags().GetString("log-file")

	if level, err := config.ParseLogLevel(logLevel); err == nil {
		settings.LogLevel = level
	}
	settings.LogFormat = logFormat
	settings.LogFile = logFile

	return settings.ConfigureLogger()
}

// resolveRoot turns the positional argument into an absolute path.
func resolveRoot(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = strings.TrimSpace(args[0])
	}
	return filepath.Abs(path)
}

func runScan(cmd *cobra.Command, args []string) {
	logger := configureLogging(cmd)

	root, err := resolveRoot(args)
	if err != nil {
		fatal(err)
	}

	// Validate invocation before any I/O-heavy work.
	var threshold types.Severity
	if settings.Threshold != "" {
		threshold, err = types.ParseSeverity(settings.Threshold)
		if err != nil {
			fatal(err)
		}
	}

	cfg, err := config.LoadScanConfig(root, settings.ConfigFile)
	if err != nil {
		fatal(err)
	}
	for _, pattern := range settings.ExcludePatterns {
		if p := strings.TrimSpace(pattern); p != "" {
			cfg.Exclude = append(cfg.Exclude, p)
		}
	}

	p := provider.NewFSProvider(root)

	// Marker ages come from git blame when the root is inside a repository;
	// otherwise the annotation is simply absent.
	var ages rules.AgeAnnotator
	if annotator, ok := gitblame.NewAnnotator(root, logger); ok {
		ages = annotator
	}

	s := scanner.New(p, cfg, scanner.Options{
		Duplicates: settings.Duplicates,
		Threshold:  threshold,
		Ages:       ages,
	}, logger)

	ctx := context.Background()
	scanReport, err := s.Scan(ctx)
	if err != nil {
		var rootErr *collector.InvalidRootError
		if errors.As(err, &rootErr) {
			fatal(rootErr)
		}
		fatal(err)
	}

	renderReport(scanReport, s.Totals())

	if settings.Fix {
		// Fix runs after reporting and never changes the scan's exit code.
		runner := fix.NewRunner(root, cfg.Fix, logger)
		runner.Run(ctx, func(name string) bool {
			exists, _ := p.Exists(name)
			return exists
		})
	}

	os.Exit(scanReport.ExitCode)
}

func renderReport(r *types.ScanReport, totals codestats.Totals) {
	if settings.JSON {
		data, err := report.RenderJSON(r, time.Now())
		if err != nil {
			fatal(err)
		}
		fmt.Println(string(data))
		return
	}

	color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	renderer := report.NewTextRenderer(os.Stdout, color)
	renderer.Render(r, &totals, settings.Summary)
}
