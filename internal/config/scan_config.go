package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/petrarca/debt-scanner/internal/validation"
)

// ConfigFileName is the per-project configuration file looked up in the scan root.
const ConfigFileName = ".debt-scanner.yml"

// Default thresholds. Overridable through the project config file.
const (
	DefaultSizeWarning         = 300
	DefaultSizeCritical        = 500
	DefaultDuplicateMinLines   = 10
	DefaultFunctionSizeWarning = 50
	DefaultDeadCommentBlock    = 10
	DefaultUnreachableCap      = 20
	DefaultTypeGapCap          = 20
)

// DefaultExcludes are pruned at any depth without descending into them.
var DefaultExcludes = []string{
	".git", ".hg", ".svn", ".idea", ".vscode",
	"node_modules", "vendor", "dist", "build", "target", "__pycache__",
}

// DefaultExtensions are the source file extensions considered by the rules.
var DefaultExtensions = []string{
	".go", ".js", ".jsx", ".ts", ".tsx", ".py", ".rb", ".java",
	".c", ".h", ".cpp", ".hpp", ".cs", ".php", ".rs", ".kt",
	".swift", ".sh", ".sql", ".lua",
}

// InvalidConfigError marks a malformed or invalid project configuration.
// It is fatal: the scan exits with the usage code before any rule runs.
type InvalidConfigError struct {
	Path   string
	Reason error
}

func (e *InvalidConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Reason)
	}
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Reason)
}

func (e *InvalidConfigError) Unwrap() error { return e.Reason }

// FixConfig toggles the auto-fix categories invoked by --fix.
type FixConfig struct {
	Formatters bool `yaml:"formatters"`
	Linters    bool `yaml:"linters"`
}

// ScanConfig holds the resolved thresholds for one run. It is created once
// from defaults overlaid by the optional project file and read-only after.
type ScanConfig struct {
	SizeWarning         int
	SizeCritical        int
	DuplicateMinLines   int
	FunctionSizeWarning int
	DeadCommentBlock    int
	UnreachableCap      int
	TypeGapCap          int

	Exclude    []string
	Extensions []string

	Fix FixConfig
}

// projectConfigFile mirrors the YAML layout of .debt-scanner.yml.
type projectConfigFile struct {
	Thresholds struct {
		FileSizeWarning     int `yaml:"file_size_warning"`
		FileSizeCritical    int `yaml:"file_size_critical"`
		DuplicateMinLines   int `yaml:"duplicate_min_lines"`
		FunctionSizeWarning int `yaml:"function_size_warning"`
	} `yaml:"thresholds"`
	Exclude []string   `yaml:"exclude"`
	Fix     *FixConfig `yaml:"fix"`
}

// DefaultScanConfig returns the built-in thresholds with default excludes.
func DefaultScanConfig() *ScanConfig {
	return &ScanConfig{
		SizeWarning:         DefaultSizeWarning,
		SizeCritical:        DefaultSizeCritical,
		DuplicateMinLines:   DefaultDuplicateMinLines,
		FunctionSizeWarning: DefaultFunctionSizeWarning,
		DeadCommentBlock:    DefaultDeadCommentBlock,
		UnreachableCap:      DefaultUnreachableCap,
		TypeGapCap:          DefaultTypeGapCap,
		Exclude:             append([]string{}, DefaultExcludes...),
		Extensions:          append([]string{}, DefaultExtensions...),
		Fix:                 FixConfig{Formatters: true, Linters: false},
	}
}

// LoadScanConfig resolves the scan configuration for a root directory.
// configFile overrides the default <root>/.debt-scanner.yml lookup.
// A missing file yields defaults; a malformed or schema-invalid file is an
// *InvalidConfigError so the caller aborts with the usage exit code.
func LoadScanConfig(root, configFile string) (*ScanConfig, error) {
	cfg := DefaultScanConfig()

	path := configFile
	explicit := configFile != ""
	if !explicit {
		path = filepath.Join(root, ConfigFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, &InvalidConfigError{Path: path, Reason: err}
	}

	// Validate against the embedded schema before unmarshaling so a
	// malformed file fails loudly instead of silently defaulting.
	if err := validation.ValidateYAML("debt-scanner-config.json", data); err != nil {
		return nil, &InvalidConfigError{Path: path, Reason: err}
	}

	var file projectConfigFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &InvalidConfigError{Path: path, Reason: err}
	}

	if file.Thresholds.FileSizeWarning > 0 {
		cfg.SizeWarning = file.Thresholds.FileSizeWarning
	}
	if file.Thresholds.FileSizeCritical > 0 {
		cfg.SizeCritical = file.Thresholds.FileSizeCritical
	}
	if file.Thresholds.DuplicateMinLines > 0 {
		cfg.DuplicateMinLines = file.Thresholds.DuplicateMinLines
	}
	if file.Thresholds.FunctionSizeWarning > 0 {
		cfg.FunctionSizeWarning = file.Thresholds.FunctionSizeWarning
	}
	if len(file.Exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, file.Exclude...)
	}
	if file.Fix != nil {
		cfg.Fix = *file.Fix
	}

	if cfg.SizeWarning > cfg.SizeCritical {
		return nil, &InvalidConfigError{
			Path:   path,
			Reason: fmt.Errorf("file_size_warning (%d) exceeds file_size_critical (%d)", cfg.SizeWarning, cfg.SizeCritical),
		}
	}

	return cfg, nil
}

// MatchesExtension reports whether a file name carries one of the configured
// source extensions.
func (c *ScanConfig) MatchesExtension(name string) bool {
	ext := filepath.Ext(name)
	if ext == "" {
		return false
	}
	for _, e := range c.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
