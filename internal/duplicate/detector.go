// Package duplicate detects copy-pasted code: it extracts brace-balanced
// blocks from each file, canonicalizes them by stripping all whitespace,
// hashes the result, and groups equal hashes across the scanned set.
//
// Normalize-then-hash catches exact-structure duplicates in one pass with no
// quadratic pairwise comparison. Semantically equal but differently written
// blocks are missed; that is a documented limitation, not a defect.
package duplicate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"log/slog"

	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// openerPattern matches function- and binding-like declarations that start a
// braced block. Indentation-delimited languages are out of scope.
var openerPattern = regexp.MustCompile(`^\s*(?:` +
	`(?:export\s+)?(?:default\s+)?(?:async\s+)?function\b` + // JS/TS functions
	`|func\b` + // Go
	`|(?:public|private|protected|internal|static|final|override|virtual)\b.*\(` + // Java/C#/C++ methods
	`|(?:const|let|var)\s+\w+\s*=\s*(?:async\s*)?(?:function\b|\([^)]*\)\s*=>)` + // JS bindings
	`|class\s+\w+` +
	`)`)

// CodeBlock is a contiguous brace-balanced span of lines in one file.
// Blocks are ephemeral: they live for a single detection pass.
type CodeBlock struct {
	File      string
	StartLine int // 1-based, inclusive
	EndLine   int // 1-based, inclusive
	Hash      string
}

// Lines returns the block length in lines.
func (b CodeBlock) Lines() int {
	return b.EndLine - b.StartLine + 1
}

// Detector finds duplicated code blocks across the scanned file set. It
// implements the same contract as the detection rules and is opt-in because
// it reads and hashes the full content of every qualifying file.
type Detector struct {
	provider provider.Provider
	cfg      *config.ScanConfig
	logger   *slog.Logger
}

// NewDetector creates a duplicate detector.
func NewDetector(p provider.Provider, cfg *config.ScanConfig, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{provider: p, cfg: cfg, logger: logger}
}

func (d *Detector) Name() string { return "duplicate" }

// Run extracts blocks from every file, groups them by canonical hash, and
// emits one CRITICAL finding per group member after the first, each naming
// the first member as the duplicate source.
func (d *Detector) Run(ctx context.Context, files []string) ([]types.Finding, error) {
	groups := make(map[string][]CodeBlock)
	var order []string // hashes in discovery order for deterministic output

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		content, err := d.provider.ReadFile(file)
		if err != nil {
			d.logger.Debug("skipping unreadable file", "rule", d.Name(), "file", file, "error", err)
			continue
		}

		for _, block := range ExtractBlocks(file, strings.Split(string(content), "\n"), d.cfg.DuplicateMinLines) {
			if _, seen := groups[block.Hash]; !seen {
				order = append(order, block.Hash)
			}
			groups[block.Hash] = append(groups[block.Hash], block)
		}
	}

	var findings []types.Finding
	for _, hash := range order {
		members := groups[hash]
		if len(members) < 2 {
			continue
		}
		first := members[0]
		for _, dup := range members[1:] {
			meta := map[string]string{
				"duplicate_of": fmt.Sprintf("%s:%d", first.File, first.StartLine),
				"block_lines":  fmt.Sprintf("%d", dup.Lines()),
			}
			// Advisory function-size note: the block is not just copied,
			// it is also longer than the configured function-size warning.
			if dup.Lines() > d.cfg.FunctionSizeWarning {
				meta["function_lines"] = fmt.Sprintf("%d", dup.Lines())
			}
			findings = append(findings, types.Finding{
				Kind:       types.KindDuplicate,
				Severity:   types.SeverityCritical,
				File:       dup.File,
				Line:       dup.StartLine,
				EndLine:    dup.EndLine,
				Message:    fmt.Sprintf("duplicated block of %d lines, first seen at %s:%d", dup.Lines(), first.File, first.StartLine),
				Suggestion: "extract the shared block into one function",
				Metadata:   meta,
			})
		}
	}

	return findings, nil
}

// ExtractBlocks scans lines for block openers, tracks nested brace balance,
// and emits a CodeBlock whenever the balance returns to zero over a span of
// at least minLines lines.
func ExtractBlocks(file string, lines []string, minLines int) []CodeBlock {
	var blocks []CodeBlock

	inBlock := false
	depth := 0
	start := 0
	var span []string

	for i, line := range lines {
		if !inBlock {
			if !openerPattern.MatchString(line) || strings.Count(line, "{") == 0 {
				continue
			}
			inBlock = true
			depth = 0
			start = i + 1
			span = span[:0]
		}

		span = append(span, line)
		depth += strings.Count(line, "{") - strings.Count(line, "}")

		if depth <= 0 {
			if length := i + 1 - start + 1; length >= minLines {
				blocks = append(blocks, CodeBlock{
					File:      file,
					StartLine: start,
					EndLine:   i + 1,
					Hash:      hashBlock(span),
				})
			}
			inBlock = false
		}
	}

	return blocks
}

// hashBlock canonicalizes a block by stripping all whitespace and hashes it.
func hashBlock(lines []string) string {
	canonical := strings.Join(lines, "")
	canonical = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, canonical)

	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}
