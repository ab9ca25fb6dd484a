package duplicate

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

// fifteenLineFunc is a brace-balanced block comfortably above the default
// minimum block size.
func fifteenLineFunc(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s(items []int) int {\n", name)
	b.WriteString("\ttotal := 0\n")
	for i := 0; i < 11; i++ {
		fmt.Fprintf(&b, "\ttotal += items[%d]\n", i)
	}
	b.WriteString("\treturn total\n")
	b.WriteString("}\n")
	return b.String()
}

func runDetector(t *testing.T, p provider.Provider, cfg *config.ScanConfig, files []string) []types.Finding {
	t.Helper()
	findings, err := NewDetector(p, cfg, nil).Run(context.Background(), files)
	require.NoError(t, err)
	return findings
}

func TestDetector_FindsCrossFileDuplicate(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+fifteenLineFunc("sum"))
	p.AddFile("b.go", "package b\n\n"+fifteenLineFunc("sum"))

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	require.Len(t, findings, 1, "only members after the first are flagged")
	f := findings[0]
	assert.Equal(t, types.KindDuplicate, f.Kind)
	assert.Equal(t, types.SeverityCritical, f.Severity)
	assert.Equal(t, "b.go", f.File)
	assert.Equal(t, 3, f.Line)
	assert.Contains(t, f.Message, "first seen at a.go:3")
	assert.Equal(t, "a.go:3", f.Metadata["duplicate_of"])
}

func TestDetector_WhitespaceDifferencesStillMatch(t *testing.T) {
	cfg := config.DefaultScanConfig()
	block := fifteenLineFunc("sum")
	reindented := strings.ReplaceAll(block, "\t", "        ")

	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+block)
	p.AddFile("b.go", "package b\n\n"+reindented)

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	assert.Len(t, findings, 1)
}

func TestDetector_DifferentIdentifiersDoNotMatch(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+fifteenLineFunc("sumA"))
	p.AddFile("b.go", "package b\n\n"+fifteenLineFunc("sumB"))

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	assert.Empty(t, findings)
}

func TestDetector_BelowMinimumLinesIgnored(t *testing.T) {
	cfg := config.DefaultScanConfig()
	short := "func tiny() int {\n\treturn 1\n}\n"

	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+short)
	p.AddFile("b.go", "package b\n\n"+short)

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	assert.Empty(t, findings)
}

func TestDetector_SameFileDuplicate(t *testing.T) {
	cfg := config.DefaultScanConfig()
	body := fifteenLineFunc("calc")

	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+body+"\n"+body)

	findings := runDetector(t, p, cfg, []string{"a.go"})

	require.Len(t, findings, 1)
	assert.Equal(t, "a.go", findings[0].File)
	assert.True(t, findings[0].Line > 3, "the second occurrence is the duplicate")
}

func TestDetector_ThreeCopiesYieldTwoFindings(t *testing.T) {
	cfg := config.DefaultScanConfig()
	body := fifteenLineFunc("calc")

	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+body)
	p.AddFile("b.go", "package b\n\n"+body)
	p.AddFile("c.go", "package c\n\n"+body)

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go", "c.go"})

	require.Len(t, findings, 2)
	assert.Equal(t, "b.go", findings[0].File)
	assert.Equal(t, "c.go", findings[1].File)
	assert.Equal(t, "a.go:3", findings[0].Metadata["duplicate_of"])
	assert.Equal(t, "a.go:3", findings[1].Metadata["duplicate_of"])
}

func TestDetector_OversizedBlockCarriesFunctionSizeNote(t *testing.T) {
	cfg := config.DefaultScanConfig()
	var b strings.Builder
	b.WriteString("func huge(items []int) int {\n")
	b.WriteString("\ttotal := 0\n")
	for i := 0; i < cfg.FunctionSizeWarning; i++ {
		fmt.Fprintf(&b, "\ttotal += items[%d]\n", i)
	}
	b.WriteString("\treturn total\n")
	b.WriteString("}\n")
	block := b.String()

	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+block)
	p.AddFile("b.go", "package b\n\n"+block)

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	require.Len(t, findings, 1)
	lines := fmt.Sprintf("%d", cfg.FunctionSizeWarning+4)
	assert.Equal(t, lines, findings[0].Metadata["function_lines"])
	assert.Equal(t, lines, findings[0].Metadata["block_lines"])
	assert.Equal(t, types.SeverityCritical, findings[0].Severity, "the note never changes the severity")
}

func TestDetector_ModestBlockHasNoFunctionSizeNote(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("a.go", "package a\n\n"+fifteenLineFunc("sum"))
	p.AddFile("b.go", "package b\n\n"+fifteenLineFunc("sum"))

	findings := runDetector(t, p, cfg, []string{"a.go", "b.go"})

	require.Len(t, findings, 1)
	assert.NotContains(t, findings[0].Metadata, "function_lines")
}

func TestExtractBlocks_BraceBalance(t *testing.T) {
	lines := strings.Split(fifteenLineFunc("sum"), "\n")

	blocks := ExtractBlocks("f.go", lines, 10)

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 15, blocks[0].EndLine)
	assert.Equal(t, 15, blocks[0].Lines())
}

func TestExtractBlocks_NestedBraces(t *testing.T) {
	src := `func outer() {
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			work(i)
		}
		work(i + 1)
		work(i + 2)
		work(i + 3)
	}
	done()
}`

	blocks := ExtractBlocks("f.go", strings.Split(src, "\n"), 10)

	require.Len(t, blocks, 1)
	assert.Equal(t, 1, blocks[0].StartLine)
	assert.Equal(t, 11, blocks[0].EndLine)
}

func TestExtractBlocks_MinLinesRespected(t *testing.T) {
	src := "func f() {\n\treturn\n}\n"

	blocks := ExtractBlocks("f.go", strings.Split(src, "\n"), 10)

	assert.Empty(t, blocks)
}

func TestExtractBlocks_JavaScriptOpeners(t *testing.T) {
	var b strings.Builder
	b.WriteString("const handler = async (req, res) => {\n")
	for i := 0; i < 10; i++ {
		fmt.Fprintf(&b, "  res.write(part%d);\n", i)
	}
	b.WriteString("}\n")

	blocks := ExtractBlocks("h.js", strings.Split(b.String(), "\n"), 10)

	require.Len(t, blocks, 1)
	assert.Equal(t, 12, blocks[0].Lines())
}
