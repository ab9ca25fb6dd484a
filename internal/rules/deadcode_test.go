package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrarca/debt-scanner/internal/config"
	"github.com/petrarca/debt-scanner/internal/provider"
	"github.com/petrarca/debt-scanner/internal/types"
)

func runDeadCodeRule(t *testing.T, p provider.Provider, cfg *config.ScanConfig, files []string) []types.Finding {
	t.Helper()
	findings, err := NewDeadCodeRule(p, cfg, nil).Run(context.Background(), files)
	require.NoError(t, err)
	return findings
}

func commentRun(leader string, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(leader + " old code\n")
	}
	return b.String()
}

func TestDeadCodeRule_CommentBlockAtThreshold(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("old.go", "package old\n\n"+commentRun("//", cfg.DeadCommentBlock)+"\nfunc A() {}\n")

	findings := runDeadCodeRule(t, p, cfg, []string{"old.go"})

	require.Len(t, findings, 1)
	assert.Equal(t, types.KindDeadCode, findings[0].Kind)
	assert.Equal(t, types.SeverityHigh, findings[0].Severity)
	assert.Equal(t, 3, findings[0].Line, "finding anchors at the first line of the run")
	assert.Equal(t, 3+cfg.DeadCommentBlock-1, findings[0].EndLine)
}

func TestDeadCodeRule_ShortCommentRunIgnored(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("ok.go", "package ok\n"+commentRun("//", cfg.DeadCommentBlock-1)+"func A() {}\n")

	findings := runDeadCodeRule(t, p, cfg, []string{"ok.go"})

	assert.Empty(t, findings)
}

func TestDeadCodeRule_CommentRunAtEndOfFile(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("tail.py", "x = 1\n"+commentRun("#", cfg.DeadCommentBlock))

	findings := runDeadCodeRule(t, p, cfg, []string{"tail.py"})

	require.Len(t, findings, 1)
	assert.Equal(t, 2, findings[0].Line)
}

func TestDeadCodeRule_InterruptedRunIgnored(t *testing.T) {
	cfg := config.DefaultScanConfig()
	half := commentRun("//", cfg.DeadCommentBlock/2)
	p := provider.NewFakeProvider()
	p.AddFile("mixed.go", "package mixed\n"+half+"var x = 1\n"+half)

	findings := runDeadCodeRule(t, p, cfg, []string{"mixed.go"})

	assert.Empty(t, findings, "a code line resets the comment run")
}

func TestDeadCodeRule_UnreachableAfterReturn(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("dead.go", `package dead

func f() int {
	return 1
	doSomething()
}
`)

	findings := runDeadCodeRule(t, p, cfg, []string{"dead.go"})

	require.Len(t, findings, 1)
	assert.Equal(t, types.SeverityHigh, findings[0].Severity)
	assert.Equal(t, 5, findings[0].Line)
	assert.Contains(t, findings[0].Message, "unreachable")
}

func TestDeadCodeRule_ClosingBraceAfterReturnIsFine(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("fine.go", `package fine

func f() int {
	return 1
}
`)

	findings := runDeadCodeRule(t, p, cfg, []string{"fine.go"})

	assert.Empty(t, findings)
}

func TestDeadCodeRule_ElseBranchAfterReturnIsFine(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("branch.py", "def f(x):\n    if x:\n        return 1\n    else:\n        return 2\n")

	findings := runDeadCodeRule(t, p, cfg, []string{"branch.py"})

	assert.Empty(t, findings)
}

func TestDeadCodeRule_UnreachableCapSharedAcrossFiles(t *testing.T) {
	cfg := config.DefaultScanConfig()
	cfg.UnreachableCap = 3

	content := "package p\n\nfunc f() int {\n\treturn 1\n\tcall()\n}\n\nfunc g() int {\n\treturn 2\n\tcall()\n}\n"
	p := provider.NewFakeProvider()
	p.AddFile("a.go", content)
	p.AddFile("b.go", content)

	findings := runDeadCodeRule(t, p, cfg, []string{"a.go", "b.go"})

	assert.Len(t, findings, 3)
}

func TestDeadCodeRule_SkipsUnknownExtensions(t *testing.T) {
	cfg := config.DefaultScanConfig()
	p := provider.NewFakeProvider()
	p.AddFile("notes.txt", commentRun("//", cfg.DeadCommentBlock*2))

	findings := runDeadCodeRule(t, p, cfg, []string{"notes.txt"})

	assert.Empty(t, findings)
}
