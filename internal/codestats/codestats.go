// Package codestats counts lines, code, comments, blanks and complexity per
// file using SCC, with a plain newline count as fallback for files SCC does
// not recognize.
package codestats

import (
	"bytes"
	"sync"

	"github.com/boyter/scc/v3/processor"
	"github.com/go-enry/go-enry/v2"
)

var initOnce sync.Once

// FileStats holds the counts for a single file.
type FileStats struct {
	Language   string // go-enry detected language, may be empty
	Lines      int64
	Code       int64
	Comments   int64
	Blanks     int64
	Complexity int64
	Recognized bool // whether SCC could analyze the file
}

// Totals aggregates stats over a whole run.
type Totals struct {
	Files      int
	Lines      int64
	Code       int64
	Comments   int64
	Blanks     int64
	Complexity int64
}

// Analyzer counts per-file stats and accumulates run totals. Safe for
// concurrent use; rules processing distinct files may share one instance.
type Analyzer struct {
	mu     sync.Mutex
	totals Totals
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze counts one file and adds it to the run totals.
func (a *Analyzer) Analyze(filename string, content []byte) FileStats {
	stats := Count(filename, content)

	a.mu.Lock()
	a.totals.Files++
	a.totals.Lines += stats.Lines
	a.totals.Code += stats.Code
	a.totals.Comments += stats.Comments
	a.totals.Blanks += stats.Blanks
	a.totals.Complexity += stats.Complexity
	a.mu.Unlock()

	return stats
}

// Totals returns the accumulated run totals.
func (a *Analyzer) Totals() Totals {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.totals
}

// Count analyzes a single file without touching any shared state.
func Count(filename string, content []byte) FileStats {
	stats := FileStats{
		Language: enry.GetLanguage(filename, content),
		Lines:    countLines(content),
	}

	if len(content) == 0 {
		return stats
	}

	initOnce.Do(func() {
		processor.ProcessConstants()
	})

	sccLangs, _ := processor.DetectLanguage(filename)
	if len(sccLangs) == 0 {
		return stats
	}

	filejob := &processor.FileJob{
		Filename: filename,
		Language: sccLangs[0],
		Content:  content,
		Bytes:    int64(len(content)),
	}
	processor.CountStats(filejob)

	stats.Recognized = true
	stats.Lines = filejob.Lines
	stats.Code = filejob.Code
	stats.Comments = filejob.Comment
	stats.Blanks = filejob.Blank
	stats.Complexity = filejob.Complexity
	return stats
}

// countLines is the fallback for files SCC cannot parse: physical lines,
// counting a trailing fragment without a newline as one line.
func countLines(content []byte) int64 {
	if len(content) == 0 {
		return 0
	}
	lines := int64(bytes.Count(content, []byte("\n")))
	if content[len(content)-1] != '\n' {
		lines++
	}
	return lines
}
