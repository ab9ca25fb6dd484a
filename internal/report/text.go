package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/petrarca/debt-scanner/internal/codestats"
	"github.com/petrarca/debt-scanner/internal/types"
)

var severityStyles = map[types.Severity]lipgloss.Style{
	types.SeverityCritical: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),  // red
	types.SeverityHigh:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")), // yellow
	types.SeverityMedium:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),            // cyan
	types.SeverityLow:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),             // gray
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	locationStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	suggestionStyle = lipgloss.NewStyle().Faint(true)
)

// TextRenderer writes the human-readable report: per-severity sections, a
// summary block, and recommended actions when urgent findings exist.
type TextRenderer struct {
	w     io.Writer
	color bool
}

// NewTextRenderer creates a renderer. color should be false when the target
// is not a terminal.
func NewTextRenderer(w io.Writer, color bool) *TextRenderer {
	return &TextRenderer{w: w, color: color}
}

func (t *TextRenderer) style(s lipgloss.Style, text string) string {
	if !t.color {
		return text
	}
	return s.Render(text)
}

// Render writes the full report. totals may be nil when code statistics were
// not collected; summaryOnly suppresses the per-finding sections.
func (t *TextRenderer) Render(r *types.ScanReport, totals *codestats.Totals, summaryOnly bool) {
	fmt.Fprintf(t.w, "%s %s\n", t.style(headerStyle, "Technical debt report for"), r.ScannedPath)
	if r.Threshold != "" {
		fmt.Fprintf(t.w, "Reporting findings at or above %s\n", r.Threshold)
	}
	fmt.Fprintln(t.w)

	if !summaryOnly {
		t.renderSections(r)
	}

	t.renderSummary(r, totals)
	t.renderActions(r)
}

func (t *TextRenderer) renderSections(r *types.ScanReport) {
	visible := r.VisibleFindings()

	for _, severity := range types.AllSeverities() {
		var section []types.Finding
		for _, f := range visible {
			if f.Severity == severity {
				section = append(section, f)
			}
		}
		if len(section) == 0 {
			continue
		}

		fmt.Fprintf(t.w, "%s (%d)\n", t.style(severityStyles[severity], string(severity)), len(section))
		for _, f := range section {
			fmt.Fprintf(t.w, "  [%s] %s  %s\n", f.Kind, t.style(locationStyle, f.Location()), f.Message)
			if f.Suggestion != "" {
				fmt.Fprintf(t.w, "         %s\n", t.style(suggestionStyle, "→ "+f.Suggestion))
			}
		}
		fmt.Fprintln(t.w)
	}
}

func (t *TextRenderer) renderSummary(r *types.ScanReport, totals *codestats.Totals) {
	fmt.Fprintln(t.w, t.style(headerStyle, "Summary"))
	for _, severity := range types.AllSeverities() {
		fmt.Fprintf(t.w, "  %-8s %d\n", severity, r.Counts.Get(severity))
	}
	fmt.Fprintf(t.w, "  %-8s %d\n", "TOTAL", r.Counts.Total)

	if totals != nil && totals.Files > 0 {
		fmt.Fprintf(t.w, "  scanned %d files, %d lines (%d code, %d comments)\n",
			totals.Files, totals.Lines, totals.Code, totals.Comments)
	}
	fmt.Fprintln(t.w)
}

func (t *TextRenderer) renderActions(r *types.ScanReport) {
	if r.Counts.Critical == 0 && r.Counts.High == 0 {
		return
	}

	fmt.Fprintln(t.w, t.style(headerStyle, "Recommended next actions"))
	if r.Counts.Critical > 0 {
		fmt.Fprintln(t.w, "  1. Address CRITICAL findings before merging: split oversized files,")
		fmt.Fprintln(t.w, "     deduplicate copied blocks, patch vulnerable dependencies.")
	}
	if r.Counts.High > 0 {
		fmt.Fprintln(t.w, "  2. Review HIGH findings: delete commented-out code and close type gaps.")
	}
	fmt.Fprintln(t.w, "  3. Re-run the scan to confirm the counts drop.")
	fmt.Fprintln(t.w)
}
