package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/assetlint/assetlint/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	fileStyle     = lipgloss.NewStyle().Foreground(fg)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// RunReporter writes the progress of one validation run to w.
// It implements domain.RunReporter.
type RunReporter struct {
	w io.Writer
}

func NewRunReporter(w io.Writer) *RunReporter {
	return &RunReporter{w: w}
}

func (r *RunReporter) RunStarted(kind domain.Kind, root string) {
	fmt.Fprintf(r.w, "\n  %s %s\n\n",
		titleStyle.Render(fmt.Sprintf("Validating %s files", kind)),
		dimStyle.Render("in "+root))
}

func (r *RunReporter) FileValidated(result domain.FileResult) {
	errs, warns := domain.CountSeverities(result.Diagnostics)
	switch {
	case !result.Valid:
		fmt.Fprintf(r.w, "  %s %s %s\n", failStyle.Render("✗"), fileStyle.Render(result.File),
			dimStyle.Render(countLabel(errs, warns)))
	case warns > 0:
		fmt.Fprintf(r.w, "  %s %s %s\n", passStyle.Render("✓"), fileStyle.Render(result.File),
			dimStyle.Render(countLabel(errs, warns)))
	default:
		fmt.Fprintf(r.w, "  %s %s\n", passStyle.Render("✓"), fileStyle.Render(result.File))
	}

	for _, d := range result.Diagnostics {
		renderDiagnostic(r.w, d)
	}
}

func (r *RunReporter) RunFinished(summary *domain.RunSummary) {
	if summary.Failure != "" {
		fmt.Fprintf(r.w, "  %s %s\n", failStyle.Render("✗"), failStyle.Render(summary.Failure))
	} else if summary.TotalFiles == 0 {
		fmt.Fprintf(r.w, "  %s\n", dimStyle.Render(fmt.Sprintf("No %s files found", summary.Kind)))
	}

	fmt.Fprintf(r.w, "\n  %s %s  %s\n",
		titleStyle.Render(padRight(string(summary.Kind), 8)),
		dimStyle.Render(fmt.Sprintf("%d files, %d errors, %d warnings",
			summary.TotalFiles, summary.ErrorCount, summary.WarningCount)),
		statusTag(summary.Success))
}

func renderDiagnostic(w io.Writer, d domain.Diagnostic) {
	line := fmt.Sprintf("      %s  %s  %s",
		dimStyle.Render(padRight(location(d), 9)),
		severityTag(d.Severity),
		d.Message)
	if d.RuleID != "" {
		line += "  " + faintStyle.Render(d.RuleID)
	}
	fmt.Fprintln(w, line)
}

// location formats line:col, the line alone, or "unknown".
func location(d domain.Diagnostic) string {
	switch {
	case !d.HasLocation():
		return "unknown"
	case d.Column > 0:
		return fmt.Sprintf("%d:%d", d.Line, d.Column)
	default:
		return fmt.Sprintf("%d", d.Line)
	}
}

func severityTag(severity domain.Severity) string {
	if severity == domain.SeverityError {
		return errorTagStyle.Render("error")
	}
	return warnTagStyle.Render("warn ")
}

func statusTag(ok bool) string {
	if ok {
		return passStyle.Render("PASS")
	}
	return failStyle.Render("FAIL")
}

func countLabel(errs, warns int) string {
	return fmt.Sprintf("(%s, %s)", plural(errs, "error"), plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// RenderSuiteVerdict formats the trailing suite summary block.
func RenderSuiteVerdict(v *domain.SuiteVerdict) string {
	var b strings.Builder

	b.WriteString("\n  " + separatorLine + "\n\n")
	for _, run := range v.Runs() {
		fmt.Fprintf(&b, "  %s %s  %s\n",
			titleStyle.Render(padRight(string(run.Kind), 8)),
			dimStyle.Render(padRight(fmt.Sprintf("%d files, %d errors, %d warnings",
				run.TotalFiles, run.ErrorCount, run.WarningCount), 40)),
			statusTag(run.Success))
		if run.Failure != "" {
			fmt.Fprintf(&b, "           %s\n", failStyle.Render(run.Failure))
		}
	}

	files, errs, warns := v.Totals()
	fmt.Fprintf(&b, "  %s %s\n",
		titleStyle.Render(padRight("total", 8)),
		dimStyle.Render(fmt.Sprintf("%d files, %d errors, %d warnings", files, errs, warns)))
	if v.Commit != "" {
		hash := v.Commit
		if len(hash) > 7 {
			hash = hash[:7]
		}
		fmt.Fprintf(&b, "  %s %s\n", titleStyle.Render(padRight("commit", 8)), faintStyle.Render(hash))
	}
	b.WriteString("\n")

	verdict := passStyle.Bold(true).Render("All assets valid")
	if !v.OverallSuccess {
		verdict = failStyle.Bold(true).Render("Validation failed")
	}
	b.WriteString(boxStyle.Render(headerStyle.Render("assetlint") + "\n" + verdict))
	b.WriteString("\n")
	return b.String()
}
