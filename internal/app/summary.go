package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// PrintSummary writes a terminal summary of the scan to w.
func PrintSummary(w io.Writer, project rollup.ProjectResult) {
	r := project.Rollup

	var b strings.Builder
	b.WriteString(titleStyle.Render("scalametrics") + "  " + dimStyle.Render(project.Root) + "\n\n")

	fmt.Fprintf(&b, "  %-22s %d (%d skipped)\n", "files", r.Files, r.SkippedFiles)
	fmt.Fprintf(&b, "  %-22s %d across %d packages\n", "declarations", r.Declarations, len(project.Packages))
	fmt.Fprintf(&b, "  %-22s %d\n", "lines of code", r.LOC)
	fmt.Fprintf(&b, "  %-22s max %d, avg %.2f\n", "complexity", r.MaxComplexity, r.AvgComplexity)
	fmt.Fprintf(&b, "  %-22s max %d\n", "nesting depth", r.MaxNesting)
	fmt.Fprintf(&b, "  %-22s %.1f%%\n", "doc coverage", r.DocCoveragePct)
	fmt.Fprintf(&b, "  %-22s %.1f%%\n", "explicit returns", r.ExplicitReturnPct)

	flags := r.Flags
	total := flags.OverComplexity + flags.OverNesting + flags.OverBranchRate + flags.OverPatternLoad + flags.OverParams
	b.WriteString("\n")
	if total == 0 && !flags.LowDocumentation {
		b.WriteString("  " + okStyle.Render("no thresholds exceeded") + "\n")
	} else {
		if flags.OverComplexity > 0 {
			b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d declarations over complexity threshold", flags.OverComplexity)) + "\n")
		}
		if flags.OverNesting > 0 {
			b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d declarations over nesting threshold", flags.OverNesting)) + "\n")
		}
		if flags.OverBranchRate > 0 {
			b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d declarations over branch density threshold", flags.OverBranchRate)) + "\n")
		}
		if flags.OverPatternLoad > 0 {
			b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d declarations with oversized matches", flags.OverPatternLoad)) + "\n")
		}
		if flags.OverParams > 0 {
			b.WriteString("  " + warnStyle.Render(fmt.Sprintf("%d declarations over parameter threshold", flags.OverParams)) + "\n")
		}
		if flags.LowDocumentation {
			b.WriteString("  " + warnStyle.Render("documentation coverage below minimum") + "\n")
		}
	}

	fmt.Fprint(w, b.String())
}
