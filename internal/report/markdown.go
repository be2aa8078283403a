// # internal/report/markdown.go
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bitblends/scalametrics-sub000/internal/metrics"
	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

type MarkdownOptions struct {
	ProjectName string
	Version     string
	GeneratedAt time.Time
	TopHotspots int
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(p rollup.ProjectResult, opts MarkdownOptions) (string, error) {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}
	if opts.TopHotspots <= 0 {
		opts.TopHotspots = 10
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Source Metrics Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Source Metrics Report\n\n")

	r := p.Rollup
	b.WriteString("## Executive Summary\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Files Analyzed | %d |\n", r.Files-r.SkippedFiles))
	b.WriteString(fmt.Sprintf("| Files Skipped | %d |\n", r.SkippedFiles))
	b.WriteString(fmt.Sprintf("| Declarations | %d |\n", r.Declarations))
	b.WriteString(fmt.Sprintf("| Lines of Code | %d |\n", r.LOC))
	b.WriteString(fmt.Sprintf("| Avg Complexity | %.2f |\n", r.AvgComplexity))
	b.WriteString(fmt.Sprintf("| Max Complexity | %d |\n", r.MaxComplexity))
	b.WriteString(fmt.Sprintf("| Branch Density /100 LOC | %.2f |\n", r.Branch.BranchesPer100))
	b.WriteString(fmt.Sprintf("| Explicit Return Types | %.1f%% |\n", r.ExplicitReturnPct))
	b.WriteString(fmt.Sprintf("| Doc Coverage | %.1f%% |\n\n", r.DocCoveragePct))

	m.writePackages(&b, p)
	m.writeHotspots(&b, p, opts.TopHotspots)
	m.writeFlags(&b, p)

	return b.String(), nil
}

func (m *MarkdownGenerator) writePackages(b *strings.Builder, p rollup.ProjectResult) {
	b.WriteString("## Packages\n")
	if len(p.Packages) == 0 {
		b.WriteString("No packages analyzed.\n\n")
		return
	}
	b.WriteString("| Package | Files | Declarations | Avg Cx | Max Cx | Matches | Doc % |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- | --- |\n")
	for _, pkg := range p.Packages {
		r := pkg.Rollup
		b.WriteString(fmt.Sprintf("| `%s` | %d | %d | %.2f | %d | %d | %.1f |\n",
			pkg.Name, r.Files, r.Declarations, r.AvgComplexity, r.MaxComplexity,
			r.Pattern.Matches, r.DocCoveragePct))
	}
	b.WriteString("\n")
}

type hotspot struct {
	pkg  string
	file string
	decl metrics.DeclarationMetrics
}

func (m *MarkdownGenerator) writeHotspots(b *strings.Builder, p rollup.ProjectResult, limit int) {
	var spots []hotspot
	for _, pkg := range p.Packages {
		for _, f := range pkg.Files {
			for _, d := range f.Declarations {
				spots = append(spots, hotspot{pkg: pkg.Name, file: f.RelPath, decl: d})
			}
		}
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].decl.Complexity != spots[j].decl.Complexity {
			return spots[i].decl.Complexity > spots[j].decl.Complexity
		}
		return spots[i].decl.Name < spots[j].decl.Name
	})
	if len(spots) > limit {
		spots = spots[:limit]
	}

	b.WriteString("## Complexity Hotspots\n")
	if len(spots) == 0 {
		b.WriteString("No declarations analyzed.\n\n")
		return
	}
	b.WriteString("| Declaration | File | Complexity | Nesting | Line |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, s := range spots {
		b.WriteString(fmt.Sprintf("| `%s` | %s | %d | %d | %d |\n",
			s.decl.Name, s.file, s.decl.Complexity, s.decl.NestingDepth, s.decl.StartLine))
	}
	b.WriteString("\n")
}

func (m *MarkdownGenerator) writeFlags(b *strings.Builder, p rollup.ProjectResult) {
	f := p.Rollup.Flags
	b.WriteString("## Quality Flags\n")
	b.WriteString("| Flag | Count |\n")
	b.WriteString("| --- | --- |\n")
	b.WriteString(fmt.Sprintf("| Over complexity threshold | %d |\n", f.OverComplexity))
	b.WriteString(fmt.Sprintf("| Over nesting threshold | %d |\n", f.OverNesting))
	b.WriteString(fmt.Sprintf("| Over branch-rate threshold | %d |\n", f.OverBranchRate))
	b.WriteString(fmt.Sprintf("| Over pattern-load threshold | %d |\n", f.OverPatternLoad))
	b.WriteString(fmt.Sprintf("| Over parameter threshold | %d |\n", f.OverParams))
	low := "no"
	if f.LowDocumentation {
		low = "yes"
	}
	b.WriteString(fmt.Sprintf("| Low documentation | %s |\n\n", low))
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
