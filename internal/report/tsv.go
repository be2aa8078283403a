// # internal/report/tsv.go
package report

import (
	"fmt"
	"strings"

	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

// GenerateTSV renders a per-declaration summary table, one row per
// declaration across every package and file.
func GenerateTSV(p rollup.ProjectResult) string {
	var buf strings.Builder

	buf.WriteString("Package\tFile\tDeclaration\tKind\tAccess\tComplexity\tNesting\tBranches\tMatches\tParams\tExplicitReturn\tDoc\n")
	for _, pkg := range p.Packages {
		for _, f := range pkg.Files {
			for _, m := range f.Declarations {
				buf.WriteString(fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%t\t%t\n",
					pkg.Name,
					f.RelPath,
					m.Name,
					m.Kind.String(),
					m.Access.String(),
					m.Complexity,
					m.NestingDepth,
					m.Branches.Branches,
					m.Patterns.Matches,
					m.Params.Total,
					m.ReturnType.Explicit,
					m.HasDoc,
				))
			}
		}
	}

	return buf.String()
}
