// # internal/metrics/declaration.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// AnalyzeDeclaration runs the full analyzer family over one declaration and
// assembles the per-declaration record. All analyzers are pure and
// reentrant, so declarations may be analyzed concurrently without
// coordination. An abstract declaration (nil body) gets the base scores.
func AnalyzeDeclaration(d *lang.Declaration) DeclarationMetrics {
	return DeclarationMetrics{
		Name:       d.Name,
		Kind:       d.Kind,
		Access:     d.Access,
		Nesting:    d.Nesting,
		StartLine:  d.StartLine,
		EndLine:    d.EndLine,
		LOC:        d.LOC(),
		HasDoc:     d.HasDocComment,
		Deprecated: d.Deprecated,

		Complexity:   Complexity(d.Body),
		NestingDepth: NestingDepth(d.Body),
		Branches:     BranchDensity(d.Body),
		Patterns:     PatternAnalysis(d.Body),
		Params:       AnalyzeParams(d.ParamLists),
		ReturnType:   AnalyzeReturnType(d),
		Modifiers:    AnalyzeModifiers(d),
	}
}

// AnalyzeFile analyzes every declaration of a parsed file in a single
// depth-first pass.
func AnalyzeFile(file *lang.SourceFile) []DeclarationMetrics {
	out := make([]DeclarationMetrics, 0, len(file.Declarations))
	for _, d := range file.Declarations {
		out = append(out, AnalyzeDeclaration(d))
	}
	return out
}
