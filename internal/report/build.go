// # internal/report/build.go
package report

import (
	"github.com/bitblends/scalametrics-sub000/internal/ident"
	"github.com/bitblends/scalametrics-sub000/internal/metrics"
	"github.com/bitblends/scalametrics-sub000/internal/rollup"
)

// FromRollup exposes a rollup as an ordered key/value document.
func FromRollup(r rollup.Rollup) *Document {
	d := New()
	d.Set("files", r.Files)
	d.Set("skipped_files", r.SkippedFiles)
	d.Set("declarations", r.Declarations)
	d.Set("functions", r.Functions)
	d.Set("loc", r.LOC)
	d.Set("byte_size", r.ByteSize)
	d.Set("avg_file_size", r.AvgFileSize)

	visibility := New()
	visibility.Set("public_functions", r.PublicFunctions)
	visibility.Set("protected_functions", r.ProtectedFunctions)
	visibility.Set("private_functions", r.PrivateFunctions)
	visibility.Set("public_symbols", r.PublicSymbols)
	visibility.Set("protected_symbols", r.ProtectedSymbols)
	visibility.Set("private_symbols", r.PrivateSymbols)
	visibility.Set("nested_symbols", r.NestedSymbols)
	d.Set("visibility", visibility)

	complexity := New()
	complexity.Set("total", r.TotalComplexity)
	complexity.Set("max", r.MaxComplexity)
	complexity.Set("avg", r.AvgComplexity)
	d.Set("complexity", complexity)

	nesting := New()
	nesting.Set("total", r.TotalNesting)
	nesting.Set("max", r.MaxNesting)
	nesting.Set("avg", r.AvgNesting)
	d.Set("nesting", nesting)

	branch := New()
	branch.Set("branches", r.Branch.Branches)
	branch.Set("conditionals", r.Branch.Conditionals)
	branch.Set("case_branches", r.Branch.CaseBranches)
	branch.Set("loops", r.Branch.Loops)
	branch.Set("catch_cases", r.Branch.CatchCases)
	branch.Set("boolean_ops", r.Branch.BooleanOps)
	branch.Set("branches_per_100_loc", r.Branch.BranchesPer100)
	branch.Set("boolean_ops_per_100_loc", r.Branch.BooleanOpsPer100)
	d.Set("branch_density", branch)

	pattern := New()
	pattern.Set("matches", r.Pattern.Matches)
	pattern.Set("cases", r.Pattern.Cases)
	pattern.Set("guards", r.Pattern.Guards)
	pattern.Set("wildcards", r.Pattern.Wildcards)
	pattern.Set("max_match_nesting", r.Pattern.MaxMatchNesting)
	pattern.Set("nested_matches", r.Pattern.NestedMatches)
	pattern.Set("avg_cases_per_match", r.Pattern.AvgCasesPerMatch)
	d.Set("pattern_match", pattern)

	params := New()
	params.Set("total", r.Param.Total)
	params.Set("lists", r.Param.Lists)
	params.Set("evidence_lists", r.Param.EvidenceLists)
	params.Set("evidence_params", r.Param.EvidenceParams)
	params.Set("defaulted", r.Param.Defaulted)
	params.Set("by_name", r.Param.ByName)
	params.Set("vararg", r.Param.Vararg)
	params.Set("inline_params", r.Param.InlineParams)
	d.Set("params", params)

	returns := New()
	returns.Set("explicit", r.ExplicitReturns)
	returns.Set("inferred", r.InferredReturns)
	returns.Set("explicit_pct", r.ExplicitReturnPct)
	d.Set("return_types", returns)

	docs := New()
	docs.Set("documented", r.Documented)
	docs.Set("coverage_pct", r.DocCoveragePct)
	docs.Set("deprecated", r.Deprecated)
	docs.Set("deprecated_pct", r.DeprecatedPct)
	d.Set("documentation", docs)

	modifiers := New()
	modifiers.Set("evidence_decls", r.EvidenceDecls)
	modifiers.Set("inline_decls", r.InlineDecls)
	modifiers.Set("given_instances", r.GivenInstances)
	modifiers.Set("given_conversions", r.GivenConversions)
	modifiers.Set("likely_conversions", r.LikelyConversions)
	modifiers.Set("abstract_decls", r.AbstractDecls)
	d.Set("modifiers", modifiers)

	flags := New()
	flags.Set("over_complexity", r.Flags.OverComplexity)
	flags.Set("over_nesting", r.Flags.OverNesting)
	flags.Set("over_branch_rate", r.Flags.OverBranchRate)
	flags.Set("over_pattern_load", r.Flags.OverPatternLoad)
	flags.Set("over_params", r.Flags.OverParams)
	flags.Set("low_documentation", r.Flags.LowDocumentation)
	d.Set("flags", flags)

	return d
}

// FromDeclaration exposes a declaration record as a document.
func FromDeclaration(id string, m metrics.DeclarationMetrics) *Document {
	d := New()
	d.Set("id", id)
	d.Set("name", m.Name)
	d.Set("kind", m.Kind.String())
	d.Set("access", m.Access.String())
	d.Set("start_line", m.StartLine)
	d.Set("end_line", m.EndLine)
	d.Set("loc", m.LOC)
	d.Set("complexity", m.Complexity)
	d.Set("nesting_depth", m.NestingDepth)
	d.Set("has_doc", m.HasDoc)
	d.Set("deprecated", m.Deprecated)

	branch := New()
	branch.Set("branches", m.Branches.Branches)
	branch.Set("conditionals", m.Branches.Conditionals)
	branch.Set("case_branches", m.Branches.CaseBranches)
	branch.Set("loops", m.Branches.Loops)
	branch.Set("catch_cases", m.Branches.CatchCases)
	branch.Set("boolean_ops", m.Branches.BooleanOps)
	d.Set("branch_density", branch)

	pattern := New()
	pattern.Set("matches", m.Patterns.Matches)
	pattern.Set("cases", m.Patterns.Cases)
	pattern.Set("guards", m.Patterns.Guards)
	pattern.Set("wildcards", m.Patterns.Wildcards)
	pattern.Set("max_match_nesting", m.Patterns.MaxMatchNesting)
	pattern.Set("nested_matches", m.Patterns.NestedMatches)
	pattern.Set("avg_cases_per_match", m.Patterns.AvgCasesPerMatch)
	d.Set("pattern_match", pattern)

	params := New()
	params.Set("total", m.Params.Total)
	params.Set("lists", m.Params.Lists)
	params.Set("evidence_lists", m.Params.EvidenceLists)
	params.Set("evidence_params", m.Params.EvidenceParams)
	params.Set("defaulted", m.Params.Defaulted)
	params.Set("by_name", m.Params.ByName)
	params.Set("vararg", m.Params.Vararg)
	params.Set("inline_params", m.Params.InlineParams)
	d.Set("params", params)

	returns := New()
	returns.Set("explicit", m.ReturnType.Explicit)
	if m.ReturnType.Explicit {
		returns.Set("type", m.ReturnType.TypeName)
	} else {
		returns.Set("inferred_type", m.ReturnType.InferredType)
	}
	d.Set("return_type", returns)

	return d
}

// FromProject builds the full nested project document: project rollup plus
// one child document per package and file.
func FromProject(p rollup.ProjectResult) *Document {
	d := New()
	d.Set("project_id", p.ProjectID)
	d.Set("root", p.Root)
	d.Set("rollup", FromRollup(p.Rollup))

	packages := make([]*Document, 0, len(p.Packages))
	for _, pkg := range p.Packages {
		pd := New()
		pd.Set("name", pkg.Name)
		pd.Set("rollup", FromRollup(pkg.Rollup))

		files := make([]*Document, 0, len(pkg.Files))
		for _, f := range pkg.Files {
			fd := New()
			fd.Set("id", f.ID)
			fd.Set("path", f.RelPath)
			fd.Set("dialect", f.Dialect)
			fd.Set("rollup", FromRollup(f.Rollup))

			decls := make([]*Document, 0, len(f.Declarations))
			for _, m := range f.Declarations {
				id := ident.DeclarationID(f.ID, m.Name, m.Kind.String())
				decls = append(decls, FromDeclaration(id, m))
			}
			fd.Set("declarations", decls)
			files = append(files, fd)
		}
		pd.Set("files", files)
		packages = append(packages, pd)
	}
	d.Set("packages", packages)

	if len(p.SkippedFiles) > 0 {
		skipped := make([]*Document, 0, len(p.SkippedFiles))
		for _, path := range p.SkippedFiles {
			sd := New()
			sd.Set("path", path)
			skipped = append(skipped, sd)
		}
		d.Set("skipped", skipped)
	}
	return d
}
