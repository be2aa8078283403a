// # internal/rollup/rollup.go
package rollup

import (
	"github.com/bitblends/scalametrics-sub000/internal/lang"
	"github.com/bitblends/scalametrics-sub000/internal/metrics"
)

// Rollup is the aggregate statistics record shared by the file, package and
// project levels. Additive counters combine by addition, extremes by max,
// and every derived rate or percentage is recomputed from the combined
// totals so it always matches the record's own sums.
type Rollup struct {
	Files        int
	SkippedFiles int
	Declarations int
	Functions    int
	LOC          int
	ByteSize     int64

	PublicFunctions    int
	ProtectedFunctions int
	PrivateFunctions   int
	PublicSymbols      int
	ProtectedSymbols   int
	PrivateSymbols     int
	NestedSymbols      int

	Documented int
	Deprecated int

	TotalComplexity int
	MaxComplexity   int
	AvgComplexity   float64

	TotalNesting int
	MaxNesting   int
	AvgNesting   float64

	Branch  BranchTotals
	Pattern PatternTotals
	Param   ParamTotals

	ExplicitReturns   int
	InferredReturns   int
	EvidenceDecls     int
	InlineDecls       int
	GivenInstances    int
	GivenConversions  int
	LikelyConversions int
	AbstractDecls     int

	ExplicitReturnPct float64
	DocCoveragePct    float64
	DeprecatedPct     float64
	AvgFileSize       float64

	Flags ThresholdFlags
}

type BranchTotals struct {
	Branches     int
	Conditionals int
	CaseBranches int
	Loops        int
	CatchCases   int
	BooleanOps   int

	BranchesPer100   float64
	BooleanOpsPer100 float64
}

type PatternTotals struct {
	Matches          int
	Cases            int
	Guards           int
	Wildcards        int
	MaxMatchNesting  int
	NestedMatches    int
	AvgCasesPerMatch float64
}

type ParamTotals struct {
	Total          int
	Lists          int
	EvidenceLists  int
	EvidenceParams int
	Defaulted      int
	ByName         int
	Vararg         int
	InlineParams   int
}

// ThresholdFlags counts children exceeding the configured quality
// thresholds. The count fields are additive; LowDocumentation is
// reclassified from combined totals on every combine, never carried over.
type ThresholdFlags struct {
	OverComplexity   int
	OverNesting      int
	OverBranchRate   int
	OverPatternLoad  int
	OverParams       int
	LowDocumentation bool
}

// Thresholds configure the quality flags.
type Thresholds struct {
	MaxComplexity     int
	MaxNesting        int
	MaxBranchesPer100 float64
	MaxCasesPerMatch  int
	MaxParams         int
	MinDocCoveragePct float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxComplexity:     10,
		MaxNesting:        4,
		MaxBranchesPer100: 25.0,
		MaxCasesPerMatch:  8,
		MaxParams:         6,
		MinDocCoveragePct: 50.0,
	}
}

// Combiner folds rollups under one threshold configuration.
type Combiner struct {
	thresholds Thresholds
}

func NewCombiner(t Thresholds) *Combiner {
	return &Combiner{thresholds: t}
}

func (c *Combiner) Thresholds() Thresholds { return c.thresholds }

// Empty is the identity of Combine: all counts zero, all rates 0.0.
func (c *Combiner) Empty() Rollup {
	return Rollup{}
}

// Combine merges two rollups. It is associative and commutative up to
// floating-point rounding, with Empty as identity: additive fields add,
// extremes take the max, weighted averages recombine by their weights, and
// ratio-of-totals percentages are recomputed from the merged sums rather
// than interpolated from the two inputs' percentages.
func (c *Combiner) Combine(a, b Rollup) Rollup {
	r := Rollup{
		Files:        a.Files + b.Files,
		SkippedFiles: a.SkippedFiles + b.SkippedFiles,
		Declarations: a.Declarations + b.Declarations,
		Functions:    a.Functions + b.Functions,
		LOC:          a.LOC + b.LOC,
		ByteSize:     a.ByteSize + b.ByteSize,

		PublicFunctions:    a.PublicFunctions + b.PublicFunctions,
		ProtectedFunctions: a.ProtectedFunctions + b.ProtectedFunctions,
		PrivateFunctions:   a.PrivateFunctions + b.PrivateFunctions,
		PublicSymbols:      a.PublicSymbols + b.PublicSymbols,
		ProtectedSymbols:   a.ProtectedSymbols + b.ProtectedSymbols,
		PrivateSymbols:     a.PrivateSymbols + b.PrivateSymbols,
		NestedSymbols:      a.NestedSymbols + b.NestedSymbols,

		Documented: a.Documented + b.Documented,
		Deprecated: a.Deprecated + b.Deprecated,

		TotalComplexity: a.TotalComplexity + b.TotalComplexity,
		MaxComplexity:   maxInt(a.MaxComplexity, b.MaxComplexity),
		AvgComplexity:   weightedAvg(a.AvgComplexity, a.Declarations, b.AvgComplexity, b.Declarations),

		TotalNesting: a.TotalNesting + b.TotalNesting,
		MaxNesting:   maxInt(a.MaxNesting, b.MaxNesting),
		AvgNesting:   weightedAvg(a.AvgNesting, a.Declarations, b.AvgNesting, b.Declarations),

		Branch: BranchTotals{
			Branches:     a.Branch.Branches + b.Branch.Branches,
			Conditionals: a.Branch.Conditionals + b.Branch.Conditionals,
			CaseBranches: a.Branch.CaseBranches + b.Branch.CaseBranches,
			Loops:        a.Branch.Loops + b.Branch.Loops,
			CatchCases:   a.Branch.CatchCases + b.Branch.CatchCases,
			BooleanOps:   a.Branch.BooleanOps + b.Branch.BooleanOps,
		},
		Pattern: PatternTotals{
			Matches:         a.Pattern.Matches + b.Pattern.Matches,
			Cases:           a.Pattern.Cases + b.Pattern.Cases,
			Guards:          a.Pattern.Guards + b.Pattern.Guards,
			Wildcards:       a.Pattern.Wildcards + b.Pattern.Wildcards,
			MaxMatchNesting: maxInt(a.Pattern.MaxMatchNesting, b.Pattern.MaxMatchNesting),
			NestedMatches:   a.Pattern.NestedMatches + b.Pattern.NestedMatches,
		},
		Param: ParamTotals{
			Total:          a.Param.Total + b.Param.Total,
			Lists:          a.Param.Lists + b.Param.Lists,
			EvidenceLists:  a.Param.EvidenceLists + b.Param.EvidenceLists,
			EvidenceParams: a.Param.EvidenceParams + b.Param.EvidenceParams,
			Defaulted:      a.Param.Defaulted + b.Param.Defaulted,
			ByName:         a.Param.ByName + b.Param.ByName,
			Vararg:         a.Param.Vararg + b.Param.Vararg,
			InlineParams:   a.Param.InlineParams + b.Param.InlineParams,
		},

		ExplicitReturns:   a.ExplicitReturns + b.ExplicitReturns,
		InferredReturns:   a.InferredReturns + b.InferredReturns,
		EvidenceDecls:     a.EvidenceDecls + b.EvidenceDecls,
		InlineDecls:       a.InlineDecls + b.InlineDecls,
		GivenInstances:    a.GivenInstances + b.GivenInstances,
		GivenConversions:  a.GivenConversions + b.GivenConversions,
		LikelyConversions: a.LikelyConversions + b.LikelyConversions,
		AbstractDecls:     a.AbstractDecls + b.AbstractDecls,

		Flags: ThresholdFlags{
			OverComplexity:  a.Flags.OverComplexity + b.Flags.OverComplexity,
			OverNesting:     a.Flags.OverNesting + b.Flags.OverNesting,
			OverBranchRate:  a.Flags.OverBranchRate + b.Flags.OverBranchRate,
			OverPatternLoad: a.Flags.OverPatternLoad + b.Flags.OverPatternLoad,
			OverParams:      a.Flags.OverParams + b.Flags.OverParams,
		},
	}

	c.derive(&r)
	return r
}

// Fold combines a sequence of rollups with Empty as seed. Combine is
// commutative and associative, so the result does not depend on order or
// grouping within float tolerance.
func (c *Combiner) Fold(rollups []Rollup) Rollup {
	acc := c.Empty()
	for _, r := range rollups {
		acc = c.Combine(acc, r)
	}
	return acc
}

// derive recomputes every rate and classification from the record's own
// totals. Centralizing this in one place removes the ratio-of-ratios bug
// class at the source.
func (c *Combiner) derive(r *Rollup) {
	r.Branch.BranchesPer100 = per100(r.Branch.Branches, r.LOC)
	r.Branch.BooleanOpsPer100 = per100(r.Branch.BooleanOps, r.LOC)
	r.Pattern.AvgCasesPerMatch = safeRatio(r.Pattern.Cases, r.Pattern.Matches)
	r.ExplicitReturnPct = pct(r.ExplicitReturns, r.ExplicitReturns+r.InferredReturns)
	r.DocCoveragePct = pct(r.Documented, r.Declarations)
	r.DeprecatedPct = pct(r.Deprecated, r.Declarations)
	if r.Files > 0 {
		r.AvgFileSize = float64(r.ByteSize) / float64(r.Files)
	} else {
		r.AvgFileSize = 0
	}

	// Classification of the combined group is not derivable from the two
	// sides' classifications, so it is retested against the threshold.
	r.Flags.LowDocumentation = r.Declarations > 0 && r.DocCoveragePct < c.thresholds.MinDocCoveragePct
}

// FromDeclaration lifts one declaration record into a combinable rollup.
func (c *Combiner) FromDeclaration(m metrics.DeclarationMetrics) Rollup {
	r := Rollup{
		Declarations:    1,
		LOC:             m.LOC,
		TotalComplexity: m.Complexity,
		MaxComplexity:   m.Complexity,
		AvgComplexity:   float64(m.Complexity),
		TotalNesting:    m.NestingDepth,
		MaxNesting:      m.NestingDepth,
		AvgNesting:      float64(m.NestingDepth),
		Branch: BranchTotals{
			Branches:     m.Branches.Branches,
			Conditionals: m.Branches.Conditionals,
			CaseBranches: m.Branches.CaseBranches,
			Loops:        m.Branches.Loops,
			CatchCases:   m.Branches.CatchCases,
			BooleanOps:   m.Branches.BooleanOps,
		},
		Pattern: PatternTotals{
			Matches:         m.Patterns.Matches,
			Cases:           m.Patterns.Cases,
			Guards:          m.Patterns.Guards,
			Wildcards:       m.Patterns.Wildcards,
			MaxMatchNesting: m.Patterns.MaxMatchNesting,
			NestedMatches:   m.Patterns.NestedMatches,
		},
		Param: ParamTotals{
			Total:          m.Params.Total,
			Lists:          m.Params.Lists,
			EvidenceLists:  m.Params.EvidenceLists,
			EvidenceParams: m.Params.EvidenceParams,
			Defaulted:      m.Params.Defaulted,
			ByName:         m.Params.ByName,
			Vararg:         m.Params.Vararg,
			InlineParams:   m.Params.InlineParams,
		},
	}

	if m.Kind == lang.DeclDef {
		r.Functions = 1
		switch m.Access {
		case lang.AccessProtected:
			r.ProtectedFunctions = 1
		case lang.AccessPrivate:
			r.PrivateFunctions = 1
		default:
			r.PublicFunctions = 1
		}
	}
	switch m.Access {
	case lang.AccessProtected:
		r.ProtectedSymbols = 1
	case lang.AccessPrivate:
		r.PrivateSymbols = 1
	default:
		r.PublicSymbols = 1
	}
	if m.Nesting > 0 {
		r.NestedSymbols = 1
	}
	if m.HasDoc {
		r.Documented = 1
	}
	if m.Deprecated {
		r.Deprecated = 1
	}
	if m.ReturnType.Explicit {
		r.ExplicitReturns = 1
	} else {
		r.InferredReturns = 1
	}
	if m.Modifiers.Evidence {
		r.EvidenceDecls = 1
	}
	if m.Modifiers.Inline {
		r.InlineDecls = 1
	}
	if m.Modifiers.GivenInstance {
		r.GivenInstances = 1
	}
	if m.Modifiers.GivenConversion {
		r.GivenConversions = 1
	}
	if m.Modifiers.LikelyConversion {
		r.LikelyConversions = 1
	}
	if m.Modifiers.Abstract {
		r.AbstractDecls = 1
	}

	t := c.thresholds
	if t.MaxComplexity > 0 && m.Complexity > t.MaxComplexity {
		r.Flags.OverComplexity = 1
	}
	if t.MaxNesting > 0 && m.NestingDepth > t.MaxNesting {
		r.Flags.OverNesting = 1
	}
	if t.MaxBranchesPer100 > 0 && m.LOC > 0 {
		if per100(m.Branches.Branches, m.LOC) > t.MaxBranchesPer100 {
			r.Flags.OverBranchRate = 1
		}
	}
	if t.MaxCasesPerMatch > 0 && m.Patterns.Matches > 0 {
		if safeRatio(m.Patterns.Cases, m.Patterns.Matches) > float64(t.MaxCasesPerMatch) {
			r.Flags.OverPatternLoad = 1
		}
	}
	if t.MaxParams > 0 && m.Params.Total > t.MaxParams {
		r.Flags.OverParams = 1
	}

	c.derive(&r)
	return r
}

// FromFile folds a parsed file's declaration records into its file rollup.
func (c *Combiner) FromFile(file *lang.SourceFile, decls []metrics.DeclarationMetrics) Rollup {
	acc := c.Empty()
	for _, m := range decls {
		acc = c.Combine(acc, c.FromDeclaration(m))
	}
	acc.Files = 1
	acc.ByteSize = file.ByteSize
	// overlapping container/member spans can sum past the physical line
	// count, so a known file LOC always wins
	if file.LOC > 0 {
		acc.LOC = file.LOC
	}
	c.derive(&acc)
	return acc
}

// SkippedFile is the rollup contribution of a file that failed to parse:
// it only moves the skipped counter, so partial failures degrade
// completeness, not correctness.
func (c *Combiner) SkippedFile() Rollup {
	r := Rollup{Files: 1, SkippedFiles: 1}
	c.derive(&r)
	return r
}

func weightedAvg(a float64, weightA int, b float64, weightB int) float64 {
	total := weightA + weightB
	if total == 0 {
		return 0
	}
	return (a*float64(weightA) + b*float64(weightB)) / float64(total)
}

func per100(count, loc int) float64 {
	if loc == 0 {
		return 0
	}
	return float64(count) * 100.0 / float64(loc)
}

func pct(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) * 100.0 / float64(den)
}

func safeRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
