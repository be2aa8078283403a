// # internal/metrics/types.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// BranchCounts holds raw branch-occurrence counters for one declaration.
// The per-100-LOC rates stay 0.0 here; they are only derived at rollup
// time once a meaningful LOC denominator exists.
type BranchCounts struct {
	Branches     int
	Conditionals int
	CaseBranches int
	Loops        int
	CatchCases   int
	BooleanOps   int
	LOC          int

	BranchesPer100   float64
	BooleanOpsPer100 float64
}

type PatternCounts struct {
	Matches          int
	Cases            int
	Guards           int
	Wildcards        int
	MaxMatchNesting  int
	NestedMatches    int
	AvgCasesPerMatch float64
}

type ParamCounts struct {
	Total          int
	Lists          int
	EvidenceLists  int
	EvidenceParams int
	Defaulted      int
	ByName         int
	Vararg         int
	InlineParams   int
}

// ReturnTypeInfo records whether the return type was spelled out. When it
// was not, InferredType carries the best-effort inference result ("" when
// nothing could be inferred, which is an expected outcome).
type ReturnTypeInfo struct {
	Explicit     bool
	TypeName     string // written type when Explicit
	InferredType string
}

type ModifierInfo struct {
	Evidence         bool
	Inline           bool
	GivenInstance    bool
	GivenConversion  bool
	Abstract         bool
	LikelyConversion bool
}

// DeclarationMetrics is the assembled per-declaration record, produced once
// during a single analysis pass and never mutated.
type DeclarationMetrics struct {
	Name       string
	Kind       lang.DeclKind
	Access     lang.Access
	Nesting    int
	StartLine  int
	EndLine    int
	LOC        int
	HasDoc     bool
	Deprecated bool

	Complexity   int
	NestingDepth int
	Branches     BranchCounts
	Patterns     PatternCounts
	Params       ParamCounts
	ReturnType   ReturnTypeInfo
	Modifiers    ModifierInfo
}
