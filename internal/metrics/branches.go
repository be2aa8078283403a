// # internal/metrics/branches.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// BranchDensity counts branch occurrences in an expression tree:
// conditionals, match cases, loops, catch cases and short-circuit boolean
// operators. Unlike Complexity, case guards never add here. The record
// carries raw counts plus the node's LOC span; the per-100-LOC rates are
// left at 0.0 and derived during rollup.
func BranchDensity(root *lang.Node) BranchCounts {
	var counts BranchCounts
	countBranches(root, &counts)
	counts.Branches = counts.Conditionals + counts.CaseBranches +
		counts.Loops + counts.CatchCases + counts.BooleanOps
	counts.LOC = root.LOC()
	return counts
}

func countBranches(n *lang.Node, counts *BranchCounts) {
	if n == nil {
		return
	}

	switch n.Kind {
	case lang.KindConditional:
		counts.Conditionals++
	case lang.KindMatch:
		counts.CaseBranches += len(n.Cases)
	case lang.KindLoop:
		counts.Loops++
	case lang.KindTry:
		counts.CatchCases += len(n.Catches)
	case lang.KindBinaryOp:
		if n.Op == "&&" || n.Op == "||" {
			counts.BooleanOps++
		}
	}

	for _, child := range n.Children() {
		countBranches(child, counts)
	}
}
