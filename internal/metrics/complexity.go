// # internal/metrics/complexity.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// Complexity computes McCabe cyclomatic complexity for an expression tree:
// base 1 plus one per decision point. Decision points are conditionals,
// match cases, case guards, loops, catch cases and short-circuit boolean
// operators. Nested lambdas and textually nested declarations fold into the
// enclosing score. A nil tree (abstract declaration) scores 1.
func Complexity(root *lang.Node) int {
	return 1 + decisionPoints(root)
}

func decisionPoints(n *lang.Node) int {
	if n == nil {
		return 0
	}

	points := 0
	switch n.Kind {
	case lang.KindConditional:
		// An if/else-if chain is walked by descending into the else
		// branch, so each nested conditional adds its own point.
		points++
	case lang.KindMatch:
		for _, c := range n.Cases {
			points++
			if c.Guard != nil {
				points++
			}
		}
	case lang.KindLoop:
		// One point per loop node; extra generators in a single
		// for-comprehension do not add further points.
		points++
	case lang.KindTry:
		// One point per catch case; finally adds nothing.
		points += len(n.Catches)
	case lang.KindBinaryOp:
		if n.Op == "&&" || n.Op == "||" {
			points++
		}
	}

	for _, child := range n.Children() {
		points += decisionPoints(child)
	}
	return points
}
