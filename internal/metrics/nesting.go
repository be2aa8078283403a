// # internal/metrics/nesting.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// NestingDepth computes the longest chain of depth-increasing constructs
// from the root to any leaf. Entering a conditional branch, a match case
// body, a loop body, a try/catch/finally body or a lambda body adds one
// level; a block adds one level of its own. A body that is itself a block
// contributes a single level, not two. A leaf with no nested block is 0.
func NestingDepth(root *lang.Node) int {
	return depth(root)
}

func depth(n *lang.Node) int {
	if n == nil {
		return 0
	}

	switch n.Kind {
	case lang.KindBlock:
		deepest := 0
		for _, stmt := range n.Stmts {
			if d := depth(stmt); d > deepest {
				deepest = d
			}
		}
		return 1 + deepest

	case lang.KindConditional:
		deepest := depth(n.Cond)
		if d := enterBody(n.Then); d > deepest {
			deepest = d
		}
		if d := enterBody(n.Else); d > deepest {
			deepest = d
		}
		return deepest

	case lang.KindMatch:
		deepest := depth(n.Scrutinee)
		for _, c := range n.Cases {
			if d := depth(c.Guard); d > deepest {
				deepest = d
			}
			if d := enterBody(c.Body); d > deepest {
				deepest = d
			}
		}
		return deepest

	case lang.KindLoop:
		deepest := 0
		for _, f := range n.Filters {
			if d := depth(f); d > deepest {
				deepest = d
			}
		}
		if d := enterBody(n.Body); d > deepest {
			deepest = d
		}
		return deepest

	case lang.KindTry:
		deepest := enterBody(n.TryBody)
		for _, c := range n.Catches {
			if d := depth(c.Guard); d > deepest {
				deepest = d
			}
			if d := enterBody(c.Body); d > deepest {
				deepest = d
			}
		}
		if d := enterBody(n.Finalizer); d > deepest {
			deepest = d
		}
		return deepest

	case lang.KindLambda:
		return enterBody(n.Body)

	default:
		deepest := 0
		for _, child := range n.Children() {
			if d := depth(child); d > deepest {
				deepest = d
			}
		}
		return deepest
	}
}

// enterBody charges exactly one level for a body/branch position. A block
// child already charges its own level, so it passes through unchanged.
func enterBody(n *lang.Node) int {
	if n == nil {
		return 0
	}
	if n.Kind == lang.KindBlock {
		return depth(n)
	}
	return 1 + depth(n)
}
