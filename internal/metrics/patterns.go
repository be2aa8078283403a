// # internal/metrics/patterns.go
package metrics

import "github.com/bitblends/scalametrics-sub000/internal/lang"

// PatternAnalysis walks an expression tree and aggregates pattern-match
// usage: total matches, cases, guards and wildcard cases, the deepest
// match-in-match nesting (a lone match counts one level), and how many
// matches sit inside another match's scrutinee or case body. Matches that
// are siblings are not nested in each other.
func PatternAnalysis(root *lang.Node) PatternCounts {
	var counts PatternCounts
	countPatterns(root, 0, &counts)
	if counts.Matches > 0 {
		counts.AvgCasesPerMatch = float64(counts.Cases) / float64(counts.Matches)
	}
	return counts
}

// countPatterns threads the enclosing-match depth as an explicit parameter
// so the traversal stays referentially transparent.
func countPatterns(n *lang.Node, matchDepth int, counts *PatternCounts) {
	if n == nil {
		return
	}

	if n.Kind == lang.KindMatch {
		level := matchDepth + 1
		counts.Matches++
		if level > counts.MaxMatchNesting {
			counts.MaxMatchNesting = level
		}
		if matchDepth > 0 {
			counts.NestedMatches++
		}
		counts.Cases += len(n.Cases)
		for _, c := range n.Cases {
			if c.Guard != nil {
				counts.Guards++
			}
			if c.Wildcard {
				counts.Wildcards++
			}
		}

		countPatterns(n.Scrutinee, level, counts)
		for _, c := range n.Cases {
			countPatterns(c.Guard, level, counts)
			countPatterns(c.Body, level, counts)
		}
		return
	}

	for _, child := range n.Children() {
		countPatterns(child, matchDepth, counts)
	}
}
