// # internal/parser/dialect.go
package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DialectID names a grammar/version profile of the analyzed language. The
// metrics core never branches on it; dialect only steers declaration
// normalization inside this package.
type DialectID string

const (
	DialectScala2 DialectID = "scala2"
	DialectScala3 DialectID = "scala3"
	DialectSbt    DialectID = "sbt"
)

// DefaultDialect is returned for empty, whitespace-only or comment-only
// input, where no evidence exists either way.
const DefaultDialect = DialectScala2

var (
	scala3Markers = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*given\b`),
		regexp.MustCompile(`(?m)^\s*enum\s+\w`),
		regexp.MustCompile(`(?m)^\s*extension\s*[\(\[]`),
		regexp.MustCompile(`(?m)^\s*end\s+(if|while|for|match|\w+)\s*$`),
		regexp.MustCompile(`(?m)\bthen\s*$`),
		regexp.MustCompile(`(?m)^\s*export\s+\w`),
		regexp.MustCompile(`\busing\s+\w+\s*:`),
		regexp.MustCompile(`(?m)^\s*opaque\s+type\b`),
	}
	scala2Markers = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*implicit\s+(val|def|class|object)\b`),
		regexp.MustCompile(`(?m)\)\s*\{\s*$`),
		regexp.MustCompile(`\bprocedure\b`),
		regexp.MustCompile(`(?m)^\s*import\s+\w+(\.\w+)*\._\s*$`),
	}
	sbtMarkers = []*regexp.Regexp{
		regexp.MustCompile(`(?m)^\s*\w+\s*:=\s`),
		regexp.MustCompile(`\benablePlugins\s*\(`),
		regexp.MustCompile(`\baddSbtPlugin\s*\(`),
		regexp.MustCompile(`(?m)^\s*lazy\s+val\s+\w+\s*=\s*\(?project\b`),
		regexp.MustCompile(`\blibraryDependencies\s*(\+\+?=)`),
	}
)

// DetectDialect combines syntax-heuristic scoring with trial-parse scoring to
// pick the most plausible dialect for a source text. Files named *.sbt are
// always sbt. Blank or comment-only input yields the default.
func (p *Parser) DetectDialect(path string, source []byte) DialectID {
	if strings.EqualFold(filepath.Ext(path), ".sbt") {
		return DialectSbt
	}
	if isBlankOrComments(source) {
		return DefaultDialect
	}

	scores := map[DialectID]int{
		DialectScala2: scoreMarkers(source, scala2Markers),
		DialectScala3: scoreMarkers(source, scala3Markers),
		DialectSbt:    scoreMarkers(source, sbtMarkers),
	}

	return rankDialects(scores, p.trialParseErrors(source))
}

// rankDialects picks the highest-scoring candidate after weighting marker
// hits against trial-parse noise. The parse-error penalty only applies to
// candidates with marker evidence: a zero-marker candidate is already out of
// the running and penalizing it would never move the ranking. A noisy parse
// can drag a weakly-marked leader below zero, which falls back to the
// default.
func rankDialects(scores map[DialectID]int, errorNodes int) DialectID {
	best, bestScore := DefaultDialect, -1
	for _, id := range []DialectID{DialectScala2, DialectScala3, DialectSbt} {
		score := scores[id] * 10
		if scores[id] > 0 && errorNodes > 0 {
			score -= errorNodes
		}
		if score > bestScore {
			best, bestScore = id, score
		}
	}
	if bestScore <= 0 {
		return DefaultDialect
	}
	return best
}

func scoreMarkers(source []byte, markers []*regexp.Regexp) int {
	score := 0
	for _, marker := range markers {
		score += len(marker.FindAllIndex(source, 8))
	}
	return score
}

func isBlankOrComments(source []byte) bool {
	text := string(source)
	inBlock := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if inBlock {
			if idx := strings.Index(trimmed, "*/"); idx >= 0 {
				inBlock = false
				rest := strings.TrimSpace(trimmed[idx+2:])
				if rest != "" && !strings.HasPrefix(rest, "//") {
					return false
				}
			}
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "//"):
		case strings.HasPrefix(trimmed, "/*"):
			if !strings.Contains(trimmed, "*/") {
				inBlock = true
			}
		default:
			return false
		}
	}
	return true
}
