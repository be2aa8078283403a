package rollup

import (
	"math"
	"testing"

	"github.com/bitblends/scalametrics-sub000/internal/lang"
	"github.com/bitblends/scalametrics-sub000/internal/metrics"
)

const epsilon = 1e-9

func closeTo(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func declRollup(c *Combiner, complexity, nesting, loc int, documented bool) Rollup {
	return c.FromDeclaration(metrics.DeclarationMetrics{
		Name:         "d",
		Kind:         lang.DeclDef,
		LOC:          loc,
		HasDoc:       documented,
		Complexity:   complexity,
		NestingDepth: nesting,
	})
}

func TestCombineIdentity(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	r := declRollup(c, 5, 2, 20, true)

	left := c.Combine(c.Empty(), r)
	right := c.Combine(r, c.Empty())

	if left.Declarations != r.Declarations || right.Declarations != r.Declarations {
		t.Fatal("empty is not an identity for declaration counts")
	}
	if !closeTo(left.AvgComplexity, r.AvgComplexity) || !closeTo(right.AvgComplexity, r.AvgComplexity) {
		t.Fatalf("avg complexity changed: %v vs %v", left.AvgComplexity, r.AvgComplexity)
	}
	if left.DocCoveragePct != r.DocCoveragePct {
		t.Fatalf("doc coverage changed: %v vs %v", left.DocCoveragePct, r.DocCoveragePct)
	}
}

func TestCombineCommutative(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	a := declRollup(c, 3, 1, 12, true)
	b := declRollup(c, 11, 5, 80, false)

	ab := c.Combine(a, b)
	ba := c.Combine(b, a)

	if ab.Declarations != ba.Declarations || ab.MaxComplexity != ba.MaxComplexity {
		t.Fatal("combine is not commutative on counts")
	}
	if !closeTo(ab.AvgComplexity, ba.AvgComplexity) {
		t.Fatalf("avg complexity differs: %v vs %v", ab.AvgComplexity, ba.AvgComplexity)
	}
	if !closeTo(ab.DocCoveragePct, ba.DocCoveragePct) {
		t.Fatalf("doc coverage differs: %v vs %v", ab.DocCoveragePct, ba.DocCoveragePct)
	}
}

func TestCombineAssociative(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	a := declRollup(c, 2, 1, 10, true)
	b := declRollup(c, 7, 3, 30, false)
	d := declRollup(c, 13, 6, 90, true)

	left := c.Combine(c.Combine(a, b), d)
	right := c.Combine(a, c.Combine(b, d))

	if left.TotalComplexity != right.TotalComplexity || left.MaxNesting != right.MaxNesting {
		t.Fatal("combine is not associative on counts")
	}
	if !closeTo(left.AvgComplexity, right.AvgComplexity) {
		t.Fatalf("avg complexity differs: %v vs %v", left.AvgComplexity, right.AvgComplexity)
	}
	if !closeTo(left.Branch.BranchesPer100, right.Branch.BranchesPer100) {
		t.Fatalf("branch rate differs: %v vs %v", left.Branch.BranchesPer100, right.Branch.BranchesPer100)
	}
}

// Merging a 60%-documented group of 3 with a 20%-documented group of 5
// yields 3/8 = 37.5%, under the 50% default, so the merged group is
// flagged even though neither percentage average would say so.
func TestCombineDocCoverageFromTotals(t *testing.T) {
	c := NewCombiner(DefaultThresholds())

	groupA := c.Fold([]Rollup{
		declRollup(c, 1, 0, 5, true),
		declRollup(c, 1, 0, 5, true),
		declRollup(c, 1, 0, 5, false),
	})
	if !closeTo(groupA.DocCoveragePct, 100.0*2/3) {
		t.Fatalf("group A coverage = %v, want %v", groupA.DocCoveragePct, 100.0*2/3)
	}

	groupB := c.Fold([]Rollup{
		declRollup(c, 1, 0, 5, true),
		declRollup(c, 1, 0, 5, false),
		declRollup(c, 1, 0, 5, false),
		declRollup(c, 1, 0, 5, false),
		declRollup(c, 1, 0, 5, false),
	})
	if !closeTo(groupB.DocCoveragePct, 20.0) {
		t.Fatalf("group B coverage = %v, want 20", groupB.DocCoveragePct)
	}

	merged := c.Combine(groupA, groupB)
	if !closeTo(merged.DocCoveragePct, 37.5) {
		t.Fatalf("merged coverage = %v, want 37.5", merged.DocCoveragePct)
	}
	if !merged.Flags.LowDocumentation {
		t.Fatal("merged group must be flagged for low documentation")
	}
}

func TestCombineWeightedAverages(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	a := declRollup(c, 4, 2, 10, true) // 1 decl, avg 4
	b := c.Fold([]Rollup{ // 3 decls, avg 2
		declRollup(c, 2, 1, 10, true),
		declRollup(c, 2, 1, 10, true),
		declRollup(c, 2, 1, 10, true),
	})

	merged := c.Combine(a, b)
	want := (4.0*1 + 2.0*3) / 4
	if !closeTo(merged.AvgComplexity, want) {
		t.Fatalf("avg complexity = %v, want %v", merged.AvgComplexity, want)
	}
}

func TestThresholdFlagCounting(t *testing.T) {
	c := NewCombiner(DefaultThresholds())

	over := declRollup(c, 11, 5, 10, true)
	if over.Flags.OverComplexity != 1 {
		t.Fatal("complexity 11 must exceed the default threshold of 10")
	}
	if over.Flags.OverNesting != 1 {
		t.Fatal("nesting 5 must exceed the default threshold of 4")
	}

	at := declRollup(c, 10, 4, 10, true)
	if at.Flags.OverComplexity != 0 || at.Flags.OverNesting != 0 {
		t.Fatal("values at the threshold must not be flagged")
	}

	merged := c.Combine(over, at)
	if merged.Flags.OverComplexity != 1 || merged.Flags.OverNesting != 1 {
		t.Fatalf("flag counts must add: %+v", merged.Flags)
	}
}

func TestSkippedFileContribution(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	skipped := c.SkippedFile()

	if skipped.Files != 1 || skipped.SkippedFiles != 1 || skipped.Declarations != 0 {
		t.Fatalf("got %+v, want files=1 skipped=1 decls=0", skipped)
	}

	ok := declRollup(c, 2, 1, 10, true)
	ok.Files = 1
	merged := c.Combine(ok, skipped)
	if merged.Files != 2 || merged.SkippedFiles != 1 {
		t.Fatalf("got files=%d skipped=%d, want 2 and 1", merged.Files, merged.SkippedFiles)
	}
	// skipped files must not drag the quality stats
	if !closeTo(merged.DocCoveragePct, 100.0) {
		t.Fatalf("doc coverage = %v, want 100", merged.DocCoveragePct)
	}
}

func TestFromFileUsesFileLOC(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	file := &lang.SourceFile{Path: "A.scala", LOC: 100, ByteSize: 2048}
	decls := []metrics.DeclarationMetrics{
		{Name: "a", Kind: lang.DeclVal, LOC: 3, Complexity: 1},
		{Name: "b", Kind: lang.DeclDef, LOC: 7, Complexity: 2},
	}

	r := c.FromFile(file, decls)
	if r.Files != 1 {
		t.Fatalf("files = %d, want 1", r.Files)
	}
	if r.LOC != 100 {
		t.Fatalf("LOC = %d, want file-level 100", r.LOC)
	}
	if r.ByteSize != 2048 {
		t.Fatalf("byte size = %d, want 2048", r.ByteSize)
	}
	if r.Declarations != 2 {
		t.Fatalf("declarations = %d, want 2", r.Declarations)
	}
}

func TestFromFileOverlappingSpansDoNotInflateLOC(t *testing.T) {
	c := NewCombiner(DefaultThresholds())
	// a 10-line file whose container span overlaps its member spans
	file := &lang.SourceFile{Path: "B.scala", LOC: 10, ByteSize: 256}
	decls := []metrics.DeclarationMetrics{
		{Name: "Outer", Kind: lang.DeclObject, LOC: 10, Complexity: 1},
		{Name: "inner", Kind: lang.DeclDef, LOC: 8, Complexity: 1,
			Branches: metrics.BranchCounts{Branches: 5}},
	}

	r := c.FromFile(file, decls)
	if r.LOC != 10 {
		t.Fatalf("LOC = %d, want physical 10 despite 18 summed span lines", r.LOC)
	}
	if !closeTo(r.Branch.BranchesPer100, 50.0) {
		t.Fatalf("branches/100 = %v, want 50 over the physical LOC", r.Branch.BranchesPer100)
	}

	// unknown file LOC falls back to the span sum
	noLOC := &lang.SourceFile{Path: "C.scala"}
	r = c.FromFile(noLOC, decls)
	if r.LOC != 18 {
		t.Fatalf("LOC = %d, want span sum 18 when file LOC is unknown", r.LOC)
	}
}

func TestBuildProjectGroupsByPackage(t *testing.T) {
	c := NewCombiner(DefaultThresholds())

	mk := func(path, pkg string, documented bool) FileResult {
		file := &lang.SourceFile{Path: path, PackageName: pkg, LOC: 10, ByteSize: 100}
		decls := []metrics.DeclarationMetrics{{Name: "x", Kind: lang.DeclVal, LOC: 2, Complexity: 1, HasDoc: documented}}
		return FileResult{
			Path:         path,
			RelPath:      path,
			Package:      pkg,
			Rollup:       c.FromFile(file, decls),
			Declarations: decls,
		}
	}

	files := []FileResult{
		mk("b.scala", "com.example.b", true),
		mk("a.scala", "com.example.a", false),
		mk("c.scala", "", true),
	}

	project := c.BuildProject("proj", "/tmp/x", files, []string{"broken.scala"})

	if len(project.Packages) != 3 {
		t.Fatalf("packages = %d, want 3", len(project.Packages))
	}
	if project.Packages[0].Name != "<default>" {
		t.Fatalf("first package = %q, want <default>", project.Packages[0].Name)
	}
	if project.Packages[1].Name != "com.example.a" || project.Packages[2].Name != "com.example.b" {
		t.Fatal("packages not sorted by name")
	}
	if project.Rollup.Files != 4 || project.Rollup.SkippedFiles != 1 {
		t.Fatalf("files = %d skipped = %d, want 4 and 1", project.Rollup.Files, project.Rollup.SkippedFiles)
	}
	if project.Rollup.Declarations != 3 {
		t.Fatalf("declarations = %d, want 3", project.Rollup.Declarations)
	}
}
