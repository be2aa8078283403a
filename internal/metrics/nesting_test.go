package metrics

import (
	"testing"

	"github.com/bitblends/scalametrics-sub000/internal/lang"
)

func TestNestingDepthScenario(t *testing.T) {
	// def body: { match { case => { for { if (cond) { call } } } } }
	inner := cond(name("cond"), block(call(name("handle"))), nil)
	body := block(matchNode(name("xs"),
		lang.Case{Body: block(forLoop(block(inner)))},
	))

	if got := NestingDepth(body); got != 4 {
		t.Fatalf("nesting depth = %d, want 4", got)
	}
}

func TestNestingDepthLeafIsZero(t *testing.T) {
	if got := NestingDepth(lit(lang.LitInt)); got != 0 {
		t.Fatalf("literal depth = %d, want 0", got)
	}
	if got := NestingDepth(nil); got != 0 {
		t.Fatalf("nil depth = %d, want 0", got)
	}
}

func TestNestingDepthBlockBodyNotDoubleCharged(t *testing.T) {
	// `if (c) expr` and `if (c) { expr }` charge the same single level
	bare := cond(name("c"), call(name("f")), nil)
	braced := cond(name("c"), block(call(name("f"))), nil)

	if a, b := NestingDepth(bare), NestingDepth(braced); a != b {
		t.Fatalf("bare = %d, braced = %d, want equal", a, b)
	}
	if got := NestingDepth(braced); got != 1 {
		t.Fatalf("depth = %d, want 1", got)
	}
}

func TestNestingDepthSiblingsDoNotStack(t *testing.T) {
	body := block(
		cond(name("a"), block(call(name("f"))), nil),
		cond(name("b"), block(call(name("g"))), nil),
	)
	if got := NestingDepth(body); got != 2 {
		t.Fatalf("depth = %d, want 2", got)
	}
}

func TestNestingDepthLambdaBody(t *testing.T) {
	lambda := &lang.Node{
		Kind: lang.KindLambda,
		Body: cond(name("c"), block(call(name("f"))), nil),
	}
	if got := NestingDepth(lambda); got != 2 {
		t.Fatalf("depth = %d, want 2", got)
	}
}

func TestNestingDepthTryBranches(t *testing.T) {
	try := &lang.Node{
		Kind:    lang.KindTry,
		TryBody: block(call(name("risky"))),
		Catches: []lang.Case{
			{Body: block(cond(name("retryable"), block(call(name("retry"))), nil))},
		},
		Finalizer: block(call(name("cleanup"))),
	}
	// deepest chain: catch body block -> if -> then block
	if got := NestingDepth(try); got != 2 {
		t.Fatalf("depth = %d, want 2", got)
	}
}
