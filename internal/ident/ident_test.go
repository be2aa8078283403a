package ident

import (
	"strings"
	"testing"
)

func TestIDEmptyInput(t *testing.T) {
	// first 8 bytes of SHA-1("")
	if got := ID(); got != "da39a3ee5e6b4b0d" {
		t.Fatalf("ID() = %q, want da39a3ee5e6b4b0d", got)
	}
	if got := ID(""); got != "da39a3ee5e6b4b0d" {
		t.Fatalf("ID(\"\") = %q, want da39a3ee5e6b4b0d", got)
	}
}

func TestIDConcatenationSemantics(t *testing.T) {
	if ID("a", "b") != ID("ab") {
		t.Fatal("parts must concatenate without delimiter")
	}
	if ID("foo", "bar") != ID("f", "oobar") {
		t.Fatal("split point must not affect the id")
	}
}

func TestIDShape(t *testing.T) {
	id := ID("src/main/Example.scala")
	if len(id) != 16 {
		t.Fatalf("id length = %d, want 16", len(id))
	}
	if id != strings.ToLower(id) {
		t.Fatal("id must be lowercase hex")
	}
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdef", r) {
			t.Fatalf("non-hex rune %q in id %q", r, id)
		}
	}
}

func TestIDDeterministic(t *testing.T) {
	a := FileID("project", "src/A.scala")
	b := FileID("project", "src/A.scala")
	if a != b {
		t.Fatal("identical inputs must give identical ids")
	}
	if a == FileID("project", "src/B.scala") {
		t.Fatal("different paths must give different ids")
	}
	if DeclarationID(a, "run", "def") == DeclarationID(a, "run", "val") {
		t.Fatal("declaration kind must separate ids")
	}
}

func TestNormalizePath(t *testing.T) {
	if got := NormalizePath("/project/src/A.scala", "/project"); got != "src/A.scala" {
		t.Fatalf("got %q, want src/A.scala", got)
	}
	if got := NormalizePath("/elsewhere/B.scala", "/project"); got != "/elsewhere/B.scala" {
		t.Fatalf("got %q, want absolute /elsewhere/B.scala", got)
	}
}
