package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(CodeParseError, "cannot parse source")
	if got := err.Error(); got != "[PARSE_ERROR] cannot parse source" {
		t.Fatalf("got %q", got)
	}

	wrapped := Wrap(stderrors.New("unexpected token"), CodeParseError, "cannot parse source")
	if got := wrapped.Error(); got != "[PARSE_ERROR] cannot parse source: unexpected token" {
		t.Fatalf("got %q", got)
	}
}

func TestErrorContextInMessage(t *testing.T) {
	err := AddContext(New(CodeParseError, "cannot parse source"), CtxPath, "src/Main.scala")
	if !strings.Contains(err.Error(), "src/Main.scala") {
		t.Fatalf("context missing from %q", err.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(cause, CodeStorageError, "write snapshot")
	if !stderrors.Is(err, cause) {
		t.Fatal("wrapped cause not reachable via errors.Is")
	}
}

func TestIsCode(t *testing.T) {
	err := Wrap(stderrors.New("boom"), CodeStorageError, "write snapshot")
	if !IsCode(err, CodeStorageError) {
		t.Fatal("expected CodeStorageError")
	}
	if IsCode(err, CodeParseError) {
		t.Fatal("unexpected CodeParseError")
	}
	if IsCode(stderrors.New("plain"), CodeInternal) {
		t.Fatal("plain error must not match any code")
	}
}

func TestIsCodeThroughFmtWrap(t *testing.T) {
	inner := New(CodeNotFound, "snapshot missing")
	outer := fmt.Errorf("load history: %w", inner)
	if !IsCode(outer, CodeNotFound) {
		t.Fatal("code lost through fmt.Errorf wrapping")
	}
}

func TestAddContextOnPlainError(t *testing.T) {
	err := AddContext(stderrors.New("boom"), CtxOperation, "scan")
	var de *DomainError
	if !stderrors.As(err, &de) {
		t.Fatal("expected DomainError")
	}
	if de.Code != CodeInternal {
		t.Fatalf("got code %s", de.Code)
	}
	if de.Context[CtxOperation] != "scan" {
		t.Fatalf("got context %v", de.Context)
	}
}
