// # internal/parser/parser.go
package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_scala "github.com/tree-sitter/tree-sitter-scala/bindings/go"

	"github.com/bitblends/scalametrics-sub000/internal/lang"
	"github.com/bitblends/scalametrics-sub000/internal/observability"
)

// Parser turns Scala source into lang.SourceFile values. Safe for concurrent
// use; a sitter.Parser instance is created per call because the underlying
// parser is not reentrant.
type Parser struct {
	grammar *sitter.Language

	mu      sync.Mutex
	scratch *sitter.Parser // reused for dialect trial parses
}

func NewParser() *Parser {
	return &Parser{
		grammar: sitter.NewLanguage(tree_sitter_scala.Language()),
	}
}

// ParseFile parses content and extracts declarations. The dialect is detected
// from the path and content unless forced is non-empty.
func (p *Parser) ParseFile(path string, content []byte, forced DialectID) (*lang.SourceFile, error) {
	dialect := forced
	if dialect == "" {
		dialect = p.DetectDialect(path, content)
	}

	start := time.Now()

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(p.grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.New("parse failed")
	}
	defer tree.Close()

	observability.ParseDuration.WithLabelValues(string(dialect)).Observe(time.Since(start).Seconds())

	root := tree.RootNode()

	ex := &extractor{source: content, dialect: dialect}
	file := &lang.SourceFile{
		Path:     path,
		Dialect:  string(dialect),
		LOC:      countLines(content),
		ByteSize: int64(len(content)),
	}
	ex.extractFile(root, file)

	return file, nil
}

// ParsePath reads and parses a file from disk.
func (p *Parser) ParsePath(path string, forced DialectID) (*lang.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseFile(path, content, forced)
}

func (p *Parser) trialParseErrors(content []byte) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.scratch == nil {
		p.scratch = sitter.NewParser()
		p.scratch.SetLanguage(p.grammar)
	}

	tree := p.scratch.Parse(content, nil)
	if tree == nil {
		return 1 << 16
	}
	defer tree.Close()

	return countErrorNodes(tree.RootNode())
}

func countErrorNodes(node *sitter.Node) int {
	count := 0
	if node.IsError() || node.IsMissing() {
		count++
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		count += countErrorNodes(node.Child(i))
	}
	return count
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	n := strings.Count(string(content), "\n")
	if content[len(content)-1] != '\n' {
		n++
	}
	return n
}
