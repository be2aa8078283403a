// # internal/parser/extract.go
package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/bitblends/scalametrics-sub000/internal/lang"
)

// extractor normalizes a tree-sitter parse tree into the closed lang.Node
// shape set plus the file's declaration list. Grammar node kinds it does not
// recognize become KindUnrecognized with their children preserved, so a
// grammar bump never panics the pipeline.
type extractor struct {
	source  []byte
	dialect DialectID
}

var collectionCtors = map[string]bool{
	"List": true, "Seq": true, "Vector": true, "Set": true,
	"Map": true, "Array": true, "Some": true, "Option": true,
	"Either": true, "Left": true, "Right": true,
}

func (e *extractor) extractFile(root *sitter.Node, file *lang.SourceFile) {
	for i := uint(0); i < root.NamedChildCount(); i++ {
		child := root.NamedChild(i)
		switch child.Kind() {
		case "package_clause":
			if file.PackageName == "" {
				file.PackageName = e.packageName(child)
			} else {
				// chained package clauses nest
				file.PackageName += "." + e.packageName(child)
			}
			if body := e.templateBody(child); body != nil {
				e.extractMembers(body, file, 0)
			}
		default:
			e.extractMember(child, file, 0)
		}
	}
}

func (e *extractor) packageName(clause *sitter.Node) string {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "package_identifier", "identifier", "field_expression", "stable_identifier":
			return e.getText(child)
		}
	}
	return ""
}

// extractMembers walks a template or package body, registering each
// recognized definition as a declaration.
func (e *extractor) extractMembers(body *sitter.Node, file *lang.SourceFile, nesting int) {
	for i := uint(0); i < body.NamedChildCount(); i++ {
		e.extractMember(body.NamedChild(i), file, nesting)
	}
}

func (e *extractor) extractMember(node *sitter.Node, file *lang.SourceFile, nesting int) {
	kind, ok := declKindFor(node.Kind())
	if !ok {
		return
	}

	decl := e.buildDeclaration(node, kind, nesting)
	if decl == nil {
		return
	}
	file.Declarations = append(file.Declarations, decl)

	// members of a container are declarations in their own right
	if isContainer(kind) {
		if body := e.templateBody(node); body != nil {
			e.extractMembers(body, file, nesting+1)
		}
	}
}

func declKindFor(kind string) (lang.DeclKind, bool) {
	switch kind {
	case "val_definition", "val_declaration":
		return lang.DeclVal, true
	case "var_definition", "var_declaration":
		return lang.DeclVar, true
	case "function_definition", "function_declaration":
		return lang.DeclDef, true
	case "type_definition", "type_declaration", "opaque_type_definition":
		return lang.DeclType, true
	case "class_definition":
		return lang.DeclClass, true
	case "trait_definition":
		return lang.DeclTrait, true
	case "object_definition":
		return lang.DeclObject, true
	case "enum_definition":
		return lang.DeclEnum, true
	case "given_definition":
		return lang.DeclGiven, true
	default:
		return 0, false
	}
}

func isContainer(kind lang.DeclKind) bool {
	switch kind {
	case lang.DeclClass, lang.DeclTrait, lang.DeclObject, lang.DeclEnum:
		return true
	}
	return false
}

func (e *extractor) buildDeclaration(node *sitter.Node, kind lang.DeclKind, nesting int) *lang.Declaration {
	decl := &lang.Declaration{
		Kind:      kind,
		Nesting:   nesting,
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}

	decl.Name = e.declName(node, kind)
	if decl.Name == "" && kind != lang.DeclGiven {
		return nil
	}
	if decl.Name == "" {
		decl.Name = "<anonymous>"
	}

	e.applyModifiers(node, decl)
	e.applyAnnotations(node, decl)
	decl.HasDocComment = e.hasDocComment(node)

	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "parameters", "class_parameters":
			decl.ParamLists = append(decl.ParamLists, e.buildParamList(child))
		}
	}

	if rt := node.ChildByFieldName("return_type"); rt != nil {
		decl.ExplicitReturnType = true
		decl.ReturnTypeName = e.getText(rt)
	} else if kind == lang.DeclVal || kind == lang.DeclVar || kind == lang.DeclGiven {
		if t := node.ChildByFieldName("type"); t != nil {
			decl.ExplicitReturnType = true
			decl.ReturnTypeName = e.getText(t)
		}
	}

	if kind == lang.DeclGiven {
		decl.Modifiers |= lang.ModGivenInstance
		decl.Modifiers |= lang.ModEvidence
		if isConversionType(decl.ReturnTypeName) {
			decl.Modifiers |= lang.ModGivenConversion
		}
	}

	switch {
	case isContainer(kind):
		decl.Body = e.containerBody(node)
	default:
		if body := node.ChildByFieldName("body"); body != nil {
			decl.Body = e.buildExpr(body)
		} else if v := node.ChildByFieldName("value"); v != nil {
			decl.Body = e.buildExpr(v)
		}
	}
	if decl.Body == nil {
		decl.Modifiers |= lang.ModAbstract
	}

	return decl
}

func (e *extractor) declName(node *sitter.Node, kind lang.DeclKind) string {
	if name := node.ChildByFieldName("name"); name != nil {
		return e.getText(name)
	}
	// val/var definitions bind through a pattern
	if pat := node.ChildByFieldName("pattern"); pat != nil {
		if pat.Kind() == "identifier" {
			return e.getText(pat)
		}
		return e.getText(pat)
	}
	return ""
}

// containerBody collects the non-declaration statements of a template body
// into a block. Member definitions are registered separately and appear here
// as nested-decl markers so span metrics stay honest.
func (e *extractor) containerBody(node *sitter.Node) *lang.Node {
	body := e.templateBody(node)
	if body == nil {
		return nil
	}
	block := &lang.Node{
		Kind:      lang.KindBlock,
		StartLine: int(body.StartPosition().Row) + 1,
		EndLine:   int(body.EndPosition().Row) + 1,
	}
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if _, isDecl := declKindFor(child.Kind()); isDecl {
			continue
		}
		if n := e.buildExpr(child); n != nil {
			block.Stmts = append(block.Stmts, n)
		}
	}
	return block
}

func (e *extractor) templateBody(node *sitter.Node) *sitter.Node {
	if body := node.ChildByFieldName("body"); body != nil {
		return body
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "template_body", "enum_body":
			return child
		}
	}
	return nil
}

func (e *extractor) applyModifiers(node *sitter.Node, decl *lang.Declaration) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "modifiers" {
			continue
		}
		for j := uint(0); j < child.ChildCount(); j++ {
			mod := child.Child(j)
			switch mod.Kind() {
			case "access_modifier":
				switch {
				case strings.HasPrefix(e.getText(mod), "private"):
					decl.Access = lang.AccessPrivate
				case strings.HasPrefix(e.getText(mod), "protected"):
					decl.Access = lang.AccessProtected
				}
			case "implicit":
				decl.Modifiers |= lang.ModEvidence
			case "inline_modifier", "inline":
				decl.Modifiers |= lang.ModInline
			case "abstract":
				decl.Modifiers |= lang.ModAbstract
			}
		}
	}
}

func (e *extractor) applyAnnotations(node *sitter.Node, decl *lang.Declaration) {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() != "annotation" {
			continue
		}
		if strings.Contains(e.getText(child), "deprecated") {
			decl.Deprecated = true
		}
	}
}

func (e *extractor) hasDocComment(node *sitter.Node) bool {
	prev := node.PrevNamedSibling()
	for prev != nil && prev.Kind() == "annotation" {
		prev = prev.PrevNamedSibling()
	}
	if prev == nil {
		return false
	}
	if prev.Kind() != "block_comment" && prev.Kind() != "comment" {
		return false
	}
	text := e.getText(prev)
	if !strings.HasPrefix(text, "/**") {
		return false
	}
	// only counts when it sits directly above the declaration
	gap := int(node.StartPosition().Row) - int(prev.EndPosition().Row)
	return gap >= 0 && gap <= 1
}

func (e *extractor) buildParamList(node *sitter.Node) lang.ParamList {
	list := lang.ParamList{}
	for i := uint(0); i < node.ChildCount(); i++ {
		switch node.Child(i).Kind() {
		case "implicit", "using":
			list.Evidence = true
		}
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		switch child.Kind() {
		case "parameter", "class_parameter":
			list.Params = append(list.Params, e.buildParam(child))
		}
	}
	return list
}

func (e *extractor) buildParam(node *sitter.Node) lang.Param {
	p := lang.Param{}
	if name := node.ChildByFieldName("name"); name != nil {
		p.Name = e.getText(name)
	}
	if t := node.ChildByFieldName("type"); t != nil {
		typeText := strings.TrimSpace(e.getText(t))
		if strings.HasPrefix(typeText, "=>") {
			p.ByName = true
			typeText = strings.TrimSpace(strings.TrimPrefix(typeText, "=>"))
		}
		if strings.HasSuffix(typeText, "*") {
			p.Vararg = true
			typeText = strings.TrimSpace(strings.TrimSuffix(typeText, "*"))
		}
		p.TypeName = typeText
	}
	if node.ChildByFieldName("default_value") != nil {
		p.HasDefault = true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == "inline" {
			p.Inline = true
		}
	}
	return p
}

func isConversionType(typeName string) bool {
	base := typeName
	if idx := strings.IndexByte(base, '['); idx >= 0 {
		base = base[:idx]
	}
	if idx := strings.LastIndexByte(base, '.'); idx >= 0 {
		base = base[idx+1:]
	}
	return strings.TrimSpace(base) == "Conversion"
}

// buildExpr normalizes one grammar node into the metric node set.
func (e *extractor) buildExpr(node *sitter.Node) *lang.Node {
	if node == nil {
		return nil
	}

	out := &lang.Node{
		StartLine: int(node.StartPosition().Row) + 1,
		EndLine:   int(node.EndPosition().Row) + 1,
	}

	switch node.Kind() {
	case "block", "indented_block", "template_body":
		out.Kind = lang.KindBlock
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if stmt := e.buildExpr(node.NamedChild(i)); stmt != nil {
				out.Stmts = append(out.Stmts, stmt)
			}
		}

	case "if_expression":
		out.Kind = lang.KindConditional
		out.Cond = e.buildExpr(node.ChildByFieldName("condition"))
		out.Then = e.buildExpr(node.ChildByFieldName("consequence"))
		out.Else = e.buildExpr(node.ChildByFieldName("alternative"))

	case "match_expression":
		out.Kind = lang.KindMatch
		out.Scrutinee = e.buildExpr(node.ChildByFieldName("value"))
		out.Cases = e.buildCases(node.ChildByFieldName("body"))

	case "while_expression":
		out.Kind = lang.KindLoop
		out.Loop = lang.LoopWhile
		out.Filters = appendNonNil(out.Filters, e.buildExpr(node.ChildByFieldName("condition")))
		out.Body = e.buildExpr(node.ChildByFieldName("body"))

	case "do_while_expression":
		out.Kind = lang.KindLoop
		out.Loop = lang.LoopDoWhile
		out.Filters = appendNonNil(out.Filters, e.buildExpr(node.ChildByFieldName("condition")))
		out.Body = e.buildExpr(node.ChildByFieldName("body"))

	case "for_expression":
		out.Kind = lang.KindLoop
		out.Loop = lang.LoopFor
		if e.hasToken(node, "yield") {
			out.Loop = lang.LoopForYield
		}
		e.buildEnumerators(node.ChildByFieldName("enumerators"), out)
		out.Body = e.buildExpr(node.ChildByFieldName("body"))

	case "try_expression":
		out.Kind = lang.KindTry
		out.TryBody = e.buildExpr(node.ChildByFieldName("body"))
		for i := uint(0); i < node.NamedChildCount(); i++ {
			child := node.NamedChild(i)
			switch child.Kind() {
			case "catch_clause":
				out.Catches = append(out.Catches, e.buildCatchCases(child)...)
			case "finally_clause":
				out.Finalizer = e.buildExpr(lastNamedChild(child))
			}
		}

	case "infix_expression":
		out.Kind = lang.KindBinaryOp
		out.Op = e.getText(node.ChildByFieldName("operator"))
		out.Left = e.buildExpr(node.ChildByFieldName("left"))
		out.Right = e.buildExpr(node.ChildByFieldName("right"))

	case "lambda_expression":
		out.Kind = lang.KindLambda
		out.Body = e.buildExpr(lastNamedChild(node))

	case "call_expression":
		e.buildCall(node, out)

	case "identifier", "operator_identifier":
		out.Kind = lang.KindQualifiedName
		out.Name = e.getText(node)

	case "field_expression", "stable_identifier":
		out.Kind = lang.KindQualifiedName
		out.Name = e.getText(node)

	case "ascription_expression":
		out.Kind = lang.KindTypeAscription
		if t := node.ChildByFieldName("type"); t != nil {
			out.TypeName = e.getText(t)
		}
		out.Target = e.buildExpr(node.NamedChild(0))

	case "generic_function":
		out.Kind = lang.KindTypeApply
		out.TypeName = e.getText(node)
		out.Target = e.buildExpr(node.ChildByFieldName("function"))

	case "parenthesized_expression":
		if inner := e.buildExpr(lastNamedChild(node)); inner != nil {
			return inner
		}
		out.Kind = lang.KindUnrecognized

	case "integer_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitInt
		if text := e.getText(node); strings.HasSuffix(text, "L") || strings.HasSuffix(text, "l") {
			out.Literal = lang.LitLong
		}
	case "floating_point_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitDouble
		if text := e.getText(node); strings.HasSuffix(text, "f") || strings.HasSuffix(text, "F") {
			out.Literal = lang.LitFloat
		}
	case "boolean_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitBoolean
	case "character_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitChar
	case "string":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitString
	case "interpolated_string_expression":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitInterpolatedString
	case "symbol_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitSymbol
	case "null_literal":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitNull
	case "unit":
		out.Kind = lang.KindLiteral
		out.Literal = lang.LitUnit

	case "function_definition", "function_declaration", "val_definition",
		"var_definition", "class_definition", "object_definition":
		out.Kind = lang.KindNestedDecl
		if body := node.ChildByFieldName("body"); body != nil {
			out.Body = e.buildExpr(body)
		}

	case "comment", "block_comment":
		return nil

	default:
		// keep children reachable under an unrecognized wrapper
		out.Kind = lang.KindUnrecognized
		for i := uint(0); i < node.NamedChildCount(); i++ {
			if child := e.buildExpr(node.NamedChild(i)); child != nil {
				out.Stmts = append(out.Stmts, child)
			}
		}
	}

	return out
}

// buildCall distinguishes collection constructor calls from plain calls so
// the inference layer can name element types.
func (e *extractor) buildCall(node *sitter.Node, out *lang.Node) {
	fn := node.ChildByFieldName("function")
	args := node.ChildByFieldName("arguments")

	name, typeArgs := e.callCtor(fn)
	if collectionCtors[name] {
		out.Kind = lang.KindCollection
		out.Name = name
		out.TypeArgs = typeArgs
		out.Elems = e.buildArgs(args)
		return
	}

	out.Kind = lang.KindCall
	out.Fn = e.buildExpr(fn)
	out.Args = e.buildArgs(args)
}

// callCtor resolves the constructor-style name of a call target, along with
// any explicit type arguments: List, scala.List, List[Int].
func (e *extractor) callCtor(fn *sitter.Node) (string, []string) {
	if fn == nil {
		return "", nil
	}
	switch fn.Kind() {
	case "identifier":
		return e.getText(fn), nil
	case "field_expression", "stable_identifier":
		text := e.getText(fn)
		if idx := strings.LastIndexByte(text, '.'); idx >= 0 {
			return text[idx+1:], nil
		}
		return text, nil
	case "generic_function":
		name, _ := e.callCtor(fn.ChildByFieldName("function"))
		var typeArgs []string
		if ta := fn.ChildByFieldName("type_arguments"); ta != nil {
			for i := uint(0); i < ta.NamedChildCount(); i++ {
				typeArgs = append(typeArgs, e.getText(ta.NamedChild(i)))
			}
		}
		return name, typeArgs
	}
	return "", nil
}

func (e *extractor) buildArgs(args *sitter.Node) []*lang.Node {
	if args == nil {
		return nil
	}
	var out []*lang.Node
	for i := uint(0); i < args.NamedChildCount(); i++ {
		if arg := e.buildExpr(args.NamedChild(i)); arg != nil {
			out = append(out, arg)
		}
	}
	return out
}

func (e *extractor) buildCases(body *sitter.Node) []lang.Case {
	if body == nil {
		return nil
	}
	var cases []lang.Case
	for i := uint(0); i < body.NamedChildCount(); i++ {
		child := body.NamedChild(i)
		if child.Kind() != "case_clause" {
			continue
		}
		cases = append(cases, e.buildCase(child))
	}
	return cases
}

func (e *extractor) buildCase(clause *sitter.Node) lang.Case {
	c := lang.Case{}
	if pat := clause.ChildByFieldName("pattern"); pat != nil {
		c.Wildcard = pat.Kind() == "wildcard"
	}
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		if child.Kind() == "guard" {
			c.Guard = e.buildExpr(lastNamedChild(child))
		}
	}
	if body := clause.ChildByFieldName("body"); body != nil {
		c.Body = e.buildExpr(body)
	}
	return c
}

func (e *extractor) buildCatchCases(clause *sitter.Node) []lang.Case {
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		child := clause.NamedChild(i)
		switch child.Kind() {
		case "case_block", "indented_cases":
			return e.buildCases(child)
		}
	}
	// single-expression catch handler
	if handler := e.buildExpr(lastNamedChild(clause)); handler != nil {
		return []lang.Case{{Wildcard: true, Body: handler}}
	}
	return nil
}

func (e *extractor) buildEnumerators(enums *sitter.Node, out *lang.Node) {
	if enums == nil {
		return
	}
	for i := uint(0); i < enums.NamedChildCount(); i++ {
		child := enums.NamedChild(i)
		switch child.Kind() {
		case "enumerator":
			out.Generators++
			for j := uint(0); j < child.NamedChildCount(); j++ {
				if child.NamedChild(j).Kind() == "guard" {
					out.Filters = appendNonNil(out.Filters, e.buildExpr(lastNamedChild(child.NamedChild(j))))
				}
			}
		case "guard":
			out.Filters = appendNonNil(out.Filters, e.buildExpr(lastNamedChild(child)))
		}
	}
}

func (e *extractor) hasToken(node *sitter.Node, token string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if node.Child(i).Kind() == token {
			return true
		}
	}
	return false
}

func (e *extractor) getText(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint(len(e.source)) {
		return ""
	}
	return string(e.source[start:end])
}

func lastNamedChild(node *sitter.Node) *sitter.Node {
	if node == nil {
		return nil
	}
	n := node.NamedChildCount()
	if n == 0 {
		return nil
	}
	return node.NamedChild(n - 1)
}

func appendNonNil(list []*lang.Node, n *lang.Node) []*lang.Node {
	if n == nil {
		return list
	}
	return append(list, n)
}
