// # internal/metrics/infer.go
package metrics

import (
	"fmt"
	"strings"

	"github.com/bitblends/scalametrics-sub000/internal/lang"
)

// InferType maps an expression shape to a best-effort simple type name.
// It is used only when a declaration omits its return type. The empty
// string means "no inferable type", which is an expected outcome, never an
// error; the function cannot fail.
//
// Rule order: literals; collection constructors; recognized qualified
// constructions; type ascriptions/applications; conditionals; matches;
// blocks; then the call-chain fallback. The fallback names the last
// selector segment of an unrecognized call chain and is a documented
// low-confidence heuristic.
func InferType(n *lang.Node) string {
	if n == nil {
		return ""
	}

	switch n.Kind {
	case lang.KindLiteral:
		return literalTypeName(n.Literal)

	case lang.KindCollection:
		return inferCollection(n)

	case lang.KindQualifiedName:
		return inferQualifiedName(n.Name)

	case lang.KindTypeAscription, lang.KindTypeApply:
		return n.TypeName

	case lang.KindConditional:
		// A conditional missing its else branch never infers.
		if n.Else == nil {
			return ""
		}
		thenType := InferType(n.Then)
		elseType := InferType(n.Else)
		if thenType != "" && thenType == elseType {
			return thenType
		}
		return ""

	case lang.KindMatch:
		return inferMatch(n)

	case lang.KindBlock:
		if len(n.Stmts) == 0 {
			return ""
		}
		return InferType(n.Stmts[len(n.Stmts)-1])

	case lang.KindCall:
		return inferCall(n)
	}

	return ""
}

func literalTypeName(kind lang.LiteralKind) string {
	switch kind {
	case lang.LitInt:
		return "Int"
	case lang.LitLong:
		return "Long"
	case lang.LitFloat:
		return "Float"
	case lang.LitDouble:
		return "Double"
	case lang.LitBoolean:
		return "Boolean"
	case lang.LitChar:
		return "Char"
	case lang.LitString, lang.LitInterpolatedString:
		return "String"
	case lang.LitSymbol:
		return "Symbol"
	case lang.LitUnit:
		return "Unit"
	case lang.LitNull:
		return "Null"
	}
	return ""
}

func inferCollection(n *lang.Node) string {
	outer := simpleTypeName(n.Name)
	if outer == "" {
		return ""
	}

	if outer == "Map" {
		if key, value, ok := inferMapEntries(n.Elems); ok {
			return fmt.Sprintf("Map[%s, %s]", key, value)
		}
		return "Map[_, _]"
	}

	if len(n.TypeArgs) > 0 {
		return fmt.Sprintf("%s[%s]", outer, strings.Join(n.TypeArgs, ", "))
	}
	if len(n.Elems) == 0 {
		return outer + "[_]"
	}

	elemType := InferType(n.Elems[0])
	if elemType == "" {
		return outer + "[_]"
	}
	for _, elem := range n.Elems[1:] {
		if InferType(elem) != elemType {
			return outer + "[_]"
		}
	}
	return fmt.Sprintf("%s[%s]", outer, elemType)
}

// inferMapEntries expects map elements shaped as two-argument entries
// (key -> value). It succeeds only when every key and every value infer to
// one consistent pair of types.
func inferMapEntries(elems []*lang.Node) (string, string, bool) {
	if len(elems) == 0 {
		return "", "", false
	}
	var keyType, valueType string
	for _, elem := range elems {
		if elem == nil || elem.Kind != lang.KindBinaryOp || elem.Op != "->" {
			return "", "", false
		}
		k := InferType(elem.Left)
		v := InferType(elem.Right)
		if k == "" || v == "" {
			return "", "", false
		}
		if keyType == "" {
			keyType, valueType = k, v
			continue
		}
		if k != keyType || v != valueType {
			return "", "", false
		}
	}
	return keyType, valueType, true
}

func inferMatch(n *lang.Node) string {
	if len(n.Cases) == 0 {
		return ""
	}
	first := InferType(n.Cases[0].Body)
	if first == "" {
		return ""
	}
	for _, c := range n.Cases[1:] {
		if InferType(c.Body) != first {
			return ""
		}
	}
	return first
}

func inferQualifiedName(name string) string {
	last := name
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		last = name[idx+1:]
	}
	// The canonical empty-list constant.
	if last == "Nil" {
		return "List[Nothing]"
	}
	if recognizedTypes[last] {
		return last
	}
	return ""
}

func inferCall(n *lang.Node) string {
	if n.Fn == nil {
		return ""
	}

	// Qualified construction of a recognized standard collection or
	// date/time type infers its simplified name, propagating type args.
	if n.Fn.Kind == lang.KindQualifiedName {
		if inferred := inferQualifiedName(n.Fn.Name); inferred != "" {
			return inferred
		}
	}
	if n.Fn.Kind == lang.KindTypeApply {
		if base := lastSegment(n.Fn.TypeName); recognizedOuter(base) {
			return n.Fn.TypeName
		}
	}

	// Low-confidence fallback: name the last selector segment of the
	// call chain, e.g. builder.config.make(...) infers "make".
	if n.Fn.Kind == lang.KindQualifiedName {
		if seg := lastSegment(n.Fn.Name); seg != "" {
			return seg
		}
	}
	return ""
}

func lastSegment(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func recognizedOuter(name string) bool {
	bare := name
	if idx := strings.Index(bare, "["); idx >= 0 {
		bare = bare[:idx]
	}
	return recognizedTypes[bare]
}

// simpleTypeName recognizes standard collection constructors, possibly
// qualified, and returns the unqualified name.
func simpleTypeName(name string) string {
	last := lastSegment(name)
	if recognizedTypes[last] {
		return last
	}
	return ""
}

// recognizedTypes are the standard collection and date/time types whose
// qualified construction simplifies to the bare name.
var recognizedTypes = map[string]bool{
	"List":          true,
	"Seq":           true,
	"Vector":        true,
	"Set":           true,
	"Map":           true,
	"Array":         true,
	"Option":        true,
	"Some":          true,
	"Either":        true,
	"Iterator":      true,
	"LazyList":      true,
	"Stream":        true,
	"LocalDate":     true,
	"LocalTime":     true,
	"LocalDateTime": true,
	"ZonedDateTime": true,
	"Instant":       true,
	"Duration":      true,
}
