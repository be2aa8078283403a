// # internal/lang/node.go
package lang

// NodeKind tags the closed set of expression/statement shapes the metric
// analyzers recognize. Anything the parser cannot normalize into one of
// these becomes KindUnrecognized so traversals stay exhaustive.
type NodeKind int

const (
	KindUnrecognized NodeKind = iota
	KindBlock
	KindConditional
	KindMatch
	KindLoop
	KindTry
	KindBinaryOp
	KindLambda
	KindLiteral
	KindCollection
	KindQualifiedName
	KindTypeAscription
	KindTypeApply
	KindCall
	KindNestedDecl
)

func (k NodeKind) String() string {
	switch k {
	case KindBlock:
		return "block"
	case KindConditional:
		return "conditional"
	case KindMatch:
		return "match"
	case KindLoop:
		return "loop"
	case KindTry:
		return "try"
	case KindBinaryOp:
		return "binary_op"
	case KindLambda:
		return "lambda"
	case KindLiteral:
		return "literal"
	case KindCollection:
		return "collection"
	case KindQualifiedName:
		return "qualified_name"
	case KindTypeAscription:
		return "type_ascription"
	case KindTypeApply:
		return "type_apply"
	case KindCall:
		return "call"
	case KindNestedDecl:
		return "nested_decl"
	default:
		return "unrecognized"
	}
}

type LoopKind int

const (
	LoopWhile LoopKind = iota
	LoopDoWhile
	LoopFor
	LoopForYield
)

type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitLong
	LitFloat
	LitDouble
	LitBoolean
	LitChar
	LitString
	LitInterpolatedString
	LitSymbol
	LitUnit
	LitNull
)

// Case is one alternative of a match expression or a catch clause.
type Case struct {
	Wildcard bool
	Guard    *Node
	Body     *Node
}

// Node is one tagged variant of the expression tree. Only the fields of the
// active Kind are populated; the rest stay zero. Every node carries its
// inclusive source-line span.
type Node struct {
	Kind      NodeKind
	StartLine int
	EndLine   int

	// KindBlock; also carries the normalized children of a
	// KindUnrecognized node so traversal does not stop there
	Stmts []*Node

	// KindConditional
	Cond *Node
	Then *Node
	Else *Node // nil when the conditional has no else branch

	// KindMatch
	Scrutinee *Node
	Cases     []Case

	// KindLoop
	Loop       LoopKind
	Generators int
	Filters    []*Node
	Body       *Node // also: KindLambda body, KindNestedDecl body

	// KindTry
	TryBody   *Node
	Catches   []Case
	Finalizer *Node

	// KindBinaryOp
	Op    string
	Left  *Node
	Right *Node

	// KindLiteral
	Literal LiteralKind

	// KindCollection
	Name     string // constructor name, e.g. "List", "Map"
	Elems    []*Node
	TypeArgs []string

	// KindQualifiedName: Name holds the dotted path, e.g. "scala.Nil"

	// KindTypeAscription / KindTypeApply
	TypeName string
	Target   *Node

	// KindCall
	Fn   *Node
	Args []*Node
}

// LOC is the inclusive line count of the node's span.
func (n *Node) LOC() int {
	if n == nil {
		return 0
	}
	loc := n.EndLine - n.StartLine + 1
	if loc < 1 {
		return 1
	}
	return loc
}

// Children returns every direct sub-expression in source order. Traversals
// that only need reachability use this; analyzers that weight specific
// positions (branches, case bodies) descend by field instead.
func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	add := func(c *Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	switch n.Kind {
	case KindBlock, KindUnrecognized:
		out = append(out, n.Stmts...)
	case KindConditional:
		add(n.Cond)
		add(n.Then)
		add(n.Else)
	case KindMatch:
		add(n.Scrutinee)
		for _, c := range n.Cases {
			add(c.Guard)
			add(c.Body)
		}
	case KindLoop:
		out = append(out, n.Filters...)
		add(n.Body)
	case KindTry:
		add(n.TryBody)
		for _, c := range n.Catches {
			add(c.Guard)
			add(c.Body)
		}
		add(n.Finalizer)
	case KindBinaryOp:
		add(n.Left)
		add(n.Right)
	case KindLambda, KindNestedDecl:
		add(n.Body)
	case KindCollection:
		out = append(out, n.Elems...)
	case KindTypeAscription, KindTypeApply:
		add(n.Target)
	case KindCall:
		add(n.Fn)
		out = append(out, n.Args...)
	}
	return out
}
