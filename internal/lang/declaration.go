// # internal/lang/declaration.go
package lang

type DeclKind int

const (
	DeclVal DeclKind = iota
	DeclVar
	DeclDef
	DeclType
	DeclClass
	DeclTrait
	DeclObject
	DeclEnum
	DeclGiven
)

func (k DeclKind) String() string {
	switch k {
	case DeclVal:
		return "val"
	case DeclVar:
		return "var"
	case DeclDef:
		return "def"
	case DeclType:
		return "type"
	case DeclClass:
		return "class"
	case DeclTrait:
		return "trait"
	case DeclObject:
		return "object"
	case DeclEnum:
		return "enum"
	case DeclGiven:
		return "given"
	default:
		return "unknown"
	}
}

type Access int

const (
	AccessPublic Access = iota
	AccessProtected
	AccessPrivate
)

func (a Access) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	default:
		return "public"
	}
}

// ModifierSet is a bit set of the declaration modifiers the metrics track.
type ModifierSet uint8

const (
	ModEvidence ModifierSet = 1 << iota // implicit / using-provided
	ModInline
	ModGivenInstance
	ModGivenConversion
	ModAbstract
)

func (m ModifierSet) Has(flag ModifierSet) bool { return m&flag != 0 }

type Param struct {
	Name       string
	TypeName   string
	HasDefault bool
	ByName     bool
	Vararg     bool
	Inline     bool
}

// ParamList is one parameter clause. Evidence marks an implicit/using
// clause whose arguments the compiler supplies from context.
type ParamList struct {
	Evidence bool
	Params   []Param
}

// Declaration is a named member discovered in a source file. Body is nil
// for abstract declarations.
type Declaration struct {
	Name               string
	Kind               DeclKind
	Access             Access
	Modifiers          ModifierSet
	ParamLists         []ParamList
	HasDocComment      bool
	Deprecated         bool
	ExplicitReturnType bool
	ReturnTypeName     string // as written, only when ExplicitReturnType
	Body               *Node
	Nesting            int // 0 for top-level, +1 per enclosing declaration
	StartLine          int
	EndLine            int
}

// LOC is the inclusive line count of the declaration's span.
func (d *Declaration) LOC() int {
	if d == nil {
		return 0
	}
	loc := d.EndLine - d.StartLine + 1
	if loc < 1 {
		return 1
	}
	return loc
}

// SourceFile is the parse product the metrics pipeline consumes.
type SourceFile struct {
	Path         string
	PackageName  string
	Dialect      string
	Declarations []*Declaration
	LOC          int
	ByteSize     int64
}
