package ir

// Program is the root node: the ordered list of top-level declarations of
// one compilation unit. Order matters for diagnostics and generated-code
// ordering only.
type Program struct {
	NodeMeta
	File  string
	Decls []Decl
}

func (p *Program) declNode()        {}
func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }

// TypeAlias binds a name to a type expression.
// type StringOrNil = String | nil
type TypeAlias struct {
	NodeMeta
	Name    string
	Aliased Type
}

func (d *TypeAlias) declNode()        {}
func (d *TypeAlias) Accept(v Visitor) { v.VisitTypeAlias(d) }

// InterfaceMember is one `name: Type` entry of an interface.
type InterfaceMember struct {
	Name string
	Type Type
}

// Interface is a structural member list.
// interface Printable
//   to_s: String
// end
type Interface struct {
	NodeMeta
	Name    string
	Members []InterfaceMember
}

func (d *Interface) declNode()        {}
func (d *Interface) Accept(v Visitor) { v.VisitInterface(d) }

// IVarDecl is a typed instance-variable declaration inside a class body.
// @name: String
type IVarDecl struct {
	NodeMeta
	Name string
	Slot *TypeSlot
}

// ClassDecl is a class with typed instance variables and method definitions.
type ClassDecl struct {
	NodeMeta
	Name       string
	SuperClass string // empty when none
	IVars      []*IVarDecl
	Methods    []*MethodDef
}

func (d *ClassDecl) declNode()        {}
func (d *ClassDecl) Accept(v Visitor) { v.VisitClassDecl(d) }

// ModuleDecl is a module holding method definitions.
type ModuleDecl struct {
	NodeMeta
	Name    string
	Methods []*MethodDef
}

func (d *ModuleDecl) declNode()        {}
func (d *ModuleDecl) Accept(v Visitor) { v.VisitModuleDecl(d) }

// ParamKind tags the declaration form of a parameter. The tag is explicit:
// consumers never infer it from position.
type ParamKind int

const (
	ParamRequired ParamKind = iota
	ParamOptional           // name: Type = default
	ParamRest               // *args
	ParamKeyword            // key:
	ParamBlock              // &blk
)

func (k ParamKind) String() string {
	switch k {
	case ParamOptional:
		return "optional"
	case ParamRest:
		return "rest"
	case ParamKeyword:
		return "keyword"
	case ParamBlock:
		return "block"
	}
	return "required"
}

// Param is one method parameter, in declaration order.
type Param struct {
	NodeMeta
	Name    string
	Kind    ParamKind
	Slot    *TypeSlot
	Default Expr // only for ParamOptional
}

// Visibility of a method definition.
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	}
	return "public"
}

// MethodDef is a method definition. Params preserves declaration order.
type MethodDef struct {
	NodeMeta
	Name       string
	Params     []*Param
	ReturnSlot *TypeSlot
	Body       *Block
	Visibility Visibility
}

func (d *MethodDef) declNode()        {}
func (d *MethodDef) Accept(v Visitor) { v.VisitMethodDef(d) }
