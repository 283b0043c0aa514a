package ir

// LiteralKind tags the value class of a Literal.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitString
	LitSymbol
	LitBool
	LitNil
	LitRegex
)

// Literal is a self-evaluating value. Value holds int64, float64, string or
// bool depending on Kind; nil literals carry no value.
type Literal struct {
	NodeMeta
	Kind  LiteralKind
	Value interface{}
}

func (e *Literal) exprNode()        {}
func (e *Literal) Accept(v Visitor) { v.VisitLiteral(e) }

// VarScope classifies a variable reference.
type VarScope int

const (
	ScopeLocal VarScope = iota
	ScopeInstance
	ScopeClass
	ScopeGlobal
	ScopeConstant
)

// VariableRef names a variable. Name keeps its sigil for non-local scopes
// (@x, @@x, $x).
type VariableRef struct {
	NodeMeta
	Name  string
	Scope VarScope
}

func (e *VariableRef) exprNode()        {}
func (e *VariableRef) Accept(v Visitor) { v.VisitVariableRef(e) }

// BinaryOp applies an infix operator.
type BinaryOp struct {
	NodeMeta
	Op    string
	Left  Expr
	Right Expr
}

func (e *BinaryOp) exprNode()        {}
func (e *BinaryOp) Accept(v Visitor) { v.VisitBinaryOp(e) }

// UnaryOp applies a prefix operator (! or -).
type UnaryOp struct {
	NodeMeta
	Op      string
	Operand Expr
}

func (e *UnaryOp) exprNode()        {}
func (e *UnaryOp) Accept(v Visitor) { v.VisitUnaryOp(e) }

// Ternary is cond ? then : else.
type Ternary struct {
	NodeMeta
	Cond Expr
	Then Expr
	Else Expr
}

func (e *Ternary) exprNode()        {}
func (e *Ternary) Accept(v Visitor) { v.VisitTernary(e) }

// ArgKind tags the form of a call argument. Splats and named arguments are
// first-class argument forms, not generic expressions.
type ArgKind int

const (
	ArgPositional ArgKind = iota
	ArgSplat              // *expr
	ArgDoubleSplat        // **expr
	ArgNamed              // key: expr
)

// Argument is one call-site argument.
type Argument struct {
	NodeMeta
	Kind  ArgKind
	Name  string // only for ArgNamed
	Value Expr
}

// MethodCall invokes a method, with or without an explicit receiver.
// Indexing a[i] is desugared to a MethodCall with Name "[]".
type MethodCall struct {
	NodeMeta
	Receiver Expr // nil for a bare call
	Name     string
	Args     []*Argument
}

func (e *MethodCall) exprNode()        {}
func (e *MethodCall) Accept(v Visitor) { v.VisitMethodCall(e) }

// ArrayLiteral is [a, b, c].
type ArrayLiteral struct {
	NodeMeta
	Elements []Expr
}

func (e *ArrayLiteral) exprNode()        {}
func (e *ArrayLiteral) Accept(v Visitor) { v.VisitArrayLiteral(e) }

// HashPair is one key => value or key: value entry.
type HashPair struct {
	NodeMeta
	Key   Expr
	Value Expr
}

// HashLiteral is {k => v, ...}.
type HashLiteral struct {
	NodeMeta
	Pairs []*HashPair
}

func (e *HashLiteral) exprNode()        {}
func (e *HashLiteral) Accept(v Visitor) { v.VisitHashLiteral(e) }

// StringPart is one segment of an interpolated string: either a literal
// text fragment (Expr nil) or an embedded expression (Expr non-nil).
type StringPart struct {
	Text string
	Expr Expr
}

// InterpolatedString is a double-quoted string with #{...} segments, in
// source order.
type InterpolatedString struct {
	NodeMeta
	Parts []StringPart
}

func (e *InterpolatedString) exprNode()        {}
func (e *InterpolatedString) Accept(v Visitor) { v.VisitInterpolatedString(e) }

// Yield invokes the method's block argument.
type Yield struct {
	NodeMeta
	Args []Expr
}

func (e *Yield) exprNode()        {}
func (e *Yield) Accept(v Visitor) { v.VisitYield(e) }
