package ir

// Block is an ordered statement list.
type Block struct {
	NodeMeta
	Statements []Stmt
}

func (s *Block) stmtNode()        {}
func (s *Block) Accept(v Visitor) { v.VisitBlock(s) }

// Assignment binds a value to a target, optionally with a declared type.
// x = 1
// x: Integer = 1
type Assignment struct {
	NodeMeta
	Target *VariableRef
	Slot   *TypeSlot // explicit type when annotated, otherwise inferred
	Value  Expr
}

func (s *Assignment) stmtNode()        {}
func (s *Assignment) Accept(v Visitor) { v.VisitAssignment(s) }

// Return exits the enclosing method, optionally with a value.
type Return struct {
	NodeMeta
	Value Expr // nil for a bare return
}

func (s *Return) stmtNode()        {}
func (s *Return) Accept(v Visitor) { v.VisitReturn(s) }

// Conditional covers if and unless. An elsif chain parses as a nested
// Conditional in the Else branch, one node per clause.
type Conditional struct {
	NodeMeta
	Unless bool
	Cond   Expr
	Then   *Block
	Else   *Block // nil when absent
}

func (s *Conditional) stmtNode()        {}
func (s *Conditional) Accept(v Visitor) { v.VisitConditional(s) }

// Loop covers while and until.
type Loop struct {
	NodeMeta
	Until bool
	Cond  Expr
	Body  *Block
}

func (s *Loop) stmtNode()        {}
func (s *Loop) Accept(v Visitor) { v.VisitLoop(s) }

// WhenClause is one arm of a case statement.
type WhenClause struct {
	NodeMeta
	Values []Expr
	Body   *Block
}

// CaseExpr is a case/when/else statement.
type CaseExpr struct {
	NodeMeta
	Subject Expr
	Whens   []*WhenClause
	Else    *Block // nil when absent
}

func (s *CaseExpr) stmtNode()        {}
func (s *CaseExpr) Accept(v Visitor) { v.VisitCaseExpr(s) }

// RescueClause is one rescue arm of a begin block.
type RescueClause struct {
	NodeMeta
	Exception Type   // nil for a bare rescue
	VarName   string // empty when no => name binding
	Body      *Block
}

// BeginBlock is begin/rescue/else/ensure.
type BeginBlock struct {
	NodeMeta
	Body    *Block
	Rescues []*RescueClause
	Else    *Block // nil when absent
	Ensure  *Block // nil when absent
}

func (s *BeginBlock) stmtNode()        {}
func (s *BeginBlock) Accept(v Visitor) { v.VisitBeginBlock(s) }

// ExprStmt wraps a bare expression in statement position.
type ExprStmt struct {
	NodeMeta
	Expr Expr
}

func (s *ExprStmt) stmtNode()        {}
func (s *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(s) }
