package ir

// Visitor is the traversal protocol over the IR. There is one method per
// concrete node variant; adding a variant without extending the Visitor is
// a compile error for every implementation.
type Visitor interface {
	// Declarations
	VisitProgram(n *Program)
	VisitTypeAlias(n *TypeAlias)
	VisitInterface(n *Interface)
	VisitClassDecl(n *ClassDecl)
	VisitModuleDecl(n *ModuleDecl)
	VisitMethodDef(n *MethodDef)

	// Types
	VisitSimpleType(n *SimpleType)
	VisitGenericType(n *GenericType)
	VisitUnionType(n *UnionType)
	VisitIntersectionType(n *IntersectionType)
	VisitFunctionType(n *FunctionType)
	VisitNullableType(n *NullableType)
	VisitTupleType(n *TupleType)

	// Statements
	VisitBlock(n *Block)
	VisitAssignment(n *Assignment)
	VisitReturn(n *Return)
	VisitConditional(n *Conditional)
	VisitLoop(n *Loop)
	VisitCaseExpr(n *CaseExpr)
	VisitBeginBlock(n *BeginBlock)
	VisitExprStmt(n *ExprStmt)

	// Expressions
	VisitLiteral(n *Literal)
	VisitVariableRef(n *VariableRef)
	VisitBinaryOp(n *BinaryOp)
	VisitUnaryOp(n *UnaryOp)
	VisitTernary(n *Ternary)
	VisitMethodCall(n *MethodCall)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitHashLiteral(n *HashLiteral)
	VisitInterpolatedString(n *InterpolatedString)
	VisitYield(n *Yield)
}

// BaseVisitor is a no-op Visitor. Embed it to implement only the methods a
// traversal cares about.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program)                       {}
func (BaseVisitor) VisitTypeAlias(*TypeAlias)                   {}
func (BaseVisitor) VisitInterface(*Interface)                   {}
func (BaseVisitor) VisitClassDecl(*ClassDecl)                   {}
func (BaseVisitor) VisitModuleDecl(*ModuleDecl)                 {}
func (BaseVisitor) VisitMethodDef(*MethodDef)                   {}
func (BaseVisitor) VisitSimpleType(*SimpleType)                 {}
func (BaseVisitor) VisitGenericType(*GenericType)               {}
func (BaseVisitor) VisitUnionType(*UnionType)                   {}
func (BaseVisitor) VisitIntersectionType(*IntersectionType)     {}
func (BaseVisitor) VisitFunctionType(*FunctionType)             {}
func (BaseVisitor) VisitNullableType(*NullableType)             {}
func (BaseVisitor) VisitTupleType(*TupleType)                   {}
func (BaseVisitor) VisitBlock(*Block)                           {}
func (BaseVisitor) VisitAssignment(*Assignment)                 {}
func (BaseVisitor) VisitReturn(*Return)                         {}
func (BaseVisitor) VisitConditional(*Conditional)               {}
func (BaseVisitor) VisitLoop(*Loop)                             {}
func (BaseVisitor) VisitCaseExpr(*CaseExpr)                     {}
func (BaseVisitor) VisitBeginBlock(*BeginBlock)                 {}
func (BaseVisitor) VisitExprStmt(*ExprStmt)                     {}
func (BaseVisitor) VisitLiteral(*Literal)                       {}
func (BaseVisitor) VisitVariableRef(*VariableRef)               {}
func (BaseVisitor) VisitBinaryOp(*BinaryOp)                     {}
func (BaseVisitor) VisitUnaryOp(*UnaryOp)                       {}
func (BaseVisitor) VisitTernary(*Ternary)                       {}
func (BaseVisitor) VisitMethodCall(*MethodCall)                 {}
func (BaseVisitor) VisitArrayLiteral(*ArrayLiteral)             {}
func (BaseVisitor) VisitHashLiteral(*HashLiteral)               {}
func (BaseVisitor) VisitInterpolatedString(*InterpolatedString) {}
func (BaseVisitor) VisitYield(*Yield)                           {}
