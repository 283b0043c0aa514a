// Package ir defines the typed tree built by the parsers and consumed by the
// type checker, the optimizer and the code generators.
//
// Nodes are partitioned into four closed families (declarations, types,
// statements and expressions), each a Go interface with an unexported marker
// method, so a type switch over a family can be checked for exhaustiveness
// within this module. No node is shared between parents: the Program owns
// its whole declaration tree.
package ir

// Location is an optional source position carried by every node.
type Location struct {
	Line   int
	Column int
}

// NodeMeta is embedded by every IR node. It carries the optional source
// location and an open metadata map used by diagnostics passes.
type NodeMeta struct {
	Location *Location
	metadata map[string]interface{}
}

func (m *NodeMeta) Loc() *Location { return m.Location }

func (m *NodeMeta) SetMeta(key string, value interface{}) {
	if m.metadata == nil {
		m.metadata = make(map[string]interface{})
	}
	m.metadata[key] = value
}

func (m *NodeMeta) Meta(key string) (interface{}, bool) {
	v, ok := m.metadata[key]
	return v, ok
}

// Node is the base interface for all IR nodes.
type Node interface {
	Loc() *Location
	Accept(v Visitor)
}

// Decl is a top-level or nested declaration.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a method or block body.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// Type is a type annotation node. Every Type renders to a stable textual
// form via String, which the code generators rely on.
type Type interface {
	Node
	typeNode()
	String() string
}
