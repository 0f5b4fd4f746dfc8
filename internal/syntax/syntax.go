// Package syntax holds the structural facts about function bodies that the
// index store does not carry: parameter lists, local bindings and closure
// capture lists.
package syntax

// Position is a 1-based line and column within the function's file
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Param is a function parameter. Label is the external argument label and
// Name the internal binding visible to the body.
type Param struct {
	Label string `json:"label,omitempty"`
	Name  string `json:"name"`
	Position
}

// NodeKind identifies a body node
type NodeKind string

const (
	// NodeIdent reads a name. Children are evaluated in the same scope,
	// e.g. call arguments.
	NodeIdent NodeKind = "ident"
	// NodeBinding introduces a local name. Children form the initializer,
	// evaluated before the name is bound.
	NodeBinding NodeKind = "binding"
	// NodeBlock opens a lexical scope
	NodeBlock NodeKind = "block"
	// NodeClosure opens a scope holding its params and captures. Capture
	// sources are resolved in the enclosing scope.
	NodeClosure NodeKind = "closure"
)

// Capture is a closure capture list entry. Source is empty for shorthand
// captures such as [x].
type Capture struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Position
}

// SourceName is the name the capture reads from the enclosing scope
func (c Capture) SourceName() string {
	if c.Source != "" {
		return c.Source
	}
	return c.Name
}

// Node is one element of a function body tree
type Node struct {
	Kind NodeKind `json:"kind"`
	Name string   `json:"name,omitempty"`
	Position
	Params   []Param   `json:"params,omitempty"`
	Captures []Capture `json:"captures,omitempty"`
	Children []*Node   `json:"children,omitempty"`
}

// Function is the syntax of one function-like declaration. Body is nil for
// protocol requirements and other bodiless declarations.
type Function struct {
	USR    string  `json:"usr"`
	Params []Param `json:"params"`
	Body   *Node   `json:"body,omitempty"`
}

// Ident builds an identifier node
func Ident(name string, children ...*Node) *Node {
	return &Node{Kind: NodeIdent, Name: name, Children: children}
}

// Binding builds a local binding whose initializer is init
func Binding(name string, init ...*Node) *Node {
	return &Node{Kind: NodeBinding, Name: name, Children: init}
}

// Block builds a scope node
func Block(children ...*Node) *Node {
	return &Node{Kind: NodeBlock, Children: children}
}

// Closure builds a closure node
func Closure(params []Param, captures []Capture, children ...*Node) *Node {
	return &Node{Kind: NodeClosure, Params: params, Captures: captures, Children: children}
}
